package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	authmw "github.com/Skotchmaster/product_inventory/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/product_inventory/pkg/middleware/logging"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	Logger         *slog.Logger
}

// New builds the echo instance serving the inventory API.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	if d.Logger != nil {
		e.Use(loggingmw.RequestLogger(d.Logger))
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	bearer := authmw.NewBearerMiddleware(d.AuthHandler.Svc)

	auth := e.Group("/api/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/user", d.AuthHandler.CurrentUser, bearer.RequireAuth)

	products := e.Group("/api/products")
	products.GET("", d.CatalogHandler.GetProducts, bearer.OptionalAuth)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct, bearer.RequireAuth)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct, bearer.RequireAuth)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, bearer.RequireAuth)
}
