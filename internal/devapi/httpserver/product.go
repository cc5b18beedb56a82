package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_inventory/internal/devapi/service"
	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/models"
	authmw "github.com/Skotchmaster/product_inventory/pkg/middleware/auth"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return toHTTP(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		logging.FromContext(ctx).Warn("get_product_failed", "product_id", c.Param("id"), "error", err)
		return toHTTP(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	user, ok := authmw.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
	}

	var req models.ProductInput
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.CreateProduct(ctx, user.ID, req)
	if err != nil {
		return toHTTP(c, err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	user, ok := authmw.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
	}

	var req models.ProductInput
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.UpdateProduct(ctx, user.ID, c.Param("id"), req)
	if err != nil {
		return toHTTP(c, err)
	}

	l.Info("update_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := authmw.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
	}

	if err := h.Svc.DeleteProduct(ctx, user.ID, c.Param("id")); err != nil {
		return toHTTP(c, err)
	}

	logging.FromContext(ctx).Info("delete_product_success", "product_id", c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product removed"})
}
