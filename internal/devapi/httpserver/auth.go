package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_inventory/internal/devapi/service"
	"github.com/Skotchmaster/product_inventory/internal/logging"
	authmw "github.com/Skotchmaster/product_inventory/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return toHTTP(c, err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req service.LoginInput
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, err := h.Svc.Login(ctx, req)
	if err != nil {
		return toHTTP(c, err)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

func (h *AuthHTTP) CurrentUser(c echo.Context) error {
	user, ok := authmw.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
	}
	return c.JSON(http.StatusOK, user)
}
