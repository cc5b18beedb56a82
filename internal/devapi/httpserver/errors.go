package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_inventory/internal/devapi/service"
)

// toHTTP maps service errors to responses. Validation failures carry the
// per-field list under "errors"; everything else a single "message".
func toHTTP(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": verr.Fields})
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, service.ErrUserExists):
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "User not authorized")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Server error").SetInternal(err)
}
