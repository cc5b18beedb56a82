package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_inventory/internal/models"
)

const CtxUser = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type BearerMiddleware struct {
	Auth Authenticator
}

func NewBearerMiddleware(auth Authenticator) *BearerMiddleware {
	return &BearerMiddleware{Auth: auth}
}

// BearerToken pulls the token out of an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAuth rejects requests without a valid bearer token.
func (m *BearerMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := BearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
		}
		user, err := m.Auth.Authenticate(c.Request().Context(), token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
		}
		c.Set(CtxUser, user)
		return next(c)
	}
}

// OptionalAuth attaches the user when a valid token is present and lets the
// request through either way.
func (m *BearerMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := BearerToken(c.Request()); token != "" {
			if user, err := m.Auth.Authenticate(c.Request().Context(), token); err == nil {
				c.Set(CtxUser, user)
			}
		}
		return next(c)
	}
}

func UserFrom(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(CtxUser).(*models.User)
	return u, ok && u != nil
}
