package httpserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/teslo-shop/backend/internal/models"
	"github.com/teslo-shop/backend/internal/repo"
	"github.com/teslo-shop/backend/internal/tokens"
)

const userContextKey = "user"

type AuthMiddleware struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

// RequireUser resolves the principal from a bearer token: valid signature and
// expiry, then the user is re-loaded from the store and must be active.
func (m *AuthMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.Verify(raw, m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		user, err := m.Repo.FindUserByID(c.Request().Context(), id)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		if !user.IsActive {
			return echo.NewHTTPError(http.StatusUnauthorized, "user is inactive")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the principal resolved by RequireUser, or nil.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}
