package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teslo-shop/backend/internal/service"
	"github.com/teslo-shop/backend/internal/transport"
	"github.com/teslo-shop/backend/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, res)
}

// CheckStatus re-issues a token for the already-authenticated principal.
func (h *AuthHTTP) CheckStatus(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.Svc.Reissue(ctx, CurrentUser(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, res)
}
