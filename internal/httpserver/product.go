package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/teslo-shop/backend/internal/service"
	"github.com/teslo-shop/backend/internal/transport"
	"github.com/teslo-shop/backend/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Create(ctx, req, CurrentUser(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	var p transport.Pagination
	if err := c.Bind(&p); err != nil {
		l.Warn("list failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")
	}

	items, err := h.Svc.FindAll(ctx, p)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, items)
}

// GetProduct accepts an id, a title (case-insensitive) or a slug as the term.
func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	prod, err := h.Svc.FindOnePlain(ctx, c.Param("term"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Update(ctx, id, req, CurrentUser(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	outcome, err := h.Svc.Remove(ctx, id, CurrentUser(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": outcome})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query must not be empty")
	}

	var p transport.Pagination
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")
	}

	total, hits, err := h.Svc.SearchIndexed(ctx, query, p)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total": total,
		"data":  hits,
	})
}
