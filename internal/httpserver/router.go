package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	AuthMW         *AuthMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/check-status", d.AuthHandler.CheckStatus, d.AuthMW.RequireUser)

	products := e.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:term", d.CatalogHandler.GetProduct)

	// Mutations need a principal; the admin-role requirement for update and
	// delete is enforced inside the catalog service.
	mutate := products.Group("", d.AuthMW.RequireUser)
	mutate.POST("", d.CatalogHandler.CreateProduct)
	mutate.PATCH("/:id", d.CatalogHandler.PatchProduct)
	mutate.DELETE("/:id", d.CatalogHandler.DeleteProduct)
}
