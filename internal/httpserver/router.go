package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "ecom/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	SearchHandler  *SearchHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "Server is running") })

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	guard := middleware.NewGuard(d.JWTSecret)

	products := e.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/", d.CatalogHandler.GetProducts)
	products.GET("/search", d.SearchHandler.SearchProducts)
	products.GET("/:productId", d.CatalogHandler.GetProduct)

	admin := products.Group("", guard.RequireAdmin)
	admin.POST("/add", d.CatalogHandler.CreateProduct)
	admin.DELETE("/:productId", d.CatalogHandler.DeleteProduct)
}
