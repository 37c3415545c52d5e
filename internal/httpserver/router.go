package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artshop/internal/middleware/auth"
)

type Deps struct {
	Users    *UsersHTTP
	Products *ProductsHTTP
	Orders   *OrdersHTTP
	Guard    *auth.Guard

	// Ready reports whether the storage backend answers.
	Ready func(ctx context.Context) error

	// UploadURL and UploadDir are set when images are kept on local disk.
	UploadURL string
	UploadDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return ok(c, nil) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return ok(c, nil)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, Envelope{Message: "not ready"})
		}
		return ok(c, nil)
	})

	if d.UploadDir != "" {
		e.Static(d.UploadURL, d.UploadDir)
	}

	required := d.Guard.Require()
	expiredOK := d.Guard.Require(auth.AllowExpired())
	optional := d.Guard.Optional()
	admin := d.Guard.RequireAdmin()

	users := e.Group("/users")
	users.POST("", d.Users.Register)
	users.POST("/login", d.Users.Login)
	users.DELETE("/logout", d.Users.Logout, expiredOK)
	users.PATCH("/extend", d.Users.Extend, expiredOK)
	users.GET("/me", d.Users.Me, required)
	users.PATCH("/edit", d.Users.Edit, required)
	users.GET("/cart", d.Users.GetCart, required)
	users.POST("/cart", d.Users.EditCart, required)
	users.GET("/likes", d.Users.GetLikes, required)
	users.PATCH("/likes/:pid", d.Users.EditLikes, required)

	products := e.Group("/products")
	products.POST("", d.Products.Create, required)
	products.GET("", d.Products.List, optional)
	products.GET("/all", d.Products.OwnerCatalog, required)
	products.GET("/user", d.Products.OwnerCatalog, required)
	products.GET("/admin", d.Products.AllProducts, admin)
	products.GET("/search", d.Products.Search, optional)
	products.GET("/random", d.Products.Random, optional)
	products.GET("/:id", d.Products.Get, optional)
	products.PATCH("/:id", d.Products.Edit, required)

	orders := e.Group("/orders")
	orders.POST("", d.Orders.Create, required)
	orders.GET("", d.Orders.ListOwn, required)
	orders.GET("/all", d.Orders.ListAll, admin)
}
