package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/oakline/furniture_shop/internal/middleware/auth"
)

type Deps struct {
	ProductHandler *ProductHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	ReviewHandler  *ReviewHTTP
	SearchHandler  *SearchHTTP
	WebhookHandler *WebhookHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := authmw.New(d.JWTSecret)

	v1 := e.Group("/api/v1")

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	cart := v1.Group("/cart", mw.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddItem)
	cart.PUT("/item/:productId", d.CartHandler.UpdateItem)
	cart.DELETE("/item/:productId", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.Clear)

	orders := v1.Group("/orders", mw.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/myorders", d.OrderHandler.GetMyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id/pay", d.OrderHandler.PayOrder)

	staff := v1.Group("/orders", mw.RequireRole("admin", "editor"))
	staff.GET("", d.OrderHandler.GetAllOrders)
	staff.PUT("/:id/deliver", d.OrderHandler.DeliverOrder)
	staff.PUT("/:id/status", d.OrderHandler.UpdateStatus)

	v1.GET("/reviews/:productId", d.ReviewHandler.ListByProduct)
	reviews := v1.Group("/reviews", mw.RequireAuth)
	reviews.POST("/:productId", d.ReviewHandler.Create)
	reviews.PUT("/:productId", d.ReviewHandler.Update)
	reviews.DELETE("/:productId", d.ReviewHandler.Delete)

	// Gateway-signed, so no session auth here.
	e.POST("/webhooks/payment-notification", d.WebhookHandler.PaymentNotification)
}
