// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/catalog"
	"github.com/your-org/grocery-backend/internal/domain/checkout"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/interfaces/http/handlers"
)

// Services bundles the core services the routes are wired against.
type Services struct {
	Catalog  *catalog.Service
	Cart     *cart.Service
	Checkout *checkout.Service
	Orders   *order.Service
}

// SetupRoutes registers all API routes on the given group
func SetupRoutes(rg *gin.RouterGroup, svc Services) {
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog)
	cartHandler := handlers.NewCartHandler(svc.Cart, svc.Catalog)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout)
	orderHandler := handlers.NewOrderHandler(svc.Orders)

	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/categories", catalogHandler.GetCategories)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	cartRoutes := rg.Group("/cart")
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.POST("/items", cartHandler.AddToCart)
		cartRoutes.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cartRoutes.DELETE("", cartHandler.ClearCart)
		cartRoutes.GET("/count", cartHandler.GetCartCount)
		cartRoutes.POST("/promo", cartHandler.ApplyPromoCode)
	}

	rg.POST("/checkout", checkoutHandler.PlaceOrder)

	orders := rg.Group("/orders")
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.POST("/:id/confirm-delivery", orderHandler.ConfirmDelivery)
	}
}
