package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/tahirfruitchaat/pos-api/controllers/cart"
	productcontroller "github.com/tahirfruitchaat/pos-api/controllers/product"
	saleControllers "github.com/tahirfruitchaat/pos-api/controllers/sale"
	takerControllers "github.com/tahirfruitchaat/pos-api/controllers/taker"
	"github.com/tahirfruitchaat/pos-api/gateway"
	"github.com/tahirfruitchaat/pos-api/middleware"
	"gorm.io/gorm"
)

// SetupPOSRoutes registers the terminal-facing endpoints: catalog reads,
// the cart engine, and checkout.
func SetupPOSRoutes(r *gin.Engine, db *gorm.DB, upstream *gateway.Client) {
	// Catalog reads are open to any logged-in terminal
	products := r.Group("/products")
	products.Use(middleware.ValidateToken)
	{
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))
	}

	// Roster reads only; taker management lives under /admin
	takers := r.Group("/order-takers")
	takers.Use(middleware.ValidateToken)
	{
		takers.GET("", takerControllers.GetOrderTakers(db))
		takers.GET("/:takerID", takerControllers.GetOrderTakerByID(db))
	}

	pos := r.Group("/pos")
	pos.Use(middleware.ValidateToken)
	{
		pos.GET("/cart", cartControllers.GetCart(db))
		pos.POST("/cart", cartControllers.AddCartItem(db))
		pos.PUT("/cart", cartControllers.UpdateCartItem(db))
		pos.DELETE("/cart", cartControllers.ClearCartHandler(db))
		pos.DELETE("/cart/:product_id", cartControllers.DeleteCartItem(db))

		pos.PUT("/cart/taker", cartControllers.SelectTakerHandler(db))
		pos.POST("/cart/zero-bill", cartControllers.ActivateZeroBillHandler(db))

		pos.POST("/checkout", saleControllers.CheckoutHandler(db, upstream))
	}
}
