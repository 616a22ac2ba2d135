package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/tahirfruitchaat/pos-api/controllers/admin"
	productcontroller "github.com/tahirfruitchaat/pos-api/controllers/product"
	takerControllers "github.com/tahirfruitchaat/pos-api/controllers/taker"
	"github.com/tahirfruitchaat/pos-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key
// middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── User Management & Activity ───────────
		adminGroup.GET("/users", adminController.GetAllUsers(db))
		adminGroup.POST("/users", adminController.CreateUser(db))
		adminGroup.DELETE("/users/:userID", adminController.DeleteUser(db))
		adminGroup.GET("/activity", adminController.GetActivityLog(db))

		// ─────────── Order Taker Management ───────────
		takerAdmin := adminGroup.Group("/order-takers")
		{
			takerAdmin.POST("", takerControllers.CreateOrderTaker(db))
			takerAdmin.PUT("/:takerID", takerControllers.UpdateOrderTaker(db))
			takerAdmin.DELETE("/:takerID", takerControllers.DeleteOrderTaker(db))
		}

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}
	}
}
