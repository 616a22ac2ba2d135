package routes

import (
	"github.com/gin-gonic/gin"
	saleControllers "github.com/tahirfruitchaat/pos-api/controllers/sale"
	"github.com/tahirfruitchaat/pos-api/middleware"
	"gorm.io/gorm"
)

func SetupSalesRoutes(r *gin.Engine, db *gorm.DB) {
	sales := r.Group("/sales")
	sales.Use(middleware.ValidateToken)
	{
		sales.GET("", saleControllers.GetSales(db))
		sales.GET("/stats", saleControllers.GetSalesStats(db))
		sales.GET("/export-excel", saleControllers.ExportSalesToExcel(db))

		// websocket endpoint for real-time sale updates
		sales.GET("/ws", saleControllers.SalesWebSocketHandler)

		sales.GET("/:saleID", saleControllers.GetSaleByID(db))
		sales.GET("/:saleID/receipt", saleControllers.GetReceipt(db))
		sales.PUT("/:saleID", saleControllers.UpdateSaleHandler(db))
		sales.DELETE("/:saleID", saleControllers.DeleteSaleHandler(db))

		// Reset all sales (PIN-gated)
		sales.DELETE("/reset", saleControllers.ResetSalesHandler(db))
	}
}
