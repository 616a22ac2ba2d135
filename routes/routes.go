package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tahirfruitchaat/pos-api/gateway"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up Auth, POS, Sales, and
// Admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, upstream *gateway.Client) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Terminal routes (JWT-protected): cart, checkout, catalog reads
	SetupPOSRoutes(r, db, upstream)

	// Sales history routes (JWT-protected)
	SetupSalesRoutes(r, db)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db)
}
