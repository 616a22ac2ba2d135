package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/tahirfruitchaat/pos-api/controllers/admin"
	"github.com/tahirfruitchaat/pos-api/middleware"
	"gorm.io/gorm"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	r.POST("/login", adminController.Login(db))
	r.POST("/logout", middleware.ValidateToken, adminController.Logout(db))
}
