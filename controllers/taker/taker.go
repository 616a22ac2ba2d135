package takerControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tahirfruitchaat/pos-api/models"
	"gorm.io/gorm"
)

type CreateTakerInput struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone"`
	Balance     float64 `json:"balance"`
	ImageURL    string  `json:"image_url"`
	SelfService bool    `json:"self_service"`
}

type UpdateTakerInput struct {
	Name        *string  `json:"name"`
	Phone       *string  `json:"phone"`
	Balance     *float64 `json:"balance"`
	ImageURL    *string  `json:"image_url"`
	SelfService *bool    `json:"self_service"`
}

// GET /order-takers — sorted by name for the picker.
func GetOrderTakers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var takers []models.OrderTaker
		if err := db.Order("name").Find(&takers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order takers"})
			return
		}
		c.JSON(http.StatusOK, takers)
	}
}

// GET /order-takers/:takerID
func GetOrderTakerByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		takerID, ok := parseTakerID(c)
		if !ok {
			return
		}
		var taker models.OrderTaker
		if err := db.First(&taker, "id = ?", takerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order taker not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order taker"})
			return
		}
		c.JSON(http.StatusOK, taker)
	}
}

// POST /order-takers
func CreateOrderTaker(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateTakerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Balance < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Balance may not be negative"})
			return
		}

		taker := models.OrderTaker{
			Name:        input.Name,
			Phone:       input.Phone,
			Balance:     input.Balance,
			ImageURL:    input.ImageURL,
			SelfService: input.SelfService,
		}
		if err := db.Create(&taker).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order taker"})
			return
		}
		c.JSON(http.StatusCreated, taker)
	}
}

// PUT /order-takers/:takerID
func UpdateOrderTaker(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		takerID, ok := parseTakerID(c)
		if !ok {
			return
		}
		var input UpdateTakerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Balance != nil && *input.Balance < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Balance may not be negative"})
			return
		}

		var taker models.OrderTaker
		if err := db.First(&taker, "id = ?", takerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order taker not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order taker"})
			return
		}

		if input.Name != nil {
			taker.Name = *input.Name
		}
		if input.Phone != nil {
			taker.Phone = *input.Phone
		}
		if input.Balance != nil {
			taker.Balance = *input.Balance
		}
		if input.ImageURL != nil {
			taker.ImageURL = *input.ImageURL
		}
		if input.SelfService != nil {
			taker.SelfService = *input.SelfService
		}

		if err := db.Save(&taker).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order taker"})
			return
		}
		c.JSON(http.StatusOK, taker)
	}
}

// DELETE /order-takers/:takerID
// Historical sales keep the taker's name snapshot, so deletion never
// cascades into sale history.
func DeleteOrderTaker(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		takerID, ok := parseTakerID(c)
		if !ok {
			return
		}
		result := db.Where("id = ?", takerID).Delete(&models.OrderTaker{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order taker"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order taker not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order taker deleted"})
	}
}

func parseTakerID(c *gin.Context) (uint, bool) {
	raw := c.Param("takerID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid takerID"})
		return 0, false
	}
	return uint(id), true
}
