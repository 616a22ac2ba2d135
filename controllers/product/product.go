package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tahirfruitchaat/pos-api/models"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name      string  `json:"name" binding:"required"`
	FullPrice float64 `json:"full_price" binding:"required,gt=0"`
	HalfPrice float64 `json:"half_price"`
	FullStock int     `json:"full_stock"`
	HalfStock int     `json:"half_stock"`
	Barcode   string  `json:"barcode"`
	IsSolo    bool    `json:"is_solo"`
	ImageURL  string  `json:"image_url"`
	Category  string  `json:"category"`
}

type UpdateProductInput struct {
	Name      *string  `json:"name"`
	FullPrice *float64 `json:"full_price"`
	HalfPrice *float64 `json:"half_price"`
	FullStock *int     `json:"full_stock"`
	HalfStock *int     `json:"half_stock"`
	Barcode   *string  `json:"barcode"`
	IsSolo    *bool    `json:"is_solo"`
	ImageURL  *string  `json:"image_url"`
	Category  *string  `json:"category"`
}

// GET /products?search=&category=
// search matches the name (case-insensitive substring) or the exact barcode.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{})

		if search := c.Query("search"); search != "" {
			query = query.Where("LOWER(name) LIKE LOWER(?) OR barcode = ?", "%"+search+"%", search)
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}

		var products []models.Product
		if err := query.Order("name").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !input.IsSolo && input.HalfPrice <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "half_price is required unless is_solo is set"})
			return
		}
		if input.FullStock < 0 || input.HalfStock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock may not be negative"})
			return
		}

		product := models.Product{
			Name:      input.Name,
			FullPrice: input.FullPrice,
			HalfPrice: input.HalfPrice,
			FullStock: input.FullStock,
			HalfStock: input.HalfStock,
			Barcode:   input.Barcode,
			IsSolo:    input.IsSolo,
			ImageURL:  input.ImageURL,
			Category:  input.Category,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.FullPrice != nil {
			product.FullPrice = *input.FullPrice
		}
		if input.HalfPrice != nil {
			product.HalfPrice = *input.HalfPrice
		}
		if input.FullStock != nil {
			if *input.FullStock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Stock may not be negative"})
				return
			}
			product.FullStock = *input.FullStock
		}
		if input.HalfStock != nil {
			if *input.HalfStock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Stock may not be negative"})
				return
			}
			product.HalfStock = *input.HalfStock
		}
		if input.Barcode != nil {
			product.Barcode = *input.Barcode
		}
		if input.IsSolo != nil {
			product.IsSolo = *input.IsSolo
		}
		if input.ImageURL != nil {
			product.ImageURL = *input.ImageURL
		}
		if input.Category != nil {
			product.Category = *input.Category
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:id
// Soft delete; cart lines and sale items keep their own snapshots, so a
// deleted product degrades to "Unknown Product" in stale views rather than
// breaking them.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idParam := c.Param("id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
