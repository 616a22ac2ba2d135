package cartControllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tahirfruitchaat/pos-api/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidPlateType  = errors.New("invalid plate type")
	ErrProductNotFound   = errors.New("product does not exist")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPIN        = errors.New("invalid override PIN")
)

type AddItemInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	PlateType string `json:"plate_type" binding:"required"`
}

type SetQuantityInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	PlateType string `json:"plate_type" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type SelectTakerInput struct {
	TakerID uint `json:"taker_id" binding:"required"`
}

type ZeroBillInput struct {
	PIN     string `json:"pin" binding:"required"`
	TakerID uint   `json:"taker_id" binding:"required"`
}

// -------- Core Logic --------

// GetOrCreateCart returns the terminal's cart, creating it on first use.
func GetOrCreateCart(db *gorm.DB, terminalID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").Where("terminal_id = ?", terminalID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = models.Cart{TerminalID: terminalID}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartTotal applies the zero-bill override on top of the raw subtotal.
func CartTotal(cart *models.Cart) float64 {
	if cart.ZeroBill {
		return 0
	}
	return cart.Subtotal()
}

func normalizePlate(product *models.Product, plateType string) (string, error) {
	if product.IsSolo {
		return models.PlateFull, nil
	}
	switch plateType {
	case models.PlateFull, models.PlateHalf:
		return plateType, nil
	default:
		return "", ErrInvalidPlateType
	}
}

// AddItem adds one unit of (product, plate) to the terminal's cart. An
// existing line is incremented; the increment is refused once it would
// exceed the plate tier's available stock. A fresh line is created with
// quantity 1 without a stock check.
func AddItem(db *gorm.DB, terminalID string, productID uint, plateType string) (*models.CartItem, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	plate, err := normalizePlate(&product, plateType)
	if err != nil {
		return nil, err
	}

	cart, err := GetOrCreateCart(db, terminalID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND product_id = ? AND plate_type = ?", cart.CartID, product.ID, plate).
		First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item = models.CartItem{
			CartID:        cart.CartID,
			ProductID:     product.ID,
			PlateType:     plate,
			ProductName:   product.Name,
			SelectedPrice: product.PriceFor(plate),
			Quantity:      1,
			AddedAt:       time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}

	if item.Quantity+1 > product.StockFor(plate) {
		return nil, ErrInsufficientStock
	}
	item.Quantity++
	item.AddedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity replaces a line's quantity. Zero or less removes the line;
// anything above the tier's stock is clamped down to it.
func SetQuantity(db *gorm.DB, terminalID string, productID uint, plateType string, quantity int) (*models.CartItem, error) {
	cart, err := GetOrCreateCart(db, terminalID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ? AND plate_type = ?", cart.CartID, productID, plateType).
		First(&item).Error; err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := db.Delete(&item).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err == nil {
		if stock := product.StockFor(item.PlateType); quantity > stock {
			quantity = stock
		}
	}
	if quantity <= 0 {
		if err := db.Delete(&item).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	item.Quantity = quantity
	if err := db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes a line. Removing an absent line is a no-op.
func RemoveItem(db *gorm.DB, terminalID string, productID uint, plateType string) error {
	cart, err := GetOrCreateCart(db, terminalID)
	if err != nil {
		return err
	}
	return db.Where("cart_id = ? AND product_id = ? AND plate_type = ?", cart.CartID, productID, plateType).
		Delete(&models.CartItem{}).Error
}

// ClearCart empties the terminal's cart and drops the zero-bill override.
func ClearCart(db *gorm.DB, terminalID string) error {
	cart, err := GetOrCreateCart(db, terminalID)
	if err != nil {
		return err
	}
	if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return db.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
		Update("zero_bill", false).Error
}

// SelectTaker attributes the cart to an order taker. Switching to a
// different taker always clears the zero-bill override.
func SelectTaker(db *gorm.DB, terminalID string, takerID uint) (*models.Cart, error) {
	var taker models.OrderTaker
	if err := db.First(&taker, "id = ?", takerID).Error; err != nil {
		return nil, err
	}

	cart, err := GetOrCreateCart(db, terminalID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"order_taker_id": taker.ID}
	if cart.OrderTakerID == nil || *cart.OrderTakerID != taker.ID {
		updates["zero_bill"] = false
	}
	if err := db.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetOrCreateCart(db, terminalID)
}

// ActivateZeroBill turns on the PIN-gated override: the cart is attributed
// to the given taker and its bill is forced to 0 until checkout or until a
// different taker is selected. The PIN comes from POS_OVERRIDE_PIN; an
// unset PIN means the mode is disabled outright.
func ActivateZeroBill(db *gorm.DB, terminalID, pin string, takerID uint) (*models.Cart, error) {
	configured := os.Getenv("POS_OVERRIDE_PIN")
	if configured == "" || pin != configured {
		return nil, ErrInvalidPIN
	}

	var taker models.OrderTaker
	if err := db.First(&taker, "id = ?", takerID).Error; err != nil {
		return nil, err
	}

	cart, err := GetOrCreateCart(db, terminalID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
		Updates(map[string]interface{}{"order_taker_id": taker.ID, "zero_bill": true}).Error; err != nil {
		return nil, err
	}
	return GetOrCreateCart(db, terminalID)
}

// -------- Handlers --------

func terminalID(c *gin.Context) (string, bool) {
	val, exists := c.Get("terminal_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	id, ok := val.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return id, true
}

// GET /pos/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := terminalID(c)
		if !ok {
			return
		}
		cart, err := GetOrCreateCart(db, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart, "total": CartTotal(cart)})
	}
}

// POST /pos/cart
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := terminalID(c)
		if !ok {
			return
		}
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		item, err := AddItem(db, id, input.ProductID, input.PlateType)
		if err != nil {
			c.JSON(statusForCartError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /pos/cart
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := terminalID(c)
		if !ok {
			return
		}
		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		item, err := SetQuantity(db, id, input.ProductID, input.PlateType, input.Quantity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		if item == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /pos/cart/:product_id?plate_type=...
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := terminalID(c)
		if !ok {
			return
		}
		productID, ok := parseUintParam(c, "product_id")
		if !ok {
			return
		}
		plateType := c.Query("plate_type")
		if plateType == "" {
			plateType = models.PlateFull
		}
		if err := RemoveItem(db, id, productID, plateType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /pos/cart
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := terminalID(c)
		if !ok {
			return
		}
		if err := ClearCart(db, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// PUT /pos/cart/taker
func SelectTakerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := terminalID(c)
		if !ok {
			return
		}
		var input SelectTakerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, err := SelectTaker(db, id, input.TakerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Order taker does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select order taker"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /pos/cart/zero-bill
func ActivateZeroBillHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := terminalID(c)
		if !ok {
			return
		}
		var input ZeroBillInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, err := ActivateZeroBill(db, id, input.PIN, input.TakerID)
		if err != nil {
			if errors.Is(err, ErrInvalidPIN) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect PIN"})
				return
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Order taker does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate zero-bill mode"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func statusForCartError(err error) int {
	switch {
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrInvalidPlateType):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
