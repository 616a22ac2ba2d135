package models

import "time"

// Cart is the working order for one POS terminal. TerminalID comes from the
// JWT subject, so there is exactly one cart per logged-in terminal.
type Cart struct {
	CartID       uint       `gorm:"primaryKey" json:"cartId"`
	TerminalID   string     `gorm:"uniqueIndex" json:"terminalId"`
	OrderTakerID *uint      `json:"orderTakerId"`
	ZeroBill     bool       `json:"zeroBill"` // override: bill forced to 0 at checkout
	Items        []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CartItem is one line of the cart. Line identity is (ProductID, PlateType):
// the same product may appear once per plate size, never twice for the same
// size. Product name and price are copied in at add time.
type CartItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CartID        uint      `gorm:"index;uniqueIndex:idx_cart_line" json:"cartId"`
	ProductID     uint      `gorm:"uniqueIndex:idx_cart_line" json:"productId"`
	PlateType     string    `gorm:"uniqueIndex:idx_cart_line" json:"plateType"`
	ProductName   string    `json:"name"`
	SelectedPrice float64   `json:"selectedPrice"`
	Quantity      int       `json:"quantity"`
	AddedAt       time.Time `json:"addedAt"`
}

// Subtotal of the raw line prices. The zero-bill override is applied by the
// checkout flow, not here.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.SelectedPrice * float64(item.Quantity)
	}
	return sum
}
