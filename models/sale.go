package models

import "time"

type PaymentMethod string
type OrderType string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentOnline PaymentMethod = "Online Payment"

	OrderDineIn    OrderType = "Dine In"
	OrderTakeAway  OrderType = "Take Away"
	OrderDriveThru OrderType = "Drive Thru"
	OrderDelivery  OrderType = "Delivery"
)

// Sale is a completed checkout. OrderTaker holds the taker's name as it was
// at sale time, never a foreign key, so deleting or renaming a taker leaves
// history intact. Debited records whether the ledger was actually charged;
// refunds on edit/delete only apply when it is set.
type Sale struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Ref           string        `gorm:"uniqueIndex" json:"ref"`
	InvoiceID     string        `gorm:"uniqueIndex" json:"invoiceId"`
	Items         []SaleItem    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `gorm:"type:VARCHAR(20)" json:"paymentMethod"`
	OrderType     OrderType     `gorm:"type:VARCHAR(20)" json:"orderType"`
	OrderTaker    string        `gorm:"index" json:"orderTaker"`
	ZeroBill      bool          `json:"zeroBill"`
	Debited       bool          `json:"debited"`
	Synced        bool          `gorm:"index" json:"synced"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
}

// SaleItem is an immutable snapshot of one sold line. PlateType is always
// stored explicitly; it is never inferred from a price comparison.
type SaleItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SaleID    uint    `gorm:"index" json:"saleId"`
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	PlateType string  `json:"plateType"`
	Quantity  int     `json:"quantity"`
}

// ItemsTotal recomputes the sale total from its line items. This is the
// authoritative total whenever items change.
func ItemsTotal(items []SaleItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.UnitPrice * float64(item.Quantity)
	}
	return sum
}
