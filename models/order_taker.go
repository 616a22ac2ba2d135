package models

import "time"

// OrderTaker is a cashier identity sales are attributed to. Balance is the
// running amount the taker may still sell against; it is debited on checkout
// and credited back when a sale is deleted or edited down. Balances never go
// negative: checkout rejects any sale the balance cannot cover, unless the
// taker is self-service or the zero-bill override is active.
type OrderTaker struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Balance     float64   `json:"balance"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	SelfService bool      `json:"selfService"` // "Open Sale": exempt from balance checks, never debited
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
