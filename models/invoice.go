package models

import "fmt"

// InvoiceCounter is a single-row table backing the receipt numbering. The
// row is incremented under a row lock inside the checkout transaction, so
// invoice ids are strictly monotonic and survive restarts and sale resets.
type InvoiceCounter struct {
	ID   uint  `gorm:"primaryKey"`
	Next int64 `gorm:"not null;default:1"`
}

// FormatInvoiceID renders the printed invoice identifier, e.g. INV-000042.
func FormatInvoiceID(n int64) string {
	return fmt.Sprintf("INV-%06d", n)
}
