package models

import (
	"time"

	"gorm.io/gorm"
)

// Plate type variants. A product sells in one of two tiers, each with its
// own price and stock count. Solo products only ever sell as Full Plate.
const (
	PlateFull = "Full Plate"
	PlateHalf = "Half Plate"
)

type Product struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"not null;uniqueIndex" json:"name"`
	FullPrice float64 `gorm:"not null" json:"fullPrice"`
	HalfPrice float64 `json:"halfPrice"`
	FullStock int     `json:"fullStock"`
	HalfStock int     `json:"halfStock"`
	Barcode   string  `gorm:"index" json:"barcode,omitempty"`
	IsSolo    bool    `json:"isSolo"` // no half-plate variant; half tiers ignored
	ImageURL  string  `json:"imageUrl,omitempty"`
	Category  string  `gorm:"index" json:"category"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PriceFor resolves the unit price for a plate type. Solo products always
// resolve to the full price.
func (p *Product) PriceFor(plateType string) float64 {
	if p.IsSolo || plateType == PlateFull {
		return p.FullPrice
	}
	return p.HalfPrice
}

// StockFor resolves the stock tier for a plate type.
func (p *Product) StockFor(plateType string) int {
	if p.IsSolo || plateType == PlateFull {
		return p.FullStock
	}
	return p.HalfStock
}

// DeductStock removes qty from the tier matching plateType.
func (p *Product) DeductStock(plateType string, qty int) {
	if p.IsSolo || plateType == PlateFull {
		p.FullStock -= qty
		return
	}
	p.HalfStock -= qty
}
