// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the product entity
type Product struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	SKU            string          `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name           string          `gorm:"not null;size:255" json:"name"`
	Description    *string         `gorm:"type:text" json:"description"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"retail_price"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"wholesale_price"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost_price"`
	Barcode        *string         `gorm:"size:100;index" json:"barcode"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Margin returns the retail margin over cost price
func (p *Product) Margin() decimal.Decimal {
	return p.RetailPrice.Sub(p.CostPrice)
}
