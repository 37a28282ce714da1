// internal/domain/sales/entity.go
package sales

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/retail-backend/internal/domain/product"
)

// CustomerType represents the pricing tier of a customer
type CustomerType string

const (
	CustomerTypeRetail    CustomerType = "RETAIL"
	CustomerTypeWholesale CustomerType = "WHOLESALE"
)

// TransactionStatus represents the status of a sales transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
	TransactionStatusReturned  TransactionStatus = "RETURNED"
)

// Customer represents a buyer on record
type Customer struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Name         string           `gorm:"not null;size:255" json:"name"`
	Email        *string          `gorm:"size:255" json:"email"`
	Phone        *string          `gorm:"size:20" json:"phone"`
	Address      *string          `gorm:"type:text" json:"address"`
	CustomerType CustomerType     `gorm:"default:'RETAIL'" json:"customer_type"`
	CreditLimit  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"credit_limit"`
	IsActive     bool             `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// SalesTransaction represents an outbound sale
type SalesTransaction struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	CustomerID      *uint             `gorm:"index" json:"customer_id"`
	CashierID       uint              `gorm:"not null;index" json:"cashier_id"`
	TransactionType CustomerType      `gorm:"not null" json:"transaction_type"`
	Status          TransactionStatus `gorm:"default:'PENDING';index" json:"status"`
	Subtotal        decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount       decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	DiscountAmount  decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TotalAmount     decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod   string            `gorm:"not null;size:50" json:"payment_method"`
	Notes           *string           `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Relationships
	Customer *Customer              `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SalesTransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// SalesTransactionItem represents a line item of a sale
type SalesTransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relationships
	Product product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
