// internal/domain/shipping/entity.go
package shipping

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingStatus represents the delivery status of a shipment
type ShippingStatus string

const (
	StatusPending    ShippingStatus = "PENDING"
	StatusProcessing ShippingStatus = "PROCESSING"
	StatusPacked     ShippingStatus = "PACKED"
	StatusShipped    ShippingStatus = "SHIPPED"
	StatusDelivered  ShippingStatus = "DELIVERED"
	StatusCancelled  ShippingStatus = "CANCELLED"
)

// IsValid reports whether the status is a known shipping status
func (s ShippingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusPacked,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Shipping represents the delivery record for a sales transaction
type Shipping struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	TransactionID     uint            `gorm:"not null;index" json:"transaction_id"`
	ShippingAddress   string          `gorm:"type:text;not null" json:"shipping_address"`
	TrackingNumber    *string         `gorm:"size:100;index" json:"tracking_number"`
	Carrier           *string         `gorm:"size:100" json:"carrier"`
	ShippingCost      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_cost"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
	ActualDelivery    *time.Time      `json:"actual_delivery"`
	AssignedPackerID  *uint           `gorm:"index" json:"assigned_packer_id"`
	Status            ShippingStatus  `gorm:"default:'PENDING';index" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ShippingLabel is the printable label payload for a shipment
type ShippingLabel struct {
	ShippingID     uint    `json:"shippingId"`
	TransactionID  uint    `json:"transactionId"`
	Address        string  `json:"address"`
	TrackingNumber *string `json:"trackingNumber"`
	Carrier        *string `json:"carrier"`
	GeneratedAt    string  `json:"generatedAt"`
}
