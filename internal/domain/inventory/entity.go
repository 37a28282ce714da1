// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/your-org/retail-backend/internal/domain/product"
)

// MovementType represents the type of inventory movement
type MovementType string

const (
	MovementTypeInbound    MovementType = "inbound"    // Purchase receipt, sales return
	MovementTypeOutbound   MovementType = "outbound"   // Sale, purchase return
	MovementTypeAdjustment MovementType = "adjustment" // Manual overwrite
)

// MovementReason represents the reason for inventory movement
type MovementReason string

const (
	ReasonSale           MovementReason = "sale"
	ReasonPurchase       MovementReason = "purchase"
	ReasonPurchaseReturn MovementReason = "purchase_return"
	ReasonSalesReturn    MovementReason = "sales_return"
	ReasonAdjustment     MovementReason = "adjustment"
)

// Warehouse represents a storage location
type Warehouse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     *string   `gorm:"size:20" json:"phone"`
	Email     *string   `gorm:"size:100" json:"email"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Records []InventoryRecord `gorm:"foreignKey:WarehouseID" json:"records,omitempty"`
}

// InventoryRecord represents stock levels for a product in a warehouse.
// At most one record exists per (product, warehouse) pair.
type InventoryRecord struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID        uint      `gorm:"not null;uniqueIndex:idx_inventory_product_warehouse" json:"product_id"`
	WarehouseID      uint      `gorm:"not null;uniqueIndex:idx_inventory_product_warehouse" json:"warehouse_id"`
	Quantity         int       `gorm:"default:0" json:"quantity"`
	ReservedQuantity int       `gorm:"default:0" json:"reserved_quantity"`
	ReorderLevel     int       `gorm:"default:10" json:"reorder_level"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relationships
	Product   product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Warehouse Warehouse       `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

// IsLowStock checks if the record is below its reorder level
func (r *InventoryRecord) IsLowStock() bool {
	return r.Quantity < r.ReorderLevel
}

// IsOutOfStock checks if the record has no stock on hand
func (r *InventoryRecord) IsOutOfStock() bool {
	return r.Quantity == 0
}

// StockMovement represents an audit record of a stock change
type StockMovement struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	InventoryRecordID uint           `gorm:"not null;index" json:"inventory_record_id"`
	MovementType      MovementType   `gorm:"not null" json:"movement_type"`
	Reason            MovementReason `gorm:"not null" json:"reason"`
	Quantity          int            `gorm:"not null" json:"quantity"`
	PreviousQuantity  int            `gorm:"not null" json:"previous_quantity"`
	NewQuantity       int            `gorm:"not null" json:"new_quantity"`
	ReferenceType     string         `gorm:"size:50" json:"reference_type"` // "purchase_order", "sales_transaction"
	ReferenceID       uint           `json:"reference_id"`
	Notes             string         `gorm:"type:text" json:"notes"`
	CreatedBy         uint           `gorm:"index" json:"created_by"`
	CreatedAt         time.Time      `json:"created_at"`

	// Relationships
	InventoryRecord InventoryRecord `gorm:"foreignKey:InventoryRecordID" json:"inventory_record,omitempty"`
}
