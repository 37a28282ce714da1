// internal/domain/inventory/service.go
package inventory

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/product"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles warehouse and inventory business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateWarehouseRequest represents warehouse creation data
type CreateWarehouseRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address string  `json:"address" binding:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

// UpdateInventoryRequest represents an inventory overwrite
type UpdateInventoryRequest struct {
	ProductID    uint `json:"product_id" binding:"required"`
	WarehouseID  uint `json:"warehouse_id" binding:"required"`
	Quantity     int  `json:"quantity"`
	ReorderLevel *int `json:"reorder_level"`
}

// InventoryReportRequest represents inventory report filters
type InventoryReportRequest struct {
	WarehouseID  *uint `form:"warehouse_id" json:"warehouse_id"`
	LowStockOnly bool  `form:"low_stock_only" json:"low_stock_only"`
}

// InventoryReportItem is a single line of the inventory report
type InventoryReportItem struct {
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	WarehouseID  uint            `json:"warehouse_id"`
	Quantity     int             `json:"quantity"`
	ReorderLevel int             `json:"reorder_level"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsOutOfStock bool            `json:"is_out_of_stock"`
}

// InventoryReport summarizes stock levels and valuation
type InventoryReport struct {
	WarehouseID     *uint                 `json:"warehouse_id,omitempty"`
	TotalProducts   int                   `json:"total_products"`
	LowStockCount   int                   `json:"low_stock_count"`
	OutOfStockCount int                   `json:"out_of_stock_count"`
	InventoryValue  decimal.Decimal       `json:"inventory_value"`
	Items           []InventoryReportItem `json:"items"`
}

// WAREHOUSE MANAGEMENT

// CreateWarehouse creates a new warehouse
func (s *Service) CreateWarehouse(req *CreateWarehouseRequest) (*Warehouse, error) {
	warehouse := &Warehouse{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: true,
	}

	if err := s.db.Create(warehouse).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create warehouse")
	}

	return warehouse, nil
}

// GetWarehouses retrieves all active warehouses
func (s *Service) GetWarehouses() ([]Warehouse, error) {
	var warehouses []Warehouse
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&warehouses).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve warehouses")
	}
	return warehouses, nil
}

// GetWarehouseByID retrieves a warehouse by id
func (s *Service) GetWarehouseByID(id uint) (*Warehouse, error) {
	var warehouse Warehouse
	if err := s.db.Where("id = ?", id).First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("warehouse with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to retrieve warehouse")
	}
	return &warehouse, nil
}

// INVENTORY MANAGEMENT

// UpdateInventory overwrites the stock level for a (product, warehouse) pair.
// The record is created lazily on first use; the reorder level only changes
// when one is supplied. The overwrite and its audit movement commit together.
func (s *Service) UpdateInventory(req *UpdateInventoryRequest, userID uint) (*InventoryRecord, error) {
	var prod product.Product
	if err := s.db.Where("id = ?", req.ProductID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Internal(err, "failed to check product")
	}

	var warehouse Warehouse
	if err := s.db.Where("id = ?", req.WarehouseID).First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("warehouse not found")
		}
		return nil, apperrors.Internal(err, "failed to check warehouse")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var record InventoryRecord
	err := tx.Where("product_id = ? AND warehouse_id = ?", req.ProductID, req.WarehouseID).First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		reorderLevel := s.config.POS.DefaultReorderLevel
		if req.ReorderLevel != nil {
			reorderLevel = *req.ReorderLevel
		}
		record = InventoryRecord{
			ProductID:    req.ProductID,
			WarehouseID:  req.WarehouseID,
			Quantity:     req.Quantity,
			ReorderLevel: reorderLevel,
		}
		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Internal(err, "failed to create inventory record")
		}

		movement := &StockMovement{
			InventoryRecordID: record.ID,
			MovementType:      MovementTypeAdjustment,
			Reason:            ReasonAdjustment,
			Quantity:          req.Quantity,
			PreviousQuantity:  0,
			NewQuantity:       req.Quantity,
			CreatedBy:         userID,
		}
		if err := tx.Create(movement).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Internal(err, "failed to record stock movement")
		}
	case err != nil:
		tx.Rollback()
		return nil, apperrors.Internal(err, "failed to check inventory record")
	default:
		previous := record.Quantity
		updates := map[string]interface{}{"quantity": req.Quantity}
		if req.ReorderLevel != nil {
			updates["reorder_level"] = *req.ReorderLevel
		}
		if err := tx.Model(&record).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Internal(err, "failed to update inventory record")
		}

		movement := &StockMovement{
			InventoryRecordID: record.ID,
			MovementType:      MovementTypeAdjustment,
			Reason:            ReasonAdjustment,
			Quantity:          req.Quantity - previous,
			PreviousQuantity:  previous,
			NewQuantity:       req.Quantity,
			CreatedBy:         userID,
		}
		if err := tx.Create(movement).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Internal(err, "failed to record stock movement")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Internal(err, "failed to commit inventory update")
	}

	return &record, nil
}

// GetInventoryRecord gets the record for a (product, warehouse) pair
func (s *Service) GetInventoryRecord(productID, warehouseID uint) (*InventoryRecord, error) {
	var record InventoryRecord
	if err := s.db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("inventory record not found")
		}
		return nil, apperrors.Internal(err, "failed to retrieve inventory record")
	}
	return &record, nil
}

// GetInventoryByWarehouse lists inventory records for one warehouse
func (s *Service) GetInventoryByWarehouse(warehouseID uint) ([]InventoryRecord, error) {
	var records []InventoryRecord
	if err := s.db.Preload("Product").Where("warehouse_id = ?", warehouseID).Order("id").Find(&records).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve inventory")
	}
	return records, nil
}

// GetLowStockProducts lists records whose quantity is below the reorder level
func (s *Service) GetLowStockProducts() ([]InventoryRecord, error) {
	var records []InventoryRecord
	if err := s.db.Preload("Product").Where("quantity < reorder_level").Order("id").Find(&records).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve low stock products")
	}
	return records, nil
}

// GetStockMovements lists the audit trail for a (product, warehouse) pair
func (s *Service) GetStockMovements(productID, warehouseID uint) ([]StockMovement, error) {
	record, err := s.GetInventoryRecord(productID, warehouseID)
	if err != nil {
		return nil, err
	}

	var movements []StockMovement
	if err := s.db.Where("inventory_record_id = ?", record.ID).Order("id").Find(&movements).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve stock movements")
	}
	return movements, nil
}

// GetInventoryReport builds a stock and valuation report, optionally filtered
// by warehouse or restricted to low-stock lines
func (s *Service) GetInventoryReport(req *InventoryReportRequest) (*InventoryReport, error) {
	query := s.db.Preload("Product").Model(&InventoryRecord{})
	if req.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *req.WarehouseID)
	}
	if req.LowStockOnly {
		query = query.Where("quantity < reorder_level")
	}

	var records []InventoryRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to build inventory report")
	}

	report := &InventoryReport{
		WarehouseID:    req.WarehouseID,
		InventoryValue: decimal.Zero,
		Items:          []InventoryReportItem{},
	}

	for _, record := range records {
		totalValue := record.Product.CostPrice.Mul(decimal.NewFromInt(int64(record.Quantity)))
		item := InventoryReportItem{
			ProductID:    record.ProductID,
			ProductName:  record.Product.Name,
			SKU:          record.Product.SKU,
			WarehouseID:  record.WarehouseID,
			Quantity:     record.Quantity,
			ReorderLevel: record.ReorderLevel,
			CostPrice:    record.Product.CostPrice,
			TotalValue:   totalValue,
			IsLowStock:   record.IsLowStock(),
			IsOutOfStock: record.IsOutOfStock(),
		}

		report.Items = append(report.Items, item)
		report.TotalProducts++
		report.InventoryValue = report.InventoryValue.Add(totalValue)
		if item.IsLowStock {
			report.LowStockCount++
		}
		if item.IsOutOfStock {
			report.OutOfStockCount++
		}
	}

	return report, nil
}
