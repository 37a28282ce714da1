// internal/domain/purchase/service.go
package purchase

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/inventory"
	"github.com/your-org/retail-backend/internal/domain/product"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles purchase order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new purchase service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreatePurchaseOrderItemRequest represents a line item in a new order
type CreatePurchaseOrderItemRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
	TotalCost decimal.Decimal `json:"total_cost" binding:"required"`
}

// CreatePurchaseOrderRequest represents purchase order creation data
type CreatePurchaseOrderRequest struct {
	SupplierName  string                           `json:"supplier_name" binding:"required"`
	SupplierEmail *string                          `json:"supplier_email"`
	SupplierPhone *string                          `json:"supplier_phone"`
	WarehouseID   uint                             `json:"warehouse_id" binding:"required"`
	Subtotal      decimal.Decimal                  `json:"subtotal" binding:"required"`
	TaxAmount     decimal.Decimal                  `json:"tax_amount"`
	TotalAmount   decimal.Decimal                  `json:"total_amount" binding:"required"`
	Notes         *string                          `json:"notes"`
	Items         []CreatePurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreatePurchaseOrder validates the referenced warehouse and products, then
// inserts the order and its line items in one transaction
func (s *Service) CreatePurchaseOrder(req *CreatePurchaseOrderRequest, createdBy uint) (*PurchaseOrder, error) {
	var warehouse inventory.Warehouse
	if err := s.db.Where("id = ?", req.WarehouseID).First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("warehouse with id %d not found", req.WarehouseID)
		}
		return nil, apperrors.Internal(err, "failed to check warehouse")
	}

	for _, item := range req.Items {
		var prod product.Product
		if err := s.db.Where("id = ?", item.ProductID).First(&prod).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("product with id %d not found", item.ProductID)
			}
			return nil, apperrors.Internal(err, "failed to check product")
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	order := &PurchaseOrder{
		SupplierName:  req.SupplierName,
		SupplierEmail: req.SupplierEmail,
		SupplierPhone: req.SupplierPhone,
		WarehouseID:   req.WarehouseID,
		Status:        OrderStatusPending,
		Subtotal:      req.Subtotal,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.TotalAmount,
		Notes:         req.Notes,
		CreatedBy:     createdBy,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Internal(err, "failed to create purchase order")
	}

	for _, item := range req.Items {
		orderItem := &PurchaseOrderItem{
			PurchaseOrderID: order.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitCost:        item.UnitCost,
			TotalCost:       item.TotalCost,
		}
		if err := tx.Create(orderItem).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Internal(err, "failed to create purchase order item")
		}
		order.Items = append(order.Items, *orderItem)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Internal(err, "failed to commit purchase order")
	}

	return order, nil
}

// GetPurchaseOrders retrieves all purchase orders with their items
func (s *Service) GetPurchaseOrders() ([]PurchaseOrder, error) {
	var orders []PurchaseOrder
	if err := s.db.Preload("Items").Order("id").Find(&orders).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve purchase orders")
	}
	return orders, nil
}

// GetPurchaseOrderByID retrieves a purchase order with its items
func (s *Service) GetPurchaseOrderByID(id uint) (*PurchaseOrder, error) {
	var order PurchaseOrder
	if err := s.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("purchase order with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to retrieve purchase order")
	}
	return &order, nil
}

// UpdatePurchaseOrderStatus overwrites the order status after an existence check
func (s *Service) UpdatePurchaseOrderStatus(id uint, status OrderStatus) (*PurchaseOrder, error) {
	if !status.IsValid() {
		return nil, apperrors.Validation("invalid order status: %s", status)
	}

	order, err := s.GetPurchaseOrderByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(order).Update("status", status).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update purchase order status")
	}

	return s.GetPurchaseOrderByID(order.ID)
}

// ReceivePurchaseOrder marks the order DELIVERED and credits each line item's
// quantity into the destination warehouse. The inventory increments, movement
// records, and status flip commit atomically; re-receiving is rejected.
func (s *Service) ReceivePurchaseOrder(id uint) (*PurchaseOrder, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order PurchaseOrder
	if err := tx.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("purchase order with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to retrieve purchase order")
	}

	if order.Status == OrderStatusDelivered {
		tx.Rollback()
		return nil, apperrors.InvalidTransition("purchase order is already delivered")
	}

	for _, item := range order.Items {
		if err := s.creditStock(tx, &order, &item); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Model(&order).Update("status", OrderStatusDelivered).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Internal(err, "failed to update purchase order status")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Internal(err, "failed to commit purchase order receipt")
	}

	return s.GetPurchaseOrderByID(order.ID)
}

// creditStock applies one line item's quantity to the warehouse inventory,
// creating the record lazily when the pair has no stock history yet
func (s *Service) creditStock(tx *gorm.DB, order *PurchaseOrder, item *PurchaseOrderItem) error {
	result := tx.Model(&inventory.InventoryRecord{}).
		Where("product_id = ? AND warehouse_id = ?", item.ProductID, order.WarehouseID).
		Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
	if result.Error != nil {
		return apperrors.Internal(result.Error, "failed to credit inventory")
	}

	if result.RowsAffected == 0 {
		record := &inventory.InventoryRecord{
			ProductID:    item.ProductID,
			WarehouseID:  order.WarehouseID,
			Quantity:     item.Quantity,
			ReorderLevel: s.config.POS.DefaultReorderLevel,
		}
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Internal(err, "failed to create inventory record")
		}

		movement := &inventory.StockMovement{
			InventoryRecordID: record.ID,
			MovementType:      inventory.MovementTypeInbound,
			Reason:            inventory.ReasonPurchase,
			Quantity:          item.Quantity,
			PreviousQuantity:  0,
			NewQuantity:       item.Quantity,
			ReferenceType:     "purchase_order",
			ReferenceID:       order.ID,
			CreatedBy:         order.CreatedBy,
		}
		if err := tx.Create(movement).Error; err != nil {
			return apperrors.Internal(err, "failed to record stock movement")
		}
		return nil
	}

	var record inventory.InventoryRecord
	if err := tx.Where("product_id = ? AND warehouse_id = ?", item.ProductID, order.WarehouseID).First(&record).Error; err != nil {
		return apperrors.Internal(err, "failed to reload inventory record")
	}

	movement := &inventory.StockMovement{
		InventoryRecordID: record.ID,
		MovementType:      inventory.MovementTypeInbound,
		Reason:            inventory.ReasonPurchase,
		Quantity:          item.Quantity,
		PreviousQuantity:  record.Quantity - item.Quantity,
		NewQuantity:       record.Quantity,
		ReferenceType:     "purchase_order",
		ReferenceID:       order.ID,
		CreatedBy:         order.CreatedBy,
	}
	if err := tx.Create(movement).Error; err != nil {
		return apperrors.Internal(err, "failed to record stock movement")
	}
	return nil
}

// ProcessPurchaseReturn reverses a delivered order: each line item's quantity
// is debited from inventory (floored at zero), the order is cancelled, and the
// return reason is appended to the notes
func (s *Service) ProcessPurchaseReturn(id uint, reason string) (*PurchaseOrder, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order PurchaseOrder
	if err := tx.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("purchase order with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to retrieve purchase order")
	}

	if order.Status != OrderStatusDelivered {
		tx.Rollback()
		return nil, apperrors.InvalidTransition("can only process returns for delivered purchase orders")
	}

	for _, item := range order.Items {
		if err := s.debitStock(tx, &order, &item); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	notes := fmt.Sprintf("RETURN: %s", reason)
	if order.Notes != nil && *order.Notes != "" {
		notes = fmt.Sprintf("%s; %s", *order.Notes, notes)
	}

	updates := map[string]interface{}{
		"status": OrderStatusCancelled,
		"notes":  notes,
	}
	if err := tx.Model(&order).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Internal(err, "failed to cancel purchase order")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Internal(err, "failed to commit purchase return")
	}

	return s.GetPurchaseOrderByID(order.ID)
}

// debitStock removes one line item's quantity from inventory, flooring the
// on-hand count at zero rather than rejecting over-returns
func (s *Service) debitStock(tx *gorm.DB, order *PurchaseOrder, item *PurchaseOrderItem) error {
	var record inventory.InventoryRecord
	err := tx.Where("product_id = ? AND warehouse_id = ?", item.ProductID, order.WarehouseID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing to reverse for this pair
		return nil
	}
	if err != nil {
		return apperrors.Internal(err, "failed to load inventory record")
	}

	result := tx.Model(&inventory.InventoryRecord{}).
		Where("id = ?", record.ID).
		Update("quantity", gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", item.Quantity, item.Quantity))
	if result.Error != nil {
		return apperrors.Internal(result.Error, "failed to debit inventory")
	}

	newQuantity := record.Quantity - item.Quantity
	if newQuantity < 0 {
		newQuantity = 0
	}

	movement := &inventory.StockMovement{
		InventoryRecordID: record.ID,
		MovementType:      inventory.MovementTypeOutbound,
		Reason:            inventory.ReasonPurchaseReturn,
		Quantity:          record.Quantity - newQuantity,
		PreviousQuantity:  record.Quantity,
		NewQuantity:       newQuantity,
		ReferenceType:     "purchase_order",
		ReferenceID:       order.ID,
		CreatedBy:         order.CreatedBy,
	}
	if err := tx.Create(movement).Error; err != nil {
		return apperrors.Internal(err, "failed to record stock movement")
	}
	return nil
}
