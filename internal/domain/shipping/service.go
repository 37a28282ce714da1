// internal/domain/shipping/service.go
package shipping

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/sales"
	"github.com/your-org/retail-backend/internal/domain/user"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles shipping business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new shipping service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateShippingRequest represents shipping creation data
type CreateShippingRequest struct {
	TransactionID     uint            `json:"transaction_id" binding:"required"`
	ShippingAddress   string          `json:"shipping_address" binding:"required"`
	TrackingNumber    *string         `json:"tracking_number"`
	Carrier           *string         `json:"carrier"`
	ShippingCost      decimal.Decimal `json:"shipping_cost" binding:"required"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
}

// UpdateShippingStatusRequest represents a status change
type UpdateShippingStatusRequest struct {
	Status         ShippingStatus `json:"status" binding:"required"`
	TrackingNumber *string        `json:"tracking_number"`
}

// CreateShipping creates a shipping record for an existing transaction
func (s *Service) CreateShipping(req *CreateShippingRequest) (*Shipping, error) {
	var transaction sales.SalesTransaction
	if err := s.db.Where("id = ?", req.TransactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("transaction with id %d not found", req.TransactionID)
		}
		return nil, apperrors.Internal(err, "failed to check transaction")
	}

	shipping := &Shipping{
		TransactionID:     req.TransactionID,
		ShippingAddress:   req.ShippingAddress,
		TrackingNumber:    req.TrackingNumber,
		Carrier:           req.Carrier,
		ShippingCost:      req.ShippingCost,
		EstimatedDelivery: req.EstimatedDelivery,
		Status:            StatusPending,
	}

	if err := s.db.Create(shipping).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create shipping record")
	}

	return shipping, nil
}

// GetShippingByTransaction retrieves the shipping record for a transaction
func (s *Service) GetShippingByTransaction(transactionID uint) (*Shipping, error) {
	var shipping Shipping
	if err := s.db.Where("transaction_id = ?", transactionID).First(&shipping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("shipping record for transaction %d not found", transactionID)
		}
		return nil, apperrors.Internal(err, "failed to retrieve shipping record")
	}
	return &shipping, nil
}

// GetShippings retrieves all shipping records
func (s *Service) GetShippings() ([]Shipping, error) {
	var shippings []Shipping
	if err := s.db.Order("id").Find(&shippings).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve shipping records")
	}
	return shippings, nil
}

// GetShippingByID retrieves a shipping record by id
func (s *Service) GetShippingByID(id uint) (*Shipping, error) {
	var shipping Shipping
	if err := s.db.Where("id = ?", id).First(&shipping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("shipping record with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to retrieve shipping record")
	}
	return &shipping, nil
}

// UpdateShippingStatus changes the delivery status and optionally the tracking
// number. Moving to DELIVERED stamps the actual delivery time.
func (s *Service) UpdateShippingStatus(id uint, req *UpdateShippingStatusRequest) (*Shipping, error) {
	if !req.Status.IsValid() {
		return nil, apperrors.Validation("invalid shipping status: %s", req.Status)
	}

	shipping, err := s.GetShippingByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.TrackingNumber != nil {
		updates["tracking_number"] = *req.TrackingNumber
	}
	if req.Status == StatusDelivered {
		updates["actual_delivery"] = time.Now()
	}

	if err := s.db.Model(shipping).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update shipping status")
	}

	return s.GetShippingByID(shipping.ID)
}

// GenerateTrackingNumber assigns a fresh tracking number to a shipment that
// does not have one yet
func (s *Service) GenerateTrackingNumber(id uint) (*Shipping, error) {
	shipping, err := s.GetShippingByID(id)
	if err != nil {
		return nil, err
	}

	if shipping.TrackingNumber != nil && *shipping.TrackingNumber != "" {
		return shipping, nil
	}

	tracking := "TRK-" + uuid.NewString()
	if err := s.db.Model(shipping).Update("tracking_number", tracking).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to assign tracking number")
	}

	shipping.TrackingNumber = &tracking
	return shipping, nil
}

// PrintShippingLabel builds the label payload for a shipment
func (s *Service) PrintShippingLabel(id uint) (*ShippingLabel, error) {
	shipping, err := s.GetShippingByID(id)
	if err != nil {
		return nil, err
	}

	return &ShippingLabel{
		ShippingID:     shipping.ID,
		TransactionID:  shipping.TransactionID,
		Address:        shipping.ShippingAddress,
		TrackingNumber: shipping.TrackingNumber,
		Carrier:        shipping.Carrier,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// AssignPackingResponsibility hands a shipment to a warehouse user and moves
// it to PROCESSING
func (s *Service) AssignPackingResponsibility(id, userID uint) error {
	shipping, err := s.GetShippingByID(id)
	if err != nil {
		return err
	}

	var assignee user.User
	if err := s.db.Where("id = ?", userID).First(&assignee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user with id %d not found", userID)
		}
		return apperrors.Internal(err, "failed to check user")
	}

	updates := map[string]interface{}{
		"status":             StatusProcessing,
		"assigned_packer_id": assignee.ID,
	}
	if err := s.db.Model(shipping).Updates(updates).Error; err != nil {
		return apperrors.Internal(err, "failed to assign packing responsibility")
	}
	return nil
}

// UpdatePackingStatus toggles a shipment between PACKED and PROCESSING
func (s *Service) UpdatePackingStatus(id uint, packed bool) error {
	shipping, err := s.GetShippingByID(id)
	if err != nil {
		return err
	}

	status := StatusProcessing
	if packed {
		status = StatusPacked
	}

	if err := s.db.Model(shipping).Update("status", status).Error; err != nil {
		return apperrors.Internal(err, "failed to update packing status")
	}
	return nil
}
