// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	SKU            string          `json:"sku" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Description    *string         `json:"description"`
	RetailPrice    decimal.Decimal `json:"retail_price" binding:"required"`
	WholesalePrice decimal.Decimal `json:"wholesale_price" binding:"required"`
	CostPrice      decimal.Decimal `json:"cost_price" binding:"required"`
	Barcode        *string         `json:"barcode"`
}

// UpdateProductRequest represents partial product update data
type UpdateProductRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	CostPrice      *decimal.Decimal `json:"cost_price"`
	Barcode        *string          `json:"barcode"`
	IsActive       *bool            `json:"is_active"`
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	var existing Product
	if err := s.db.Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("product with sku '%s' already exists", req.SKU)
	}

	product := &Product{
		SKU:            req.SKU,
		Name:           req.Name,
		Description:    req.Description,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
		CostPrice:      req.CostPrice,
		Barcode:        req.Barcode,
		IsActive:       true,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create product")
	}

	return product, nil
}

// GetProducts retrieves all active products
func (s *Service) GetProducts() ([]Product, error) {
	var products []Product
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&products).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve products")
	}
	return products, nil
}

// GetProductByID retrieves an active product by id
func (s *Service) GetProductByID(id uint) (*Product, error) {
	var product Product
	if err := s.db.Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to retrieve product")
	}
	return &product, nil
}

// SearchProducts searches active products by SKU, name, or barcode
func (s *Service) SearchProducts(query string) ([]Product, error) {
	var products []Product
	pattern := "%" + strings.ToLower(query) + "%"
	err := s.db.Where("is_active = ?", true).
		Where("LOWER(sku) LIKE ? OR LOWER(name) LIKE ? OR barcode = ?", pattern, pattern, query).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Internal(err, "failed to search products")
	}
	return products, nil
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(id uint, req *UpdateProductRequest) (*Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.RetailPrice != nil {
		updates["retail_price"] = *req.RetailPrice
	}
	if req.WholesalePrice != nil {
		updates["wholesale_price"] = *req.WholesalePrice
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.Barcode != nil {
		updates["barcode"] = *req.Barcode
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update product")
	}

	return s.getProductAnyStatus(id)
}

// GenerateBarcode assigns a barcode derived from the product id.
// Products that already carry a barcode are returned unchanged.
func (s *Service) GenerateBarcode(id uint) (*Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if product.Barcode != nil && *product.Barcode != "" {
		return product, nil
	}

	barcode := fmt.Sprintf("BAR%08d", product.ID)
	if err := s.db.Model(product).Update("barcode", barcode).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to assign barcode")
	}

	product.Barcode = &barcode
	return product, nil
}

func (s *Service) getProductAnyStatus(id uint) (*Product, error) {
	var product Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to retrieve product")
	}
	return &product, nil
}
