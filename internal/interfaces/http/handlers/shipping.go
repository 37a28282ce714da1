// internal/interfaces/http/handlers/shipping.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/shipping"
	"github.com/your-org/retail-backend/internal/pkg/receipt"
	"gorm.io/gorm"
)

// ShippingHandler handles shipping endpoints
type ShippingHandler struct {
	shippingService *shipping.Service
	receiptService  *receipt.Service
	config          *config.Config
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(db *gorm.DB, cfg *config.Config) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shipping.NewService(db, cfg),
		receiptService:  receipt.NewService(cfg),
		config:          cfg,
	}
}

// CreateShipping handles POST /shippings
func (h *ShippingHandler) CreateShipping(c *gin.Context) {
	var req shipping.CreateShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.shippingService.CreateShipping(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Shipping record created successfully",
		"data":    created,
	})
}

// GetShippings handles GET /shippings
func (h *ShippingHandler) GetShippings(c *gin.Context) {
	shippings, err := h.shippingService.GetShippings()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping records retrieved successfully",
		"data":    shippings,
	})
}

// GetShipping handles GET /shippings/:id
func (h *ShippingHandler) GetShipping(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.shippingService.GetShippingByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping record retrieved successfully",
		"data":    record,
	})
}

// GetShippingByTransaction handles GET /sales/:id/shipping
func (h *ShippingHandler) GetShippingByTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.shippingService.GetShippingByTransaction(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping record retrieved successfully",
		"data":    record,
	})
}

// UpdateShippingStatus handles PUT /shippings/:id/status
func (h *ShippingHandler) UpdateShippingStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req shipping.UpdateShippingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Status is required",
		})
		return
	}

	record, err := h.shippingService.UpdateShippingStatus(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping status updated successfully",
		"data":    record,
	})
}

// GenerateTrackingNumber handles POST /shippings/:id/tracking
func (h *ShippingHandler) GenerateTrackingNumber(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.shippingService.GenerateTrackingNumber(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tracking number generated successfully",
		"data":    record,
	})
}

// PrintShippingLabel handles GET /shippings/:id/label
func (h *ShippingHandler) PrintShippingLabel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	label, err := h.shippingService.PrintShippingLabel(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping label generated successfully",
		"data":    label,
	})
}

// DownloadShippingLabelPDF handles GET /shippings/:id/label/pdf
func (h *ShippingHandler) DownloadShippingLabelPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	label, err := h.shippingService.PrintShippingLabel(id)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.receiptService.GenerateLabelPDF(label)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate label PDF",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=shipping-label.pdf")
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

// AssignPackingResponsibility handles POST /shippings/:id/assign
func (h *ShippingHandler) AssignPackingResponsibility(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id is required",
		})
		return
	}

	if err := h.shippingService.AssignPackingResponsibility(id, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Packing responsibility assigned successfully",
		"data":    gin.H{"success": true},
	})
}

// UpdatePackingStatus handles PUT /shippings/:id/packing
func (h *ShippingHandler) UpdatePackingStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Packed *bool `json:"packed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "packed flag is required",
		})
		return
	}

	if err := h.shippingService.UpdatePackingStatus(id, *req.Packed); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Packing status updated successfully",
		"data":    gin.H{"success": true},
	})
}
