// internal/interfaces/http/handlers/purchase.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/purchase"
	"github.com/your-org/retail-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// PurchaseHandler handles purchase order endpoints
type PurchaseHandler struct {
	purchaseService *purchase.Service
	reportCache     *reportCache
	config          *config.Config
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(db *gorm.DB, cache *redis.Client, cfg *config.Config) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchase.NewService(db, cfg),
		reportCache:     newReportCache(cache, cfg),
		config:          cfg,
	}
}

// CreatePurchaseOrder handles POST /purchase-orders
func (h *PurchaseHandler) CreatePurchaseOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req purchase.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.purchaseService.CreatePurchaseOrder(&req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Purchase order created successfully",
		"data":    order,
	})
}

// GetPurchaseOrders handles GET /purchase-orders
func (h *PurchaseHandler) GetPurchaseOrders(c *gin.Context) {
	orders, err := h.purchaseService.GetPurchaseOrders()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase orders retrieved successfully",
		"data":    orders,
	})
}

// GetPurchaseOrder handles GET /purchase-orders/:id
func (h *PurchaseHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.purchaseService.GetPurchaseOrderByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order retrieved successfully",
		"data":    order,
	})
}

// UpdatePurchaseOrderStatus handles PUT /purchase-orders/:id/status
func (h *PurchaseHandler) UpdatePurchaseOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status purchase.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Status is required",
		})
		return
	}

	order, err := h.purchaseService.UpdatePurchaseOrderStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order status updated successfully",
		"data":    order,
	})
}

// ReceivePurchaseOrder handles POST /purchase-orders/:id/receive
func (h *PurchaseHandler) ReceivePurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.purchaseService.ReceivePurchaseOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Receiving credits stock, cached report snapshots are stale now
	h.reportCache.bumpVersion(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order received successfully",
		"data":    order,
	})
}

// ProcessPurchaseReturn handles POST /purchase-orders/:id/return
func (h *PurchaseHandler) ProcessPurchaseReturn(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Return reason is required",
		})
		return
	}

	order, err := h.purchaseService.ProcessPurchaseReturn(id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	// Returns debit stock, cached report snapshots are stale now
	h.reportCache.bumpVersion(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase return processed successfully",
		"data":    order,
	})
}
