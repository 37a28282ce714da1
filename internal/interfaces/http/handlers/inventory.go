// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/inventory"
	"github.com/your-org/retail-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// InventoryHandler handles warehouse and inventory endpoints
type InventoryHandler struct {
	inventoryService *inventory.Service
	reportCache      *reportCache
	config           *config.Config
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(db *gorm.DB, cache *redis.Client, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventory.NewService(db, cfg),
		reportCache:      newReportCache(cache, cfg),
		config:           cfg,
	}
}

// CreateWarehouse handles POST /warehouses
func (h *InventoryHandler) CreateWarehouse(c *gin.Context) {
	var req inventory.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	warehouse, err := h.inventoryService.CreateWarehouse(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Warehouse created successfully",
		"data":    warehouse,
	})
}

// GetWarehouses handles GET /warehouses
func (h *InventoryHandler) GetWarehouses(c *gin.Context) {
	warehouses, err := h.inventoryService.GetWarehouses()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouses retrieved successfully",
		"data":    warehouses,
	})
}

// GetWarehouse handles GET /warehouses/:id
func (h *InventoryHandler) GetWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	warehouse, err := h.inventoryService.GetWarehouseByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse retrieved successfully",
		"data":    warehouse,
	})
}

// GetWarehouseInventory handles GET /warehouses/:id/inventory
func (h *InventoryHandler) GetWarehouseInventory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	records, err := h.inventoryService.GetInventoryByWarehouse(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory retrieved successfully",
		"data":    records,
	})
}

// UpdateInventory handles PUT /inventory
func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req inventory.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.inventoryService.UpdateInventory(&req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Stock changed, cached report snapshots are stale now
	h.reportCache.bumpVersion(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory updated successfully",
		"data":    record,
	})
}

// GetLowStockProducts handles GET /inventory/low-stock
func (h *InventoryHandler) GetLowStockProducts(c *gin.Context) {
	records, err := h.inventoryService.GetLowStockProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Low stock products retrieved successfully",
		"data":    records,
	})
}

// GetStockMovements handles GET /inventory/movements
func (h *InventoryHandler) GetStockMovements(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "product_id query parameter is required",
		})
		return
	}
	warehouseID, err := strconv.ParseUint(c.Query("warehouse_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "warehouse_id query parameter is required",
		})
		return
	}

	movements, err := h.inventoryService.GetStockMovements(uint(productID), uint(warehouseID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}

// GetInventoryReport handles GET /reports/inventory. Snapshots are cached
// in redis for the configured TTL; stock writes invalidate them by
// version bump.
func (h *InventoryHandler) GetInventoryReport(c *gin.Context) {
	var req inventory.InventoryReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	cacheKey := h.reportCache.key(c)
	if cached, ok := h.reportCache.get(c, cacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	report, err := h.inventoryService.GetInventoryReport(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"message": "Inventory report generated successfully",
		"data":    report,
	}

	if payload, err := json.Marshal(body); err == nil {
		h.reportCache.set(c, cacheKey, payload)
	}

	c.JSON(http.StatusOK, body)
}
