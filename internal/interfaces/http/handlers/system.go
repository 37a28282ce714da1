// internal/interfaces/http/handlers/system.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/system"
	"github.com/your-org/retail-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SystemHandler handles backup, export, health and permission endpoints
type SystemHandler struct {
	systemService *system.Service
	config        *config.Config
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *gorm.DB, cfg *config.Config) *SystemHandler {
	return &SystemHandler{
		systemService: system.NewService(db, cfg),
		config:        cfg,
	}
}

// CreateBackup handles POST /system/backup
func (h *SystemHandler) CreateBackup(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	result, err := h.systemService.CreateBackup(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Backup created successfully",
		"data":    result,
	})
}

// RestoreBackup handles POST /system/restore
func (h *SystemHandler) RestoreBackup(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req struct {
		BackupID string `json:"backup_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "backup_id is required",
		})
		return
	}

	if err := h.systemService.RestoreBackup(req.BackupID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Backup restored successfully",
		"data":    gin.H{"success": true},
	})
}

// ExportData handles POST /system/export
func (h *SystemHandler) ExportData(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req struct {
		DataType string              `json:"data_type" binding:"required"`
		Format   system.ExportFormat `json:"format" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.systemService.ExportData(req.DataType, req.Format, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data exported successfully",
		"data":    result,
	})
}

// ImportData handles POST /system/import
func (h *SystemHandler) ImportData(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req struct {
		DataType string `json:"data_type" binding:"required"`
		FileURL  string `json:"file_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.systemService.ImportData(req.DataType, req.FileURL, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data imported successfully",
		"data":    result,
	})
}

// GetSystemHealth handles GET /system/health
func (h *SystemHandler) GetSystemHealth(c *gin.Context) {
	report, err := h.systemService.GetSystemHealth()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "System health retrieved successfully",
		"data":    report,
	})
}

// GetActivityLogs handles GET /system/activity-logs
func (h *SystemHandler) GetActivityLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit parameter",
			})
			return
		}
		limit = parsed
	}

	logs, err := h.systemService.GetActivityLogs(limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Activity logs retrieved successfully",
		"data":    logs,
	})
}

// GetModulePermissions handles GET /system/permissions/:role
func (h *SystemHandler) GetModulePermissions(c *gin.Context) {
	role := c.Param("role")

	permissions, err := h.systemService.GetModulePermissions(role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Module permissions retrieved successfully",
		"data":    permissions,
	})
}

// ConfigureModulePermissions handles PUT /system/permissions/:role
func (h *SystemHandler) ConfigureModulePermissions(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	role := c.Param("role")

	var updates map[string]bool
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.systemService.ConfigureModulePermissions(role, updates, userID); err != nil {
		respondError(c, err)
		return
	}

	permissions, err := h.systemService.GetModulePermissions(role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Module permissions updated successfully",
		"data":    permissions,
	})
}
