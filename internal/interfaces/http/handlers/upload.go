// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/upload"
	"github.com/your-org/retail-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// UploadHandler handles import file staging endpoints
type UploadHandler struct {
	uploadService *upload.Service
	config        *config.Config
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *gorm.DB, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		uploadService: upload.NewService(db, cfg),
		config:        cfg,
	}
}

// StageFile handles POST /system/uploads
func (h *UploadHandler) StageFile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "A file field is required",
		})
		return
	}
	defer file.Close()

	staged, err := h.uploadService.StageFile(file, header, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File staged successfully",
		"data":    staged,
	})
}

// GetStagedFiles handles GET /system/uploads
func (h *UploadHandler) GetStagedFiles(c *gin.Context) {
	files, err := h.uploadService.GetStagedFiles()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staged files retrieved successfully",
		"data":    files,
	})
}

// DeleteStagedFile handles DELETE /system/uploads/:id
func (h *UploadHandler) DeleteStagedFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.uploadService.DeleteStagedFile(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staged file deleted successfully",
		"data":    gin.H{"success": true},
	})
}
