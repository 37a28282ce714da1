// internal/domain/upload/service.go
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// maxStagedFileSize caps staged import files at 10MB
const maxStagedFileSize = 10 << 20

// Service stages data files for import runs
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// StageFile saves an uploaded CSV or JSON file into the upload directory
// and records it so an import run can pick it up by URL.
func (s *Service) StageFile(file multipart.File, header *multipart.FileHeader, uploadedBy uint) (*StagedFile, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".json" {
		return nil, apperrors.Validation("unsupported file type: %s", ext)
	}
	if header.Size > maxStagedFileSize {
		return nil, apperrors.Validation("file exceeds the %dMB upload limit", maxStagedFileSize>>20)
	}

	if err := os.MkdirAll(s.config.Storage.UploadDir, 0o755); err != nil {
		return nil, apperrors.Internal(err, "failed to prepare upload directory")
	}

	filename := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	fullPath := filepath.Join(s.config.Storage.UploadDir, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to create staged file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return nil, apperrors.Internal(err, "failed to save staged file")
	}

	mimeType := "text/csv"
	if ext == ".json" {
		mimeType = "application/json"
	}

	staged := StagedFile{
		OriginalName: header.Filename,
		Filename:     filename,
		FileURL:      "/uploads/" + filename,
		MimeType:     mimeType,
		SizeBytes:    header.Size,
		UploadedBy:   uploadedBy,
	}
	if err := s.db.Create(&staged).Error; err != nil {
		os.Remove(fullPath)
		return nil, apperrors.Internal(err, "failed to record staged file")
	}

	return &staged, nil
}

// GetStagedFiles lists staged files, newest first
func (s *Service) GetStagedFiles() ([]StagedFile, error) {
	var files []StagedFile
	if err := s.db.Order("created_at DESC, id DESC").Find(&files).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to list staged files")
	}
	return files, nil
}

// DeleteStagedFile removes a staged file and its record
func (s *Service) DeleteStagedFile(id uint) error {
	var staged StagedFile
	if err := s.db.First(&staged, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("staged file with id %d not found", id)
		}
		return apperrors.Internal(err, "failed to load staged file")
	}

	fullPath := filepath.Join(s.config.Storage.UploadDir, staged.Filename)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return apperrors.Internal(err, "failed to delete staged file")
	}

	if err := s.db.Delete(&staged).Error; err != nil {
		return apperrors.Internal(err, "failed to delete staged file record")
	}
	return nil
}
