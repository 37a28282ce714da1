// internal/domain/upload/entity.go
package upload

import (
	"time"
)

// StagedFile is a data file staged for a later import run
type StagedFile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OriginalName string    `json:"original_name" gorm:"not null"`
	Filename     string    `json:"filename" gorm:"uniqueIndex;not null"`
	FileURL      string    `json:"file_url" gorm:"not null"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedBy   uint      `json:"uploaded_by" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for StagedFile
func (StagedFile) TableName() string {
	return "staged_files"
}
