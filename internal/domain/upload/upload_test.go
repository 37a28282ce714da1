package upload

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&StagedFile{}))

	cfg := &config.Config{
		Storage: config.StorageConfig{
			UploadDir: filepath.Join(t.TempDir(), "uploads"),
		},
	}
	return NewService(db, cfg)
}

// multipartFile builds a parsed multipart file part the way gin's
// FormFile would hand it to the handler.
func multipartFile(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	header := form.File["file"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	return file, header
}

func TestStageFile(t *testing.T) {
	svc := newTestService(t)

	file, header := multipartFile(t, "products.csv", "sku,name\nSKU-001,Widget\n")
	staged, err := svc.StageFile(file, header, 7)
	require.NoError(t, err)

	assert.Equal(t, "products.csv", staged.OriginalName)
	assert.True(t, strings.HasSuffix(staged.Filename, ".csv"))
	assert.Equal(t, "/uploads/"+staged.Filename, staged.FileURL)
	assert.Equal(t, "text/csv", staged.MimeType)
	assert.Equal(t, int64(len("sku,name\nSKU-001,Widget\n")), staged.SizeBytes)
	assert.Equal(t, uint(7), staged.UploadedBy)

	content, err := os.ReadFile(filepath.Join(svc.config.Storage.UploadDir, staged.Filename))
	require.NoError(t, err)
	assert.Equal(t, "sku,name\nSKU-001,Widget\n", string(content))
}

func TestStageFileJSONMimeType(t *testing.T) {
	svc := newTestService(t)

	file, header := multipartFile(t, "customers.JSON", `[{"name":"A"}]`)
	staged, err := svc.StageFile(file, header, 1)
	require.NoError(t, err)
	assert.Equal(t, "application/json", staged.MimeType)
	assert.True(t, strings.HasSuffix(staged.Filename, ".json"))
}

func TestStageFileRejectsUnsupportedType(t *testing.T) {
	svc := newTestService(t)

	file, header := multipartFile(t, "report.xlsx", "binary")
	_, err := svc.StageFile(file, header, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "unsupported file type: .xlsx", err.Error())
}

func TestStageFileRejectsOversizedFile(t *testing.T) {
	svc := newTestService(t)

	file, header := multipartFile(t, "big.csv", "a,b\n")
	header.Size = maxStagedFileSize + 1

	_, err := svc.StageFile(file, header, 1)
	require.Error(t, err)
	assert.Equal(t, "file exceeds the 10MB upload limit", err.Error())
}

func TestGetStagedFilesNewestFirst(t *testing.T) {
	svc := newTestService(t)

	first, header := multipartFile(t, "one.csv", "a\n")
	_, err := svc.StageFile(first, header, 1)
	require.NoError(t, err)

	second, header := multipartFile(t, "two.csv", "b\n")
	_, err = svc.StageFile(second, header, 1)
	require.NoError(t, err)

	files, err := svc.GetStagedFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "two.csv", files[0].OriginalName)
	assert.Equal(t, "one.csv", files[1].OriginalName)
}

func TestDeleteStagedFile(t *testing.T) {
	svc := newTestService(t)

	file, header := multipartFile(t, "data.csv", "a\n")
	staged, err := svc.StageFile(file, header, 1)
	require.NoError(t, err)

	path := filepath.Join(svc.config.Storage.UploadDir, staged.Filename)
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStagedFile(staged.ID))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	files, err := svc.GetStagedFiles()
	require.NoError(t, err)
	assert.Empty(t, files)

	err = svc.DeleteStagedFile(staged.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
