package system

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/product"
	"github.com/your-org/retail-backend/internal/domain/sales"
	"github.com/your-org/retail-backend/internal/domain/user"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&product.Product{},
		&sales.Customer{},
		&sales.SalesTransaction{},
		&SystemBackup{},
		&ActivityLog{},
		&ModulePermission{},
	))

	base := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			BackupDir: filepath.Join(base, "backups"),
			ExportDir: filepath.Join(base, "exports"),
			UploadDir: filepath.Join(base, "uploads"),
		},
	}
	return NewService(db, cfg), db
}

func seedUser(t *testing.T, db *gorm.DB, username string, active bool) *user.User {
	t.Helper()
	u := &user.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         user.RoleCashier,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	if !active {
		require.NoError(t, db.Model(u).Update("is_active", false).Error)
	}
	return u
}

func TestCreateBackup(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "cashier1", true)

	result, err := svc.CreateBackup(1)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Regexp(t, `^backup_\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}-\d{3}Z$`, result.BackupID)

	var record SystemBackup
	require.NoError(t, db.Where("backup_id = ?", result.BackupID).First(&record).Error)
	assert.Greater(t, record.SizeBytes, int64(0))

	content, err := os.ReadFile(record.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- table: users")
	assert.Contains(t, string(content), "cashier1")
}

func TestRestoreBackup(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, svc.RestoreBackup("backup_2026-01-15T10-30-00-000Z", 1))

	err := svc.RestoreBackup("not-a-backup-id", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "invalid backup ID format: not-a-backup-id", err.Error())

	var count int64
	require.NoError(t, db.Model(&ActivityLog{}).Where("action = ?", "system.restore").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestExportDataCSV(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&product.Product{
		SKU:            "SKU-001",
		Name:           "Widget",
		RetailPrice:    decimal.NewFromFloat(19.9),
		WholesalePrice: decimal.NewFromFloat(15),
		CostPrice:      decimal.NewFromFloat(10),
		IsActive:       true,
	}).Error)

	result, err := svc.ExportData(DataTypeProducts, FormatCSV, 1)
	require.NoError(t, err)
	assert.Regexp(t, `^/exports/products_\d+\.csv$`, result.DownloadURL)

	path := filepath.Join(svc.config.Storage.ExportDir, filepath.Base(result.DownloadURL))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,sku,name,retail_price,wholesale_price,cost_price,barcode,is_active", lines[0])
	assert.Contains(t, lines[1], "SKU-001")
	assert.Contains(t, lines[1], "19.90")
}

func TestExportDataJSON(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "cashier1", true)

	result, err := svc.ExportData(DataTypeUsers, FormatJSON, 1)
	require.NoError(t, err)
	assert.Regexp(t, `^/exports/users_\d+\.json$`, result.DownloadURL)

	path := filepath.Join(svc.config.Storage.ExportDir, filepath.Base(result.DownloadURL))
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(content, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "cashier1", records[0]["username"])
	assert.Equal(t, "CASHIER", records[0]["role"])
}

func TestExportDataValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ExportData("invoices", FormatCSV, 1)
	require.Error(t, err)
	assert.Equal(t, "invalid data type: invoices", err.Error())

	_, err = svc.ExportData(DataTypeUsers, ExportFormat("XML"), 1)
	require.Error(t, err)
	assert.Equal(t, "invalid format: XML", err.Error())
}

func TestImportDataCSV(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, os.MkdirAll(svc.config.Storage.UploadDir, 0o755))
	staged := filepath.Join(svc.config.Storage.UploadDir, "products.csv")
	require.NoError(t, os.WriteFile(staged, []byte("sku,name\nSKU-001,Widget\nSKU-002,Gadget\n"), 0o644))

	result, err := svc.ImportData(DataTypeProducts, "/uploads/products.csv", 1)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RecordsProcessed)
}

func TestImportDataJSON(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, os.MkdirAll(svc.config.Storage.UploadDir, 0o755))
	staged := filepath.Join(svc.config.Storage.UploadDir, "customers.json")
	require.NoError(t, os.WriteFile(staged, []byte(`[{"name":"A"},{"name":"B"},{"name":"C"}]`), 0o644))

	result, err := svc.ImportData(DataTypeCustomers, "/uploads/customers.json", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.RecordsProcessed)
}

func TestImportDataValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ImportData("invoices", "/uploads/data.csv", 1)
	require.Error(t, err)
	assert.Equal(t, "invalid data type: invoices", err.Error())

	_, err = svc.ImportData(DataTypeUsers, "data.csv", 1)
	require.Error(t, err)
	assert.Equal(t, "invalid file URL format: data.csv", err.Error())

	_, err = svc.ImportData(DataTypeUsers, "/uploads/data.txt", 1)
	require.Error(t, err)
	assert.Equal(t, "invalid file URL format: /uploads/data.txt", err.Error())

	_, err = svc.ImportData(DataTypeUsers, "/uploads/missing.csv", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "upload file /uploads/missing.csv not found", err.Error())
}

func TestGetSystemHealth(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "active1", true)
	seedUser(t, db, "retired1", false)

	report, err := svc.GetSystemHealth()
	require.NoError(t, err)
	assert.Equal(t, "healthy", report.DatabaseStatus)
	assert.Equal(t, int64(2), report.TotalUsers)
	assert.Equal(t, int64(1), report.ActiveUsers)
	assert.NotEmpty(t, report.ServerUptime)
	assert.NotEmpty(t, report.MemoryUsage)
	assert.NotNil(t, report.RecentErrors)
}

func TestGetActivityLogs(t *testing.T) {
	svc, _ := newTestService(t)

	userID := uint(1)
	for i := 0; i < 5; i++ {
		svc.LogActivity(&userID, "test.action", "entry")
	}

	logs, err := svc.GetActivityLogs(3)
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	all, err := svc.GetActivityLogs(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = svc.GetActivityLogs(5000)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "limit must be between 1 and 1000", err.Error())
}

func TestGetModulePermissionsDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	cashier, err := svc.GetModulePermissions(string(user.RoleCashier))
	require.NoError(t, err)
	assert.True(t, cashier["sales"])
	assert.True(t, cashier["inventory_view"])
	assert.False(t, cashier["inventory_manage"])
	assert.False(t, cashier["system_management"])

	admin, err := svc.GetModulePermissions(string(user.RoleAdministrator))
	require.NoError(t, err)
	assert.True(t, admin["accounting"])
	assert.True(t, admin["admin"])
	assert.False(t, admin["system_management"])

	super, err := svc.GetModulePermissions(string(user.RoleSuperAdmin))
	require.NoError(t, err)
	assert.True(t, super["system_management"])

	_, err = svc.GetModulePermissions("KING")
	require.Error(t, err)
	assert.Equal(t, "invalid role: KING", err.Error())
}

func TestConfigureModulePermissions(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ConfigureModulePermissions(string(user.RoleCashier), map[string]bool{
		"shipping": true,
		"sales":    false,
	}, 1)
	require.NoError(t, err)

	permissions, err := svc.GetModulePermissions(string(user.RoleCashier))
	require.NoError(t, err)
	assert.True(t, permissions["shipping"])
	assert.False(t, permissions["sales"])
	// Untouched defaults survive the override
	assert.True(t, permissions["inventory_view"])

	// Reconfiguring an overridden key updates in place
	err = svc.ConfigureModulePermissions(string(user.RoleCashier), map[string]bool{
		"shipping": false,
	}, 1)
	require.NoError(t, err)

	permissions, err = svc.GetModulePermissions(string(user.RoleCashier))
	require.NoError(t, err)
	assert.False(t, permissions["shipping"])
}

func TestConfigureModulePermissionsValidation(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ConfigureModulePermissions("KING", map[string]bool{"sales": true}, 1)
	require.Error(t, err)
	assert.Equal(t, "invalid role: KING", err.Error())

	err = svc.ConfigureModulePermissions(string(user.RoleCashier), map[string]bool{}, 1)
	require.Error(t, err)
	assert.Equal(t, "no permissions provided", err.Error())

	err = svc.ConfigureModulePermissions(string(user.RoleCashier), map[string]bool{
		"teleport": true,
		"fly":      true,
	}, 1)
	require.Error(t, err)
	assert.Equal(t, "invalid permission keys: fly, teleport", err.Error())
}
