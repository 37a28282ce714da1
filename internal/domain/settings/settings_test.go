package settings

import (
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

	require.NoError(t, db.AutoMigrate(&AppSetting{}))

	cfg := &config.Config{
		App: config.AppConfig{CompanyName: "My POS Company"},
		POS: config.POSConfig{
			Currency:              "USD",
			DefaultTaxRate:        0.08,
			DefaultCommissionRate: 0.05,
			DefaultReorderLevel:   10,
		},
	}
	return NewService(db, cfg)
}

func TestGetSystemSettingsDefaults(t *testing.T) {
	svc := newTestService(t)

	current, err := svc.GetSystemSettings()
	require.NoError(t, err)
	assert.Equal(t, "My POS Company", current.CompanyName)
	assert.Equal(t, 0.08, current.DefaultTaxRate)
	assert.Equal(t, 0.05, current.DefaultCommissionRate)
	assert.Equal(t, "USD", current.Currency)
	assert.Equal(t, 10, current.LowStockThreshold)
}

func TestUpdateSystemSettingsOverridesDefaults(t *testing.T) {
	svc := newTestService(t)

	err := svc.UpdateSystemSettings(map[string]interface{}{
		"company_name":        "Corner Store",
		"default_tax_rate":    0.1,
		"low_stock_threshold": 25,
	}, 1)
	require.NoError(t, err)

	current, err := svc.GetSystemSettings()
	require.NoError(t, err)
	assert.Equal(t, "Corner Store", current.CompanyName)
	assert.Equal(t, 0.1, current.DefaultTaxRate)
	assert.Equal(t, 25, current.LowStockThreshold)
	// Untouched keys keep their configured defaults
	assert.Equal(t, "USD", current.Currency)
	assert.Equal(t, 0.05, current.DefaultCommissionRate)
}

func TestUpdateSystemSettingsEmpty(t *testing.T) {
	svc := newTestService(t)

	err := svc.UpdateSystemSettings(map[string]interface{}{}, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "no settings provided", err.Error())
}

func TestUpdateSystemSettingsUnknownKeys(t *testing.T) {
	svc := newTestService(t)

	err := svc.UpdateSystemSettings(map[string]interface{}{
		"company_name": "Corner Store",
		"zz_bogus":     1,
		"aa_bogus":     2,
	}, 1)
	require.Error(t, err)
	assert.Equal(t, "invalid setting keys: aa_bogus, zz_bogus", err.Error())

	// The valid key in the rejected batch must not be persisted
	current, err := svc.GetSystemSettings()
	require.NoError(t, err)
	assert.Equal(t, "My POS Company", current.CompanyName)
}

func TestUpdateSystemSettingsValueValidation(t *testing.T) {
	svc := newTestService(t)

	err := svc.UpdateSystemSettings(map[string]interface{}{"company_name": ""}, 1)
	require.Error(t, err)
	assert.Equal(t, "company_name must be a non-empty string", err.Error())

	err = svc.UpdateSystemSettings(map[string]interface{}{"default_tax_rate": 1.5}, 1)
	require.Error(t, err)
	assert.Equal(t, "default_tax_rate must be a number between 0 and 1", err.Error())

	err = svc.UpdateSystemSettings(map[string]interface{}{"default_commission_rate": "high"}, 1)
	require.Error(t, err)
	assert.Equal(t, "default_commission_rate must be a number between 0 and 1", err.Error())

	err = svc.UpdateSystemSettings(map[string]interface{}{"low_stock_threshold": -5}, 1)
	require.Error(t, err)
	assert.Equal(t, "low_stock_threshold must be a positive number", err.Error())

	err = svc.UpdateSystemSettings(map[string]interface{}{"low_stock_threshold": 2.5}, 1)
	require.Error(t, err)
	assert.Equal(t, "low_stock_threshold must be a positive number", err.Error())
}

func TestUpdateSystemSettingsUpserts(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.UpdateSystemSettings(map[string]interface{}{"currency": "EUR"}, 1))
	require.NoError(t, svc.UpdateSystemSettings(map[string]interface{}{"currency": "GBP"}, 2))

	current, err := svc.GetSystemSettings()
	require.NoError(t, err)
	assert.Equal(t, "GBP", current.Currency)

	value, err := svc.GetSetting(KeyCurrency)
	require.NoError(t, err)
	assert.Equal(t, "GBP", value)
}

func TestUpdateBranding(t *testing.T) {
	svc := newTestService(t)

	name := "Corner Store"
	logo := "https://cdn.example.com/logo.png"
	err := svc.UpdateBranding(&UpdateBrandingRequest{
		CompanyName: &name,
		Logo:        &logo,
		Colors:      map[string]string{"primary": "#112233"},
	}, 1)
	require.NoError(t, err)

	storedLogo, err := svc.GetSetting(KeyBrandingLogo)
	require.NoError(t, err)
	assert.Equal(t, logo, storedLogo)

	colors, err := svc.GetSetting(KeyBrandingColors)
	require.NoError(t, err)
	assert.JSONEq(t, `{"primary":"#112233"}`, colors)

	current, err := svc.GetSystemSettings()
	require.NoError(t, err)
	assert.Equal(t, "Corner Store", current.CompanyName)
}

func TestUpdateBrandingValidation(t *testing.T) {
	svc := newTestService(t)

	empty := ""
	err := svc.UpdateBranding(&UpdateBrandingRequest{CompanyName: &empty}, 1)
	require.Error(t, err)
	assert.Equal(t, "companyName must not be empty", err.Error())

	err = svc.UpdateBranding(&UpdateBrandingRequest{}, 1)
	require.Error(t, err)
	assert.Equal(t, "no branding fields provided", err.Error())
}

func TestGetSettingUnset(t *testing.T) {
	svc := newTestService(t)

	value, err := svc.GetSetting(KeyBrandingLogo)
	require.NoError(t, err)
	assert.Equal(t, "", value)
}
