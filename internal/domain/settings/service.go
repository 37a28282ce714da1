package settings

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
)

// Service handles system settings business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new settings service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// updatableKeys lists the settings the update endpoint accepts
var updatableKeys = map[string]bool{
	KeyCompanyName:           true,
	KeyDefaultTaxRate:        true,
	KeyDefaultCommissionRate: true,
	KeyCurrency:              true,
	KeyLowStockThreshold:     true,
}

// GetSystemSettings returns the current system configuration. Stored values
// take precedence over the defaults from the environment configuration.
func (s *Service) GetSystemSettings() (*SystemSettings, error) {
	result := &SystemSettings{
		CompanyName:           s.config.App.CompanyName,
		DefaultTaxRate:        s.config.POS.DefaultTaxRate,
		DefaultCommissionRate: s.config.POS.DefaultCommissionRate,
		Currency:              s.config.POS.Currency,
		LowStockThreshold:     s.config.POS.DefaultReorderLevel,
	}

	var stored []AppSetting
	if err := s.db.Where("key IN ?", []string{
		KeyCompanyName, KeyDefaultTaxRate, KeyDefaultCommissionRate,
		KeyCurrency, KeyLowStockThreshold,
	}).Find(&stored).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to load settings")
	}

	for _, setting := range stored {
		switch setting.Key {
		case KeyCompanyName:
			result.CompanyName = setting.Value
		case KeyCurrency:
			result.Currency = setting.Value
		case KeyDefaultTaxRate:
			if v, err := strconv.ParseFloat(setting.Value, 64); err == nil {
				result.DefaultTaxRate = v
			}
		case KeyDefaultCommissionRate:
			if v, err := strconv.ParseFloat(setting.Value, 64); err == nil {
				result.DefaultCommissionRate = v
			}
		case KeyLowStockThreshold:
			if v, err := strconv.Atoi(setting.Value); err == nil {
				result.LowStockThreshold = v
			}
		}
	}

	return result, nil
}

// UpdateSystemSettings validates and persists a partial settings update.
// Unknown keys are rejected as a whole so a typo cannot silently drop a
// setting.
func (s *Service) UpdateSystemSettings(updates map[string]interface{}, updatedBy uint) error {
	if len(updates) == 0 {
		return apperrors.Validation("no settings provided")
	}

	var invalid []string
	for key := range updates {
		if !updatableKeys[key] {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return apperrors.Validation("invalid setting keys: %s", strings.Join(invalid, ", "))
	}

	values := make(map[string]string, len(updates))
	for key, raw := range updates {
		value, err := normalizeSettingValue(key, raw)
		if err != nil {
			return err
		}
		values[key] = value
	}

	return s.saveValues(values, updatedBy)
}

// normalizeSettingValue checks one setting value and renders it to its
// stored string form.
func normalizeSettingValue(key string, raw interface{}) (string, error) {
	switch key {
	case KeyCompanyName, KeyCurrency:
		value, ok := raw.(string)
		if !ok || value == "" {
			return "", apperrors.Validation("%s must be a non-empty string", key)
		}
		return value, nil
	case KeyDefaultTaxRate, KeyDefaultCommissionRate:
		value, ok := toFloat(raw)
		if !ok || value < 0 || value > 1 {
			return "", apperrors.Validation("%s must be a number between 0 and 1", key)
		}
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case KeyLowStockThreshold:
		value, ok := toFloat(raw)
		if !ok || value < 0 || value != float64(int(value)) {
			return "", apperrors.Validation("low_stock_threshold must be a positive number")
		}
		return strconv.Itoa(int(value)), nil
	}
	return "", apperrors.Validation("invalid setting keys: %s", key)
}

// toFloat accepts the numeric types JSON decoding can produce
func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// UpdateBranding persists appearance settings used on receipts and in the
// client application.
func (s *Service) UpdateBranding(req *UpdateBrandingRequest, updatedBy uint) error {
	values := make(map[string]string)

	if req.CompanyName != nil {
		if *req.CompanyName == "" {
			return apperrors.Validation("companyName must not be empty")
		}
		values[KeyCompanyName] = *req.CompanyName
	}
	if req.Logo != nil {
		values[KeyBrandingLogo] = *req.Logo
	}
	if req.Colors != nil {
		encoded, err := json.Marshal(req.Colors)
		if err != nil {
			return apperrors.Internal(err, "failed to encode branding colors")
		}
		values[KeyBrandingColors] = string(encoded)
	}

	if len(values) == 0 {
		return apperrors.Validation("no branding fields provided")
	}

	return s.saveValues(values, updatedBy)
}

// GetSetting returns a single stored value, or the empty string when unset
func (s *Service) GetSetting(key string) (string, error) {
	var setting AppSetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.Internal(err, "failed to load setting %s", key)
	}
	return setting.Value, nil
}

// saveValues upserts the given key/value pairs in one transaction
func (s *Service) saveValues(values map[string]string, updatedBy uint) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for key, value := range values {
		var existing AppSetting
		err := tx.Where("key = ?", key).First(&existing).Error
		if err == nil {
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"value":      value,
				"updated_by": updatedBy,
			}).Error; err != nil {
				tx.Rollback()
				return apperrors.Internal(err, "failed to update setting %s", key)
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return apperrors.Internal(err, "failed to load setting %s", key)
		}

		setting := AppSetting{Key: key, Value: value, UpdatedBy: &updatedBy}
		if err := tx.Create(&setting).Error; err != nil {
			tx.Rollback()
			return apperrors.Internal(err, "failed to create setting %s", key)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.Internal(err, "failed to commit settings update")
	}
	return nil
}
