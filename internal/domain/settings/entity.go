package settings

import "time"

// Setting keys that may be read and written through the settings API.
const (
	KeyCompanyName           = "company_name"
	KeyDefaultTaxRate        = "default_tax_rate"
	KeyDefaultCommissionRate = "default_commission_rate"
	KeyCurrency              = "currency"
	KeyLowStockThreshold     = "low_stock_threshold"
	KeyBrandingLogo          = "branding_logo"
	KeyBrandingColors        = "branding_colors"
)

// AppSetting is a single persisted configuration value. Values are stored
// as strings and parsed on read.
type AppSetting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"size:100;uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedBy *uint     `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the AppSetting model
func (AppSetting) TableName() string {
	return "app_settings"
}

// SystemSettings is the typed view of the tunable system configuration
type SystemSettings struct {
	CompanyName           string  `json:"company_name"`
	DefaultTaxRate        float64 `json:"default_tax_rate"`
	DefaultCommissionRate float64 `json:"default_commission_rate"`
	Currency              string  `json:"currency"`
	LowStockThreshold     int     `json:"low_stock_threshold"`
}

// UpdateBrandingRequest updates the appearance settings used on receipts
// and in the client application.
type UpdateBrandingRequest struct {
	CompanyName *string           `json:"companyName"`
	Logo        *string           `json:"logo"`
	Colors      map[string]string `json:"colors"`
}
