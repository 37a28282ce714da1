package system

import "time"

// ExportFormat is the file format for data exports
type ExportFormat string

const (
	FormatCSV   ExportFormat = "CSV"
	FormatJSON  ExportFormat = "JSON"
	FormatExcel ExportFormat = "EXCEL"
)

// IsValid checks whether the export format is one of the known values
func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatExcel:
		return true
	}
	return false
}

// Extension returns the file extension used for download URLs
func (f ExportFormat) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatExcel:
		return "excel"
	}
	return ""
}

// Exportable data sets
const (
	DataTypeUsers     = "users"
	DataTypeProducts  = "products"
	DataTypeCustomers = "customers"
)

// SystemBackup records a database backup run
type SystemBackup struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BackupID  string    `json:"backup_id" gorm:"size:100;uniqueIndex;not null"`
	FilePath  string    `json:"file_path" gorm:"size:500"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the SystemBackup model
func (SystemBackup) TableName() string {
	return "system_backups"
}

// ActivityLog records an auditable action taken through the API
type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	Action    string    `json:"action" gorm:"size:100;not null;index"`
	Detail    string    `json:"detail" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// ModulePermission stores a role's access flag for one application module
type ModulePermission struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Role       string    `json:"role" gorm:"size:50;not null;uniqueIndex:idx_permission_role_module"`
	Permission string    `json:"permission" gorm:"size:100;not null;uniqueIndex:idx_permission_role_module"`
	Enabled    bool      `json:"enabled" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the table name for the ModulePermission model
func (ModulePermission) TableName() string {
	return "module_permissions"
}

// BackupResult is the response of a backup run
type BackupResult struct {
	Success  bool   `json:"success"`
	BackupID string `json:"backupId"`
}

// ExportResult points at a generated export file
type ExportResult struct {
	DownloadURL string `json:"downloadUrl"`
}

// ImportResult summarizes an import run
type ImportResult struct {
	Success          bool `json:"success"`
	RecordsProcessed int  `json:"recordsProcessed"`
}

// HealthReport is a snapshot of system health and usage counters
type HealthReport struct {
	DatabaseStatus    string   `json:"database_status"`
	ServerUptime      string   `json:"server_uptime"`
	MemoryUsage       string   `json:"memory_usage"`
	DiskUsage         string   `json:"disk_usage"`
	TotalUsers        int64    `json:"total_users"`
	TotalProducts     int64    `json:"total_products"`
	TotalTransactions int64    `json:"total_transactions"`
	ActiveUsers       int64    `json:"active_users"`
	RecentErrors      []string `json:"recent_errors"`
}
