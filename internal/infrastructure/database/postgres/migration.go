// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/retail-backend/internal/domain/accounting"
	"github.com/your-org/retail-backend/internal/domain/inventory"
	"github.com/your-org/retail-backend/internal/domain/product"
	"github.com/your-org/retail-backend/internal/domain/purchase"
	"github.com/your-org/retail-backend/internal/domain/sales"
	"github.com/your-org/retail-backend/internal/domain/settings"
	"github.com/your-org/retail-backend/internal/domain/shipping"
	"github.com/your-org/retail-backend/internal/domain/system"
	"github.com/your-org/retail-backend/internal/domain/upload"
	"github.com/your-org/retail-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// Models returns every model in dependency order. Shared with the test
// helpers so test databases match production schema.
func Models() []interface{} {
	return []interface{}{
		// Base tables
		&user.User{},
		&product.Product{},
		&inventory.Warehouse{},

		// Inventory
		&inventory.InventoryRecord{},
		&inventory.StockMovement{},

		// Purchasing
		&purchase.PurchaseOrder{},
		&purchase.PurchaseOrderItem{},

		// Sales
		&sales.Customer{},
		&sales.SalesTransaction{},
		&sales.SalesTransactionItem{},

		// Shipping
		&shipping.Shipping{},

		// Accounting
		&accounting.AccountsReceivable{},
		&accounting.AccountsPayable{},
		&accounting.SalesCommission{},

		// Settings and administration
		&settings.AppSetting{},
		&system.SystemBackup{},
		&system.ActivityLog{},
		&system.ModulePermission{},
		&upload.StagedFile{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_username_active ON users(username, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode)",
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_inventory_warehouse ON inventory_records(warehouse_id)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_low_stock ON inventory_records(warehouse_id, quantity, reorder_level)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_record ON stock_movements(inventory_record_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements(reference_type, reference_id)",

		// Purchase order indexes
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_warehouse ON purchase_orders(warehouse_id)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_order_items_order ON purchase_order_items(purchase_order_id)",

		// Sales indexes
		"CREATE INDEX IF NOT EXISTS idx_sales_transactions_cashier ON sales_transactions(cashier_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_transactions_status_created ON sales_transactions(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_transactions_customer ON sales_transactions(customer_id)",
		"CREATE INDEX IF NOT EXISTS idx_sales_transaction_items_txn ON sales_transaction_items(transaction_id)",
		"CREATE INDEX IF NOT EXISTS idx_sales_transaction_items_product ON sales_transaction_items(product_id)",

		// Shipping indexes
		"CREATE INDEX IF NOT EXISTS idx_shippings_transaction ON shippings(transaction_id)",
		"CREATE INDEX IF NOT EXISTS idx_shippings_status ON shippings(status)",

		// Accounting indexes
		"CREATE INDEX IF NOT EXISTS idx_receivables_status_due ON accounts_receivable(status, due_date)",
		"CREATE INDEX IF NOT EXISTS idx_payables_status_due ON accounts_payable(status, due_date)",
		"CREATE INDEX IF NOT EXISTS idx_commissions_cashier_paid ON sales_commissions(cashier_id, is_paid)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_activity_logs_created ON activity_logs(created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedSuperAdmin(); err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}

	if err := m.seedDefaultWarehouse(); err != nil {
		return fmt.Errorf("failed to seed default warehouse: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedSuperAdmin creates the bootstrap administrator account
func (m *Migration) seedSuperAdmin() error {
	log.Println("👤 Seeding super admin user...")

	var existing user.User
	result := m.db.Where("username = ?", "superadmin").First(&existing)
	if result.Error == nil {
		log.Printf("⏭️ Super admin already exists with ID: %d", existing.ID)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("superadmin123"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := user.User{
		Username:     "superadmin",
		Email:        "superadmin@example.com",
		PasswordHash: string(hashedPassword),
		Role:         user.RoleSuperAdmin,
		FirstName:    "Super",
		LastName:     "Admin",
		IsActive:     true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	log.Println("✅ Created super admin: superadmin (change the password after first login)")
	return nil
}

// seedDefaultWarehouse creates the main warehouse for single-site setups
func (m *Migration) seedDefaultWarehouse() error {
	log.Println("🏬 Seeding default warehouse...")

	var count int64
	if err := m.db.Model(&inventory.Warehouse{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️ Warehouses already exist")
		return nil
	}

	warehouse := inventory.Warehouse{
		Name:     "Main Warehouse",
		Address:  "Head Office",
		IsActive: true,
	}
	if err := m.db.Create(&warehouse).Error; err != nil {
		return err
	}

	log.Printf("✅ Created default warehouse with ID: %d", warehouse.ID)
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"module_permissions",
		"activity_logs",
		"system_backups",
		"app_settings",
		"sales_commissions",
		"accounts_payable",
		"accounts_receivable",
		"shippings",
		"sales_transaction_items",
		"sales_transactions",
		"customers",
		"purchase_order_items",
		"purchase_orders",
		"stock_movements",
		"inventory_records",
		"warehouses",
		"products",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}
