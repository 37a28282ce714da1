package sales

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/product"
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
		&product.Product{},
		&Customer{},
		&SalesTransaction{},
		&SalesTransactionItem{},
	))

	cfg := &config.Config{
		App: config.AppConfig{CompanyName: "My POS Company"},
		POS: config.POSConfig{Currency: "USD", DefaultTaxRate: 0.08},
	}
	return NewService(db, cfg), db
}

func seedProduct(t *testing.T, db *gorm.DB, sku, name string) *product.Product {
	t.Helper()
	p := &product.Product{
		SKU:            sku,
		Name:           name,
		RetailPrice:    decimal.NewFromFloat(10),
		WholesalePrice: decimal.NewFromFloat(8),
		CostPrice:      decimal.NewFromFloat(5),
		IsActive:       true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func saleRequest(total float64, items ...CreateSalesItemRequest) *CreateSalesTransactionRequest {
	amount := decimal.NewFromFloat(total)
	return &CreateSalesTransactionRequest{
		TransactionType: CustomerTypeRetail,
		Subtotal:        amount,
		TotalAmount:     amount,
		PaymentMethod:   "CASH",
		Items:           items,
	}
}

func TestCreateCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateCustomer(&CreateCustomerRequest{
		Name:         "Jordan Lee",
		CustomerType: CustomerTypeWholesale,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, CustomerTypeWholesale, created.CustomerType)

	fetched, err := svc.GetCustomerByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jordan Lee", fetched.Name)

	_, err = svc.GetCustomerByID(999)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "customer not found", err.Error())
}

func TestCreateSalesTransaction(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "SKU-001", "Coffee Beans")

	created, err := svc.CreateSalesTransaction(saleRequest(108, CreateSalesItemRequest{
		ProductID:  p.ID,
		Quantity:   2,
		UnitPrice:  decimal.NewFromFloat(50),
		TotalPrice: decimal.NewFromFloat(100),
	}), 1)
	require.NoError(t, err)
	assert.Equal(t, TransactionStatusCompleted, created.Status)
	assert.Equal(t, uint(1), created.CashierID)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 2, created.Items[0].Quantity)
}

func TestCreateSalesTransactionUnknownCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	customerID := uint(999)
	req := saleRequest(50)
	req.CustomerID = &customerID

	_, err := svc.CreateSalesTransaction(req, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "customer not found", err.Error())
}

func TestProcessSalesReturn(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateSalesTransaction(saleRequest(50), 1)
	require.NoError(t, err)

	returned, err := svc.ProcessSalesReturn(created.ID, "defective")
	require.NoError(t, err)
	assert.Equal(t, TransactionStatusReturned, returned.Status)
	require.NotNil(t, returned.Notes)
	assert.Equal(t, "Return: defective", *returned.Notes)

	_, err = svc.ProcessSalesReturn(999, "defective")
	require.Error(t, err)
	assert.Equal(t, "transaction not found", err.Error())
}

func TestPrintReceipt(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "SKU-001", "Coffee Beans")

	req := saleRequest(108, CreateSalesItemRequest{
		ProductID:  p.ID,
		Quantity:   2,
		UnitPrice:  decimal.NewFromFloat(50),
		TotalPrice: decimal.NewFromFloat(100),
	})
	req.TaxAmount = decimal.NewFromFloat(8)
	req.Subtotal = decimal.NewFromFloat(100)

	created, err := svc.CreateSalesTransaction(req, 1)
	require.NoError(t, err)

	receipt, err := svc.PrintReceipt(created.ID)
	require.NoError(t, err)
	assert.Contains(t, receipt, "=== RECEIPT ===")
	assert.Contains(t, receipt, "My POS Company")
	assert.Contains(t, receipt, "Payment Method: CASH")
	assert.Contains(t, receipt, "Coffee Beans (SKU-001) x2 @ $50.00 = $100.00")
	assert.Contains(t, receipt, "Subtotal: $100.00")
	assert.Contains(t, receipt, "Tax: $8.00")
	assert.Contains(t, receipt, "TOTAL: $108.00")
	assert.Contains(t, receipt, "Thank you for your business!")
}

func TestGetSalesTransactionForReceiptLoadsProducts(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "SKU-001", "Coffee Beans")

	created, err := svc.CreateSalesTransaction(saleRequest(108, CreateSalesItemRequest{
		ProductID:  p.ID,
		Quantity:   2,
		UnitPrice:  decimal.NewFromFloat(50),
		TotalPrice: decimal.NewFromFloat(100),
	}), 1)
	require.NoError(t, err)

	transaction, err := svc.GetSalesTransactionForReceipt(created.ID)
	require.NoError(t, err)
	require.Len(t, transaction.Items, 1)
	assert.Equal(t, "Coffee Beans", transaction.Items[0].Product.Name)
	assert.Equal(t, "SKU-001", transaction.Items[0].Product.SKU)

	_, err = svc.GetSalesTransactionForReceipt(999)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestPrintReceiptUnknownTransaction(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.PrintReceipt(999)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "transaction not found", err.Error())
}

func TestGetSalesReport(t *testing.T) {
	svc, db := newTestService(t)
	coffee := seedProduct(t, db, "SKU-001", "Coffee Beans")
	tea := seedProduct(t, db, "SKU-002", "Green Tea")

	_, err := svc.CreateSalesTransaction(saleRequest(108, CreateSalesItemRequest{
		ProductID: coffee.ID, Quantity: 2,
		UnitPrice: decimal.NewFromFloat(50), TotalPrice: decimal.NewFromFloat(100),
	}), 1)
	require.NoError(t, err)

	_, err = svc.CreateSalesTransaction(saleRequest(206, CreateSalesItemRequest{
		ProductID: tea.ID, Quantity: 5,
		UnitPrice: decimal.NewFromFloat(40), TotalPrice: decimal.NewFromFloat(200),
	}), 2)
	require.NoError(t, err)

	report, err := svc.GetSalesReport(&SalesReportRequest{
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalTransactions)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(314)))
	assert.True(t, report.AverageTransaction.Equal(decimal.NewFromInt(157)))

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Green Tea", report.TopProducts[0].ProductName)
	assert.Equal(t, 5, report.TopProducts[0].TotalQuantity)
	assert.True(t, report.TopProducts[0].TotalRevenue.Equal(decimal.NewFromInt(200)))

	require.Len(t, report.CashierPerformance, 2)
	assert.Equal(t, uint(1), report.CashierPerformance[0].CashierID)
	assert.Equal(t, 1, report.CashierPerformance[0].TotalTransactions)
}

func TestGetSalesReportExcludesReturned(t *testing.T) {
	svc, _ := newTestService(t)

	kept, err := svc.CreateSalesTransaction(saleRequest(100), 1)
	require.NoError(t, err)
	_ = kept

	returned, err := svc.CreateSalesTransaction(saleRequest(999), 1)
	require.NoError(t, err)
	_, err = svc.ProcessSalesReturn(returned.ID, "defective")
	require.NoError(t, err)

	report, err := svc.GetSalesReport(&SalesReportRequest{
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalTransactions)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(100)))
}

func TestGetSalesReportFiltersByCashier(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSalesTransaction(saleRequest(100), 1)
	require.NoError(t, err)
	_, err = svc.CreateSalesTransaction(saleRequest(200), 2)
	require.NoError(t, err)

	cashierID := uint(2)
	report, err := svc.GetSalesReport(&SalesReportRequest{
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
		CashierID: &cashierID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalTransactions)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(200)))
}

func TestGetSalesReportEmptyRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSalesTransaction(saleRequest(100), 1)
	require.NoError(t, err)

	report, err := svc.GetSalesReport(&SalesReportRequest{
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalTransactions)
	assert.True(t, report.TotalSales.IsZero())
	assert.True(t, report.AverageTransaction.IsZero())
	assert.NotNil(t, report.TopProducts)
	assert.Empty(t, report.TopProducts)
	assert.NotNil(t, report.CashierPerformance)
	assert.Empty(t, report.CashierPerformance)
}
