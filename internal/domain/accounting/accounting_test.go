package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/sales"
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
		&sales.Customer{},
		&sales.SalesTransaction{},
		&AccountsReceivable{},
		&AccountsPayable{},
		&SalesCommission{},
	))

	cfg := &config.Config{
		POS: config.POSConfig{DefaultCommissionRate: 0.05},
	}
	return NewService(db, cfg), db
}

func seedCustomer(t *testing.T, db *gorm.DB) *sales.Customer {
	t.Helper()
	customer := &sales.Customer{
		Name:         "Jordan Lee",
		CustomerType: sales.CustomerTypeWholesale,
		IsActive:     true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedTransaction(t *testing.T, db *gorm.DB, cashierID uint, total float64, status sales.TransactionStatus) *sales.SalesTransaction {
	t.Helper()
	transaction := &sales.SalesTransaction{
		CashierID:       cashierID,
		TransactionType: sales.CustomerTypeRetail,
		Status:          status,
		Subtotal:        decimal.NewFromFloat(total),
		TotalAmount:     decimal.NewFromFloat(total),
		PaymentMethod:   "CASH",
	}
	require.NoError(t, db.Create(transaction).Error)
	return transaction
}

func TestCreateReceivable(t *testing.T) {
	svc, db := newTestService(t)
	customer := seedCustomer(t, db)
	transaction := seedTransaction(t, db, 1, 500, sales.TransactionStatusCompleted)

	receivable, err := svc.CreateReceivable(&CreateReceivableRequest{
		CustomerID:    customer.ID,
		TransactionID: transaction.ID,
		Amount:        decimal.NewFromInt(500),
		DueDate:       time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, receivable.Status)
}

func TestCreateReceivableUnknownReferences(t *testing.T) {
	svc, db := newTestService(t)
	customer := seedCustomer(t, db)

	_, err := svc.CreateReceivable(&CreateReceivableRequest{
		CustomerID:    999,
		TransactionID: 1,
		Amount:        decimal.NewFromInt(500),
		DueDate:       time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, "customer with id 999 not found", err.Error())

	_, err = svc.CreateReceivable(&CreateReceivableRequest{
		CustomerID:    customer.ID,
		TransactionID: 999,
		Amount:        decimal.NewFromInt(500),
		DueDate:       time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, "transaction with id 999 not found", err.Error())
}

func TestGetOverdueReceivables(t *testing.T) {
	svc, db := newTestService(t)
	customer := seedCustomer(t, db)
	transaction := seedTransaction(t, db, 1, 500, sales.TransactionStatusCompleted)

	overdue, err := svc.CreateReceivable(&CreateReceivableRequest{
		CustomerID:    customer.ID,
		TransactionID: transaction.ID,
		Amount:        decimal.NewFromInt(200),
		DueDate:       time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.CreateReceivable(&CreateReceivableRequest{
		CustomerID:    customer.ID,
		TransactionID: transaction.ID,
		Amount:        decimal.NewFromInt(300),
		DueDate:       time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// A paid row past its due date must not count as overdue
	paid, err := svc.CreateReceivable(&CreateReceivableRequest{
		CustomerID:    customer.ID,
		TransactionID: transaction.ID,
		Amount:        decimal.NewFromInt(100),
		DueDate:       time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.MarkReceivablePaid(paid.ID)
	require.NoError(t, err)

	records, err := svc.GetOverdueReceivables()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, overdue.ID, records[0].ID)
}

func TestMarkReceivablePaidTwice(t *testing.T) {
	svc, db := newTestService(t)
	customer := seedCustomer(t, db)
	transaction := seedTransaction(t, db, 1, 500, sales.TransactionStatusCompleted)

	receivable, err := svc.CreateReceivable(&CreateReceivableRequest{
		CustomerID:    customer.ID,
		TransactionID: transaction.ID,
		Amount:        decimal.NewFromInt(500),
		DueDate:       time.Now(),
	})
	require.NoError(t, err)

	paid, err := svc.MarkReceivablePaid(receivable.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)

	_, err = svc.MarkReceivablePaid(receivable.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	assert.Equal(t, "receivable is already paid", err.Error())
}

func TestMarkCancelledReceivablePaid(t *testing.T) {
	svc, db := newTestService(t)
	customer := seedCustomer(t, db)
	transaction := seedTransaction(t, db, 1, 500, sales.TransactionStatusCompleted)

	receivable, err := svc.CreateReceivable(&CreateReceivableRequest{
		CustomerID:    customer.ID,
		TransactionID: transaction.ID,
		Amount:        decimal.NewFromInt(500),
		DueDate:       time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&AccountsReceivable{}).
		Where("id = ?", receivable.ID).
		Update("status", StatusCancelled).Error)

	_, err = svc.MarkReceivablePaid(receivable.ID)
	require.Error(t, err)
	assert.Equal(t, "cannot mark a cancelled receivable as paid", err.Error())
}

func TestPayableLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	payable, err := svc.CreatePayable(&CreatePayableRequest{
		PurchaseOrderID: 1,
		SupplierName:    "Acme Supplies",
		Amount:          decimal.NewFromInt(1200),
		DueDate:         time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, payable.Status)

	overdue, err := svc.GetOverduePayables()
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	paid, err := svc.MarkPayablePaid(payable.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)

	_, err = svc.MarkPayablePaid(payable.ID)
	require.Error(t, err)
	assert.Equal(t, "payable is already paid", err.Error())

	remaining, err := svc.GetPayables()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCalculateCommissions(t *testing.T) {
	svc, db := newTestService(t)

	seedTransaction(t, db, 1, 100, sales.TransactionStatusCompleted)
	seedTransaction(t, db, 1, 200, sales.TransactionStatusCompleted)
	// Excluded: other cashier and non-completed status
	seedTransaction(t, db, 2, 400, sales.TransactionStatusCompleted)
	seedTransaction(t, db, 1, 800, sales.TransactionStatusReturned)

	commissions, err := svc.CalculateCommissions(&CalculateCommissionsRequest{
		CashierID:   1,
		PeriodStart: time.Now().Add(-time.Hour),
		PeriodEnd:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, commissions, 2)
	assert.True(t, commissions[0].CommissionAmount.Equal(decimal.NewFromInt(5)))
	assert.True(t, commissions[1].CommissionAmount.Equal(decimal.NewFromInt(10)))
	assert.False(t, commissions[0].IsPaid)
}

func TestCalculateCommissionsIdempotent(t *testing.T) {
	svc, db := newTestService(t)

	seedTransaction(t, db, 1, 100, sales.TransactionStatusCompleted)

	req := &CalculateCommissionsRequest{
		CashierID:   1,
		PeriodStart: time.Now().Add(-time.Hour),
		PeriodEnd:   time.Now().Add(time.Hour),
	}

	first, err := svc.CalculateCommissions(req)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.CalculateCommissions(req)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	all, err := svc.GetCommissions()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCalculateCommissionsInvalidPeriod(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CalculateCommissions(&CalculateCommissionsRequest{
		CashierID:   1,
		PeriodStart: time.Now(),
		PeriodEnd:   time.Now().Add(-time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "period end must be after period start", err.Error())
}

func TestMarkCommissionPaid(t *testing.T) {
	svc, db := newTestService(t)

	seedTransaction(t, db, 1, 100, sales.TransactionStatusCompleted)

	commissions, err := svc.CalculateCommissions(&CalculateCommissionsRequest{
		CashierID:   1,
		PeriodStart: time.Now().Add(-time.Hour),
		PeriodEnd:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, commissions, 1)

	paid, err := svc.MarkCommissionPaid(commissions[0].ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	unpaid, err := svc.GetUnpaidCommissions()
	require.NoError(t, err)
	assert.Empty(t, unpaid)

	_, err = svc.MarkCommissionPaid(commissions[0].ID)
	require.Error(t, err)
	assert.Equal(t, "commission is already paid", err.Error())
}
