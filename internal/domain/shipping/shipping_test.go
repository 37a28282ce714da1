package shipping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/retail-backend/internal/config"
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
		&sales.SalesTransaction{},
		&Shipping{},
	))

	return NewService(db, &config.Config{}), db
}

func seedTransaction(t *testing.T, db *gorm.DB) *sales.SalesTransaction {
	t.Helper()
	transaction := &sales.SalesTransaction{
		CashierID:       1,
		TransactionType: sales.CustomerTypeRetail,
		Status:          sales.TransactionStatusCompleted,
		Subtotal:        decimal.NewFromInt(100),
		TotalAmount:     decimal.NewFromInt(108),
		PaymentMethod:   "CASH",
	}
	require.NoError(t, db.Create(transaction).Error)
	return transaction
}

func createShipping(t *testing.T, svc *Service, transactionID uint) *Shipping {
	t.Helper()
	shipping, err := svc.CreateShipping(&CreateShippingRequest{
		TransactionID:   transactionID,
		ShippingAddress: "42 Market Street",
		ShippingCost:    decimal.NewFromFloat(9.50),
	})
	require.NoError(t, err)
	return shipping
}

func TestCreateShipping(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)

	shipping := createShipping(t, svc, transaction.ID)
	assert.Equal(t, StatusPending, shipping.Status)
	assert.Nil(t, shipping.TrackingNumber)
}

func TestCreateShippingUnknownTransaction(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateShipping(&CreateShippingRequest{
		TransactionID:   999,
		ShippingAddress: "42 Market Street",
		ShippingCost:    decimal.NewFromFloat(9.50),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "transaction with id 999 not found", err.Error())
}

func TestGetShippingByTransaction(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)
	created := createShipping(t, svc, transaction.ID)

	found, err := svc.GetShippingByTransaction(transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetShippingByTransaction(999)
	require.Error(t, err)
	assert.Equal(t, "shipping record for transaction 999 not found", err.Error())
}

func TestUpdateShippingStatus(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)
	shipping := createShipping(t, svc, transaction.ID)

	tracking := "TRK-MANUAL-001"
	updated, err := svc.UpdateShippingStatus(shipping.ID, &UpdateShippingStatusRequest{
		Status:         StatusShipped,
		TrackingNumber: &tracking,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, updated.Status)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, tracking, *updated.TrackingNumber)
	assert.Nil(t, updated.ActualDelivery)
}

func TestUpdateShippingStatusDeliveredStampsTime(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)
	shipping := createShipping(t, svc, transaction.ID)

	updated, err := svc.UpdateShippingStatus(shipping.ID, &UpdateShippingStatusRequest{
		Status: StatusDelivered,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, updated.Status)
	require.NotNil(t, updated.ActualDelivery)
}

func TestUpdateShippingStatusInvalid(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)
	shipping := createShipping(t, svc, transaction.ID)

	_, err := svc.UpdateShippingStatus(shipping.ID, &UpdateShippingStatusRequest{
		Status: ShippingStatus("TELEPORTED"),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "invalid shipping status: TELEPORTED", err.Error())
}

func TestGenerateTrackingNumber(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)
	shipping := createShipping(t, svc, transaction.ID)

	withTracking, err := svc.GenerateTrackingNumber(shipping.ID)
	require.NoError(t, err)
	require.NotNil(t, withTracking.TrackingNumber)
	assert.Regexp(t, `^TRK-[0-9a-f-]{36}$`, *withTracking.TrackingNumber)

	// Regenerating keeps the existing number
	again, err := svc.GenerateTrackingNumber(shipping.ID)
	require.NoError(t, err)
	assert.Equal(t, *withTracking.TrackingNumber, *again.TrackingNumber)
}

func TestPrintShippingLabel(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)
	shipping := createShipping(t, svc, transaction.ID)

	label, err := svc.PrintShippingLabel(shipping.ID)
	require.NoError(t, err)
	assert.Equal(t, shipping.ID, label.ShippingID)
	assert.Equal(t, transaction.ID, label.TransactionID)
	assert.Equal(t, "42 Market Street", label.Address)
	assert.NotEmpty(t, label.GeneratedAt)
}

func TestAssignPackingResponsibility(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)
	shipping := createShipping(t, svc, transaction.ID)

	packer := &user.User{
		Username:     "packer1",
		Email:        "packer1@example.com",
		PasswordHash: "x",
		Role:         user.RoleInventoryManager,
		FirstName:    "Pat",
		LastName:     "Packer",
		IsActive:     true,
	}
	require.NoError(t, db.Create(packer).Error)

	require.NoError(t, svc.AssignPackingResponsibility(shipping.ID, packer.ID))

	assigned, err := svc.GetShippingByID(shipping.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, assigned.Status)
	require.NotNil(t, assigned.AssignedPackerID)
	assert.Equal(t, packer.ID, *assigned.AssignedPackerID)

	err = svc.AssignPackingResponsibility(shipping.ID, 999)
	require.Error(t, err)
	assert.Equal(t, "user with id 999 not found", err.Error())
}

func TestUpdatePackingStatus(t *testing.T) {
	svc, db := newTestService(t)
	transaction := seedTransaction(t, db)
	shipping := createShipping(t, svc, transaction.ID)

	require.NoError(t, svc.UpdatePackingStatus(shipping.ID, true))
	packed, err := svc.GetShippingByID(shipping.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPacked, packed.Status)

	require.NoError(t, svc.UpdatePackingStatus(shipping.ID, false))
	unpacked, err := svc.GetShippingByID(shipping.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, unpacked.Status)
}
