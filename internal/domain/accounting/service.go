package accounting

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/sales"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
)

// Service handles accounting business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new accounting service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateReceivable records a receivable for a credit sale
func (s *Service) CreateReceivable(req *CreateReceivableRequest) (*AccountsReceivable, error) {
	var customer sales.Customer
	if err := s.db.Where("id = ?", req.CustomerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("customer with id %d not found", req.CustomerID)
		}
		return nil, apperrors.Internal(err, "failed to look up customer")
	}

	var transaction sales.SalesTransaction
	if err := s.db.Where("id = ?", req.TransactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("transaction with id %d not found", req.TransactionID)
		}
		return nil, apperrors.Internal(err, "failed to look up transaction")
	}

	receivable := &AccountsReceivable{
		CustomerID:    req.CustomerID,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		Status:        StatusPending,
		Notes:         req.Notes,
	}

	if err := s.db.Create(receivable).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create receivable")
	}

	return receivable, nil
}

// GetReceivables retrieves all receivables that still require payment
func (s *Service) GetReceivables() ([]AccountsReceivable, error) {
	receivables := []AccountsReceivable{}
	if err := s.db.Where("status IN ?", []LedgerStatus{StatusPending, StatusOverdue}).
		Order("due_date ASC, id ASC").
		Find(&receivables).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to get receivables")
	}
	return receivables, nil
}

// GetOverdueReceivables retrieves pending receivables whose due date has
// passed. Rows already marked paid, cancelled or overdue are excluded.
func (s *Service) GetOverdueReceivables() ([]AccountsReceivable, error) {
	receivables := []AccountsReceivable{}
	if err := s.db.Where("status = ? AND due_date < ?", StatusPending, time.Now()).
		Order("due_date ASC, id ASC").
		Find(&receivables).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to get overdue receivables")
	}
	return receivables, nil
}

// MarkReceivablePaid marks a receivable as settled
func (s *Service) MarkReceivablePaid(id uint) (*AccountsReceivable, error) {
	var receivable AccountsReceivable
	if err := s.db.Where("id = ?", id).First(&receivable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("receivable with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to get receivable")
	}

	if receivable.Status == StatusPaid {
		return nil, apperrors.InvalidTransition("receivable is already paid")
	}
	if receivable.Status == StatusCancelled {
		return nil, apperrors.InvalidTransition("cannot mark a cancelled receivable as paid")
	}

	receivable.Status = StatusPaid
	if err := s.db.Model(&receivable).Update("status", StatusPaid).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update receivable")
	}

	return &receivable, nil
}

// CreatePayable records a payable owed to a supplier
func (s *Service) CreatePayable(req *CreatePayableRequest) (*AccountsPayable, error) {
	payable := &AccountsPayable{
		PurchaseOrderID: req.PurchaseOrderID,
		SupplierName:    req.SupplierName,
		Amount:          req.Amount,
		DueDate:         req.DueDate,
		Status:          StatusPending,
		Notes:           req.Notes,
	}

	if err := s.db.Create(payable).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create payable")
	}

	return payable, nil
}

// GetPayables retrieves all payables that still require payment
func (s *Service) GetPayables() ([]AccountsPayable, error) {
	payables := []AccountsPayable{}
	if err := s.db.Where("status IN ?", []LedgerStatus{StatusPending, StatusOverdue}).
		Order("due_date ASC, id ASC").
		Find(&payables).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to get payables")
	}
	return payables, nil
}

// GetOverduePayables retrieves pending payables whose due date has passed
func (s *Service) GetOverduePayables() ([]AccountsPayable, error) {
	payables := []AccountsPayable{}
	if err := s.db.Where("status = ? AND due_date < ?", StatusPending, time.Now()).
		Order("due_date ASC, id ASC").
		Find(&payables).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to get overdue payables")
	}
	return payables, nil
}

// MarkPayablePaid marks a payable as settled
func (s *Service) MarkPayablePaid(id uint) (*AccountsPayable, error) {
	var payable AccountsPayable
	if err := s.db.Where("id = ?", id).First(&payable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payable with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to get payable")
	}

	if payable.Status == StatusPaid {
		return nil, apperrors.InvalidTransition("payable is already paid")
	}
	if payable.Status == StatusCancelled {
		return nil, apperrors.InvalidTransition("cannot mark a cancelled payable as paid")
	}

	payable.Status = StatusPaid
	if err := s.db.Model(&payable).Update("status", StatusPaid).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update payable")
	}

	return &payable, nil
}

// CalculateCommissions computes commissions for a cashier over a period.
// One commission row is written per completed transaction. The run is
// idempotent, so transactions that already have a commission row keep the
// existing one instead of being charged twice.
func (s *Service) CalculateCommissions(req *CalculateCommissionsRequest) ([]SalesCommission, error) {
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, apperrors.Validation("period end must be after period start")
	}

	transactions := []sales.SalesTransaction{}
	if err := s.db.Where("cashier_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
		req.CashierID, sales.TransactionStatusCompleted, req.PeriodStart, req.PeriodEnd).
		Order("created_at ASC, id ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to load transactions for commission run")
	}

	rate := decimal.NewFromFloat(s.config.POS.DefaultCommissionRate)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	commissions := []SalesCommission{}
	for _, transaction := range transactions {
		var existing SalesCommission
		err := tx.Where("cashier_id = ? AND transaction_id = ?", req.CashierID, transaction.ID).
			First(&existing).Error
		if err == nil {
			commissions = append(commissions, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return nil, apperrors.Internal(err, "failed to check existing commission")
		}

		commission := SalesCommission{
			CashierID:        req.CashierID,
			TransactionID:    transaction.ID,
			CommissionRate:   rate,
			CommissionAmount: transaction.TotalAmount.Mul(rate).Round(2),
			PeriodStart:      req.PeriodStart,
			PeriodEnd:        req.PeriodEnd,
			IsPaid:           false,
		}
		if err := tx.Create(&commission).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Internal(err, "failed to create commission")
		}
		commissions = append(commissions, commission)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Internal(err, "failed to commit commission run")
	}

	return commissions, nil
}

// GetCommissions retrieves all commission records
func (s *Service) GetCommissions() ([]SalesCommission, error) {
	commissions := []SalesCommission{}
	if err := s.db.Order("created_at DESC, id DESC").Find(&commissions).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to get commissions")
	}
	return commissions, nil
}

// GetUnpaidCommissions retrieves commissions awaiting payout
func (s *Service) GetUnpaidCommissions() ([]SalesCommission, error) {
	commissions := []SalesCommission{}
	if err := s.db.Where("is_paid = ?", false).
		Order("created_at ASC, id ASC").
		Find(&commissions).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to get unpaid commissions")
	}
	return commissions, nil
}

// MarkCommissionPaid marks a commission as paid out
func (s *Service) MarkCommissionPaid(id uint) (*SalesCommission, error) {
	var commission SalesCommission
	if err := s.db.Where("id = ?", id).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("commission with id %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to get commission")
	}

	if commission.IsPaid {
		return nil, apperrors.InvalidTransition("commission is already paid")
	}

	commission.IsPaid = true
	if err := s.db.Model(&commission).Update("is_paid", true).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to update commission")
	}

	return &commission, nil
}
