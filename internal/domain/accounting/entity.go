package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerStatus tracks the payment state of a receivable or payable.
type LedgerStatus string

const (
	StatusPending   LedgerStatus = "PENDING"
	StatusPaid      LedgerStatus = "PAID"
	StatusOverdue   LedgerStatus = "OVERDUE"
	StatusCancelled LedgerStatus = "CANCELLED"
)

// IsValid checks whether the ledger status is one of the known values
func (s LedgerStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// AccountsReceivable represents money owed by a customer for a credit sale
type AccountsReceivable struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CustomerID    uint            `json:"customer_id" gorm:"not null;index"`
	TransactionID uint            `json:"transaction_id" gorm:"not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	DueDate       time.Time       `json:"due_date" gorm:"not null;index"`
	Status        LedgerStatus    `json:"status" gorm:"size:20;not null;default:'PENDING'"`
	Notes         *string         `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName returns the table name for the AccountsReceivable model
func (AccountsReceivable) TableName() string {
	return "accounts_receivable"
}

// IsOverdue reports whether a pending receivable is past its due date.
func (r *AccountsReceivable) IsOverdue(now time.Time) bool {
	return r.Status == StatusPending && r.DueDate.Before(now)
}

// AccountsPayable represents money owed to a supplier for a purchase order
type AccountsPayable struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint            `json:"purchase_order_id" gorm:"not null;index"`
	SupplierName    string          `json:"supplier_name" gorm:"size:255;not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	DueDate         time.Time       `json:"due_date" gorm:"not null;index"`
	Status          LedgerStatus    `json:"status" gorm:"size:20;not null;default:'PENDING'"`
	Notes           *string         `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName returns the table name for the AccountsPayable model
func (AccountsPayable) TableName() string {
	return "accounts_payable"
}

// SalesCommission represents the commission earned by a cashier on a
// completed transaction within a calculation period.
type SalesCommission struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	CashierID        uint            `json:"cashier_id" gorm:"not null;index"`
	TransactionID    uint            `json:"transaction_id" gorm:"not null;uniqueIndex:idx_commission_cashier_txn"`
	CommissionRate   decimal.Decimal `json:"commission_rate" gorm:"type:decimal(6,4);not null"`
	CommissionAmount decimal.Decimal `json:"commission_amount" gorm:"type:decimal(12,2);not null"`
	PeriodStart      time.Time       `json:"period_start" gorm:"not null"`
	PeriodEnd        time.Time       `json:"period_end" gorm:"not null"`
	IsPaid           bool            `json:"is_paid" gorm:"default:false"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName returns the table name for the SalesCommission model
func (SalesCommission) TableName() string {
	return "sales_commissions"
}

// CreateReceivableRequest represents a request to record a credit sale
type CreateReceivableRequest struct {
	CustomerID    uint            `json:"customer_id" binding:"required"`
	TransactionID uint            `json:"transaction_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DueDate       time.Time       `json:"due_date" binding:"required"`
	Notes         *string         `json:"notes"`
}

// CreatePayableRequest represents a request to record a supplier debt
type CreatePayableRequest struct {
	PurchaseOrderID uint            `json:"purchase_order_id" binding:"required"`
	SupplierName    string          `json:"supplier_name" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	DueDate         time.Time       `json:"due_date" binding:"required"`
	Notes           *string         `json:"notes"`
}

// CalculateCommissionsRequest represents a commission calculation run
type CalculateCommissionsRequest struct {
	CashierID   uint      `json:"cashier_id" binding:"required"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
}
