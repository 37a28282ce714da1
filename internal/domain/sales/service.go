// internal/domain/sales/service.go
package sales

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles customer and sales transaction business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new sales service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateCustomerRequest represents customer creation data
type CreateCustomerRequest struct {
	Name         string           `json:"name" binding:"required"`
	Email        *string          `json:"email"`
	Phone        *string          `json:"phone"`
	Address      *string          `json:"address"`
	CustomerType CustomerType     `json:"customer_type" binding:"required"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
}

// CreateSalesItemRequest represents a line item in a new sale
type CreateSalesItemRequest struct {
	ProductID  uint            `json:"product_id" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price" binding:"required"`
	TotalPrice decimal.Decimal `json:"total_price" binding:"required"`
}

// CreateSalesTransactionRequest represents sales transaction creation data
type CreateSalesTransactionRequest struct {
	CustomerID      *uint                    `json:"customer_id"`
	TransactionType CustomerType             `json:"transaction_type" binding:"required"`
	Subtotal        decimal.Decimal          `json:"subtotal" binding:"required"`
	TaxAmount       decimal.Decimal          `json:"tax_amount"`
	DiscountAmount  decimal.Decimal          `json:"discount_amount"`
	TotalAmount     decimal.Decimal          `json:"total_amount" binding:"required"`
	PaymentMethod   string                   `json:"payment_method" binding:"required"`
	Notes           *string                  `json:"notes"`
	Items           []CreateSalesItemRequest `json:"items"`
}

// SalesReportRequest represents sales report filters
type SalesReportRequest struct {
	StartDate       time.Time     `json:"start_date" binding:"required"`
	EndDate         time.Time     `json:"end_date" binding:"required"`
	CashierID       *uint         `json:"cashier_id"`
	TransactionType *CustomerType `json:"transaction_type"`
}

// ReportPeriod echoes the requested date range
type ReportPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// TopProduct is a product ranked by quantity sold
type TopProduct struct {
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// CashierPerformance summarizes one cashier's completed sales
type CashierPerformance struct {
	CashierID         uint            `json:"cashier_id"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalTransactions int             `json:"total_transactions"`
}

// SalesReport aggregates completed transactions over a period
type SalesReport struct {
	Period             ReportPeriod         `json:"period"`
	TotalSales         decimal.Decimal      `json:"total_sales"`
	TotalTransactions  int                  `json:"total_transactions"`
	AverageTransaction decimal.Decimal      `json:"average_transaction"`
	TopProducts        []TopProduct         `json:"top_products"`
	CashierPerformance []CashierPerformance `json:"cashier_performance"`
}

// CUSTOMER MANAGEMENT

// CreateCustomer creates a new customer
func (s *Service) CreateCustomer(req *CreateCustomerRequest) (*Customer, error) {
	customer := &Customer{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		CustomerType: req.CustomerType,
		CreditLimit:  req.CreditLimit,
		IsActive:     true,
	}

	if err := s.db.Create(customer).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to create customer")
	}

	return customer, nil
}

// GetCustomers retrieves all customers, newest first
func (s *Service) GetCustomers() ([]Customer, error) {
	var customers []Customer
	if err := s.db.Order("created_at DESC, id DESC").Find(&customers).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve customers")
	}
	return customers, nil
}

// GetCustomerByID retrieves a customer by id
func (s *Service) GetCustomerByID(id uint) (*Customer, error) {
	var customer Customer
	if err := s.db.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("customer not found")
		}
		return nil, apperrors.Internal(err, "failed to retrieve customer")
	}
	return &customer, nil
}

// TRANSACTIONS

// CreateSalesTransaction inserts a completed sale and its line items in one
// transaction. Monetary totals are taken from the caller as entered at the till.
func (s *Service) CreateSalesTransaction(req *CreateSalesTransactionRequest, cashierID uint) (*SalesTransaction, error) {
	if req.CustomerID != nil {
		if _, err := s.GetCustomerByID(*req.CustomerID); err != nil {
			return nil, err
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	transaction := &SalesTransaction{
		CustomerID:      req.CustomerID,
		CashierID:       cashierID,
		TransactionType: req.TransactionType,
		Status:          TransactionStatusCompleted,
		Subtotal:        req.Subtotal,
		TaxAmount:       req.TaxAmount,
		DiscountAmount:  req.DiscountAmount,
		TotalAmount:     req.TotalAmount,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}

	if err := tx.Create(transaction).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Internal(err, "failed to create sales transaction")
	}

	for _, item := range req.Items {
		transactionItem := &SalesTransactionItem{
			TransactionID: transaction.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			TotalPrice:    item.TotalPrice,
		}
		if err := tx.Create(transactionItem).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Internal(err, "failed to create sales transaction item")
		}
		transaction.Items = append(transaction.Items, *transactionItem)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Internal(err, "failed to commit sales transaction")
	}

	return transaction, nil
}

// GetSalesTransactions retrieves all sales transactions with items
func (s *Service) GetSalesTransactions() ([]SalesTransaction, error) {
	var transactions []SalesTransaction
	if err := s.db.Preload("Items").Order("id").Find(&transactions).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to retrieve sales transactions")
	}
	return transactions, nil
}

// GetSalesTransactionByID retrieves a sales transaction with items
func (s *Service) GetSalesTransactionByID(id uint) (*SalesTransaction, error) {
	var transaction SalesTransaction
	if err := s.db.Preload("Items").Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("transaction not found")
		}
		return nil, apperrors.Internal(err, "failed to retrieve sales transaction")
	}
	return &transaction, nil
}

// ProcessSalesReturn marks a transaction RETURNED and appends the reason to
// its notes
func (s *Service) ProcessSalesReturn(id uint, reason string) (*SalesTransaction, error) {
	transaction, err := s.GetSalesTransactionByID(id)
	if err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("Return: %s", reason)
	if transaction.Notes != nil && *transaction.Notes != "" {
		notes = fmt.Sprintf("%s; %s", *transaction.Notes, notes)
	}

	updates := map[string]interface{}{
		"status": TransactionStatusReturned,
		"notes":  notes,
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to process sales return")
	}

	return s.GetSalesTransactionByID(transaction.ID)
}

// RECEIPT

// GetSalesTransactionForReceipt retrieves a transaction with the item
// products loaded, as printable receipts and PDFs need them.
func (s *Service) GetSalesTransactionForReceipt(id uint) (*SalesTransaction, error) {
	var transaction SalesTransaction
	err := s.db.Preload("Items").Preload("Items.Product").Where("id = ?", id).First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("transaction not found")
		}
		return nil, apperrors.Internal(err, "failed to retrieve sales transaction")
	}
	return &transaction, nil
}

// PrintReceipt renders the plain-text receipt for a transaction
func (s *Service) PrintReceipt(id uint) (string, error) {
	transaction, err := s.GetSalesTransactionForReceipt(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("=== RECEIPT ===\n")
	b.WriteString(fmt.Sprintf("%s\n", s.config.App.CompanyName))
	b.WriteString(fmt.Sprintf("Transaction ID: %d\n", transaction.ID))
	b.WriteString(fmt.Sprintf("Date: %s\n", transaction.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Payment Method: %s\n", transaction.PaymentMethod))
	b.WriteString("---\n")
	for _, item := range transaction.Items {
		b.WriteString(fmt.Sprintf("%s (%s) x%d @ $%s = $%s\n",
			item.Product.Name,
			item.Product.SKU,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			item.TotalPrice.StringFixed(2)))
	}
	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("Subtotal: $%s\n", transaction.Subtotal.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Tax: $%s\n", transaction.TaxAmount.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Discount: $%s\n", transaction.DiscountAmount.StringFixed(2)))
	b.WriteString(fmt.Sprintf("TOTAL: $%s\n", transaction.TotalAmount.StringFixed(2)))
	b.WriteString("Thank you for your business!\n")

	return b.String(), nil
}

// REPORTING

// GetSalesReport aggregates completed transactions in the date range, ranking
// the top 10 products by quantity and grouping totals per cashier. A range
// with no matching transactions yields an all-zero report.
func (s *Service) GetSalesReport(req *SalesReportRequest) (*SalesReport, error) {
	query := s.db.Preload("Items").Preload("Items.Product").
		Where("status = ?", TransactionStatusCompleted).
		Where("created_at >= ? AND created_at <= ?", req.StartDate, req.EndDate)
	if req.CashierID != nil {
		query = query.Where("cashier_id = ?", *req.CashierID)
	}
	if req.TransactionType != nil {
		query = query.Where("transaction_type = ?", *req.TransactionType)
	}

	var transactions []SalesTransaction
	if err := query.Order("id").Find(&transactions).Error; err != nil {
		return nil, apperrors.Internal(err, "failed to build sales report")
	}

	report := &SalesReport{
		Period:             ReportPeriod{StartDate: req.StartDate, EndDate: req.EndDate},
		TotalSales:         decimal.Zero,
		AverageTransaction: decimal.Zero,
		TopProducts:        []TopProduct{},
		CashierPerformance: []CashierPerformance{},
	}

	productTotals := map[uint]*TopProduct{}
	var productOrder []uint
	cashierTotals := map[uint]*CashierPerformance{}
	var cashierOrder []uint

	for _, transaction := range transactions {
		report.TotalTransactions++
		report.TotalSales = report.TotalSales.Add(transaction.TotalAmount)

		perf, ok := cashierTotals[transaction.CashierID]
		if !ok {
			perf = &CashierPerformance{CashierID: transaction.CashierID, TotalSales: decimal.Zero}
			cashierTotals[transaction.CashierID] = perf
			cashierOrder = append(cashierOrder, transaction.CashierID)
		}
		perf.TotalSales = perf.TotalSales.Add(transaction.TotalAmount)
		perf.TotalTransactions++

		for _, item := range transaction.Items {
			top, ok := productTotals[item.ProductID]
			if !ok {
				top = &TopProduct{
					ProductID:    item.ProductID,
					ProductName:  item.Product.Name,
					TotalRevenue: decimal.Zero,
				}
				productTotals[item.ProductID] = top
				productOrder = append(productOrder, item.ProductID)
			}
			top.TotalQuantity += item.Quantity
			top.TotalRevenue = top.TotalRevenue.Add(item.TotalPrice)
		}
	}

	if report.TotalTransactions > 0 {
		report.AverageTransaction = report.TotalSales.Div(decimal.NewFromInt(int64(report.TotalTransactions)))
	}

	for _, id := range productOrder {
		report.TopProducts = append(report.TopProducts, *productTotals[id])
	}
	sort.SliceStable(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].TotalQuantity > report.TopProducts[j].TotalQuantity
	})
	if len(report.TopProducts) > 10 {
		report.TopProducts = report.TopProducts[:10]
	}

	for _, id := range cashierOrder {
		report.CashierPerformance = append(report.CashierPerformance, *cashierTotals[id])
	}

	return report, nil
}
