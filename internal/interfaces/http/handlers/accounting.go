// internal/interfaces/http/handlers/accounting.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/accounting"
	"gorm.io/gorm"
)

// AccountingHandler handles receivables, payables and commission endpoints
type AccountingHandler struct {
	accountingService *accounting.Service
	config            *config.Config
}

// NewAccountingHandler creates a new accounting handler
func NewAccountingHandler(db *gorm.DB, cfg *config.Config) *AccountingHandler {
	return &AccountingHandler{
		accountingService: accounting.NewService(db, cfg),
		config:            cfg,
	}
}

// CreateReceivable handles POST /accounting/receivables
func (h *AccountingHandler) CreateReceivable(c *gin.Context) {
	var req accounting.CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.accountingService.CreateReceivable(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Receivable created successfully",
		"data":    record,
	})
}

// GetReceivables handles GET /accounting/receivables
func (h *AccountingHandler) GetReceivables(c *gin.Context) {
	records, err := h.accountingService.GetReceivables()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receivables retrieved successfully",
		"data":    records,
	})
}

// GetOverdueReceivables handles GET /accounting/receivables/overdue
func (h *AccountingHandler) GetOverdueReceivables(c *gin.Context) {
	records, err := h.accountingService.GetOverdueReceivables()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Overdue receivables retrieved successfully",
		"data":    records,
	})
}

// MarkReceivablePaid handles PUT /accounting/receivables/:id/pay
func (h *AccountingHandler) MarkReceivablePaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.accountingService.MarkReceivablePaid(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receivable marked as paid",
		"data":    record,
	})
}

// CreatePayable handles POST /accounting/payables
func (h *AccountingHandler) CreatePayable(c *gin.Context) {
	var req accounting.CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.accountingService.CreatePayable(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payable created successfully",
		"data":    record,
	})
}

// GetPayables handles GET /accounting/payables
func (h *AccountingHandler) GetPayables(c *gin.Context) {
	records, err := h.accountingService.GetPayables()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payables retrieved successfully",
		"data":    records,
	})
}

// GetOverduePayables handles GET /accounting/payables/overdue
func (h *AccountingHandler) GetOverduePayables(c *gin.Context) {
	records, err := h.accountingService.GetOverduePayables()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Overdue payables retrieved successfully",
		"data":    records,
	})
}

// MarkPayablePaid handles PUT /accounting/payables/:id/pay
func (h *AccountingHandler) MarkPayablePaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.accountingService.MarkPayablePaid(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payable marked as paid",
		"data":    record,
	})
}

// CalculateCommissions handles POST /accounting/commissions/calculate
func (h *AccountingHandler) CalculateCommissions(c *gin.Context) {
	var req accounting.CalculateCommissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	commissions, err := h.accountingService.CalculateCommissions(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Commissions calculated successfully",
		"data":    commissions,
	})
}

// GetCommissions handles GET /accounting/commissions
func (h *AccountingHandler) GetCommissions(c *gin.Context) {
	commissions, err := h.accountingService.GetCommissions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Commissions retrieved successfully",
		"data":    commissions,
	})
}

// GetUnpaidCommissions handles GET /accounting/commissions/unpaid
func (h *AccountingHandler) GetUnpaidCommissions(c *gin.Context) {
	commissions, err := h.accountingService.GetUnpaidCommissions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unpaid commissions retrieved successfully",
		"data":    commissions,
	})
}

// MarkCommissionPaid handles PUT /accounting/commissions/:id/pay
func (h *AccountingHandler) MarkCommissionPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	commission, err := h.accountingService.MarkCommissionPaid(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Commission marked as paid",
		"data":    commission,
	})
}
