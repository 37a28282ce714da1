// internal/interfaces/http/handlers/sales.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/sales"
	"github.com/your-org/retail-backend/internal/interfaces/http/middleware"
	"github.com/your-org/retail-backend/internal/pkg/receipt"
	"gorm.io/gorm"
)

// SalesHandler handles customer and sales transaction endpoints
type SalesHandler struct {
	salesService   *sales.Service
	receiptService *receipt.Service
	config         *config.Config
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(db *gorm.DB, cfg *config.Config) *SalesHandler {
	return &SalesHandler{
		salesService:   sales.NewService(db, cfg),
		receiptService: receipt.NewService(cfg),
		config:         cfg,
	}
}

// CreateCustomer handles POST /customers
func (h *SalesHandler) CreateCustomer(c *gin.Context) {
	var req sales.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	customer, err := h.salesService.CreateCustomer(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Customer created successfully",
		"data":    customer,
	})
}

// GetCustomers handles GET /customers
func (h *SalesHandler) GetCustomers(c *gin.Context) {
	customers, err := h.salesService.GetCustomers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customers retrieved successfully",
		"data":    customers,
	})
}

// GetCustomer handles GET /customers/:id
func (h *SalesHandler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.salesService.GetCustomerByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer retrieved successfully",
		"data":    customer,
	})
}

// CreateSalesTransaction handles POST /sales
func (h *SalesHandler) CreateSalesTransaction(c *gin.Context) {
	cashierID, _ := middleware.GetUserIDFromContext(c)

	var req sales.CreateSalesTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	transaction, err := h.salesService.CreateSalesTransaction(&req, cashierID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sales transaction created successfully",
		"data":    transaction,
	})
}

// GetSalesTransactions handles GET /sales
func (h *SalesHandler) GetSalesTransactions(c *gin.Context) {
	transactions, err := h.salesService.GetSalesTransactions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales transactions retrieved successfully",
		"data":    transactions,
	})
}

// GetSalesTransaction handles GET /sales/:id
func (h *SalesHandler) GetSalesTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	transaction, err := h.salesService.GetSalesTransactionByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales transaction retrieved successfully",
		"data":    transaction,
	})
}

// ProcessSalesReturn handles POST /sales/:id/return
func (h *SalesHandler) ProcessSalesReturn(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Return reason is required",
		})
		return
	}

	transaction, err := h.salesService.ProcessSalesReturn(id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales return processed successfully",
		"data":    transaction,
	})
}

// PrintReceipt handles GET /sales/:id/receipt
func (h *SalesHandler) PrintReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	text, err := h.salesService.PrintReceipt(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt generated successfully",
		"data":    gin.H{"receipt": text},
	})
}

// DownloadReceiptPDF handles GET /sales/:id/receipt/pdf
func (h *SalesHandler) DownloadReceiptPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	transaction, err := h.salesService.GetSalesTransactionForReceipt(id)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.receiptService.GenerateReceiptPDF(transaction)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt PDF",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=receipt.pdf")
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

// GetSalesReport handles POST /reports/sales
func (h *SalesHandler) GetSalesReport(c *gin.Context) {
	var req sales.SalesReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	report, err := h.salesService.GetSalesReport(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales report generated successfully",
		"data":    report,
	})
}
