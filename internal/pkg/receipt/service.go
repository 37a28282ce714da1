// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/retail-backend/internal/config"
	"github.com/your-org/retail-backend/internal/domain/sales"
	"github.com/your-org/retail-backend/internal/domain/shipping"
)

// Service handles PDF generation for receipts and shipping labels
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceiptPDF renders a sales transaction as a printable PDF receipt
func (s *Service) GenerateReceiptPDF(transaction *sales.SalesTransaction) (*bytes.Buffer, error) {
	items := make([]receiptItem, 0, len(transaction.Items))
	for _, item := range transaction.Items {
		items = append(items, receiptItem{
			Name:      item.Product.Name,
			SKU:       item.Product.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Total:     item.TotalPrice.StringFixed(2),
		})
	}

	data := receiptData{
		TransactionID: transaction.ID,
		Date:          transaction.CreatedAt.Format("January 2, 2006 15:04"),
		PaymentMethod: transaction.PaymentMethod,
		Items:         items,
		Subtotal:      transaction.Subtotal.StringFixed(2),
		Tax:           transaction.TaxAmount.StringFixed(2),
		Discount:      transaction.DiscountAmount.StringFixed(2),
		Total:         transaction.TotalAmount.StringFixed(2),
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
		},
	}

	htmlContent, err := renderTemplate("receipt", receiptTemplate, data)
	if err != nil {
		return nil, err
	}

	return htmlToPDF(htmlContent)
}

// GenerateLabelPDF renders a shipping label as a printable PDF
func (s *Service) GenerateLabelPDF(label *shipping.ShippingLabel) (*bytes.Buffer, error) {
	data := labelData{
		Label: label,
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
		},
		GeneratedAt: time.Now().Format("January 2, 2006 15:04"),
	}

	htmlContent, err := renderTemplate("label", labelTemplate, data)
	if err != nil {
		return nil, err
	}

	return htmlToPDF(htmlContent)
}

// renderTemplate executes an HTML template into a string
func renderTemplate(name, text string, data interface{}) (string, error) {
	tmpl := template.Must(template.New(name).Parse(text))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// htmlToPDF converts rendered HTML into PDF bytes
func htmlToPDF(htmlContent string) (*bytes.Buffer, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// CompanyInfo represents company information shown on printed documents
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type receiptItem struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice string
	Total     string
}

type receiptData struct {
	TransactionID uint
	Date          string
	PaymentMethod string
	Items         []receiptItem
	Subtotal      string
	Tax           string
	Discount      string
	Total         string
	Company       CompanyInfo
}

type labelData struct {
	Label       *shipping.ShippingLabel
	Company     CompanyInfo
	GeneratedAt string
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt #{{.TransactionID}}</title>
    <style>
        body {
            font-family: "Courier New", monospace;
            margin: 0;
            padding: 20px;
            color: #111;
            max-width: 400px;
        }
        .header {
            text-align: center;
            border-bottom: 1px dashed #333;
            padding-bottom: 10px;
            margin-bottom: 10px;
        }
        .header h1 {
            font-size: 18px;
            margin: 0 0 4px 0;
        }
        .header p {
            font-size: 11px;
            margin: 2px 0;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            font-size: 12px;
        }
        th, td {
            text-align: left;
            padding: 3px 2px;
        }
        td.amount, th.amount {
            text-align: right;
        }
        .totals {
            border-top: 1px dashed #333;
            margin-top: 8px;
            padding-top: 8px;
        }
        .totals .grand {
            font-weight: bold;
            font-size: 14px;
        }
        .footer {
            text-align: center;
            margin-top: 14px;
            font-size: 11px;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Company.Name}}</h1>
        <p>{{.Company.Address}}</p>
        <p>{{.Company.Phone}} | {{.Company.Email}}</p>
        <p>Receipt #{{.TransactionID}} - {{.Date}}</p>
        <p>Payment: {{.PaymentMethod}}</p>
    </div>
    <table>
        <tr><th>Item</th><th>Qty</th><th class="amount">Price</th><th class="amount">Total</th></tr>
        {{range .Items}}
        <tr>
            <td>{{.Name}} ({{.SKU}})</td>
            <td>{{.Quantity}}</td>
            <td class="amount">{{.UnitPrice}}</td>
            <td class="amount">{{.Total}}</td>
        </tr>
        {{end}}
    </table>
    <table class="totals">
        <tr><td>Subtotal</td><td class="amount">{{.Subtotal}}</td></tr>
        <tr><td>Tax</td><td class="amount">{{.Tax}}</td></tr>
        <tr><td>Discount</td><td class="amount">{{.Discount}}</td></tr>
        <tr class="grand"><td>TOTAL</td><td class="amount">{{.Total}}</td></tr>
    </table>
    <div class="footer">
        <p>Thank you for your business!</p>
    </div>
</body>
</html>
`

// Shipping label HTML template
const labelTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Shipping Label</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 24px;
            color: #111;
        }
        .label {
            border: 2px solid #111;
            padding: 16px;
            max-width: 480px;
        }
        .sender {
            font-size: 11px;
            border-bottom: 1px solid #111;
            padding-bottom: 8px;
            margin-bottom: 12px;
        }
        .recipient {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 12px;
            white-space: pre-line;
        }
        .meta {
            font-size: 12px;
        }
        .tracking {
            font-size: 20px;
            font-family: "Courier New", monospace;
            letter-spacing: 1px;
            margin-top: 12px;
        }
    </style>
</head>
<body>
    <div class="label">
        <div class="sender">
            {{.Company.Name}} - {{.Company.Address}} - {{.Company.Phone}}
        </div>
        <div class="recipient">{{.Label.Address}}</div>
        <div class="meta">
            <div>Shipment #{{.Label.ShippingID}} / Transaction #{{.Label.TransactionID}}</div>
            <div>Carrier: {{.Label.Carrier}}</div>
            <div>Printed: {{.GeneratedAt}}</div>
        </div>
        <div class="tracking">{{.Label.TrackingNumber}}</div>
    </div>
</body>
</html>
`
