// internal/pkg/pdf/invoice.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/framecraft/storefront-backend/internal/domain/order"
	"github.com/framecraft/storefront-backend/internal/domain/settings"
)

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; color: #222; font-size: 13px; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .header h1 { margin: 0; font-size: 22px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; border-bottom: 2px solid #333; padding: 6px; }
  td { border-bottom: 1px solid #ddd; padding: 6px; }
  .right { text-align: right; }
  .totals td { border: none; padding: 3px 6px; }
  .grand { font-weight: bold; border-top: 2px solid #333; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <h1>{{.StoreName}}</h1>
      <p>Tax Invoice</p>
    </div>
    <div class="right">
      <p><strong>Invoice:</strong> {{.Order.OrderNumber}}<br>
      <strong>Date:</strong> {{.Order.CreatedAt.Format "02 Jan 2006"}}<br>
      <strong>Payment:</strong> {{.PaymentLabel}}</p>
    </div>
  </div>

  <p><strong>Billed to:</strong><br>
  {{.Order.CustomerName}}<br>
  {{.Order.ShippingAddress.AddressLine1}}{{if .Order.ShippingAddress.AddressLine2}}, {{.Order.ShippingAddress.AddressLine2}}{{end}}<br>
  {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.PostalCode}}</p>

  <table>
    <thead>
      <tr><th>Item</th><th class="right">Unit Price</th><th class="right">Qty</th><th class="right">Amount</th></tr>
    </thead>
    <tbody>
      {{range .Order.Items}}
      <tr>
        <td>{{.Name}}</td>
        <td class="right">{{money $.Symbol .Price}}</td>
        <td class="right">{{.Quantity}}</td>
        <td class="right">{{money $.Symbol .TotalPrice}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals" style="width: 40%; margin-left: auto;">
    <tr><td>Subtotal</td><td class="right">{{money .Symbol .Order.SubtotalAmount}}</td></tr>
    {{if gt .Order.DiscountAmount 0}}
    <tr><td>Discount{{if .Order.PromoCode}} ({{.Order.PromoCode}}){{end}}</td><td class="right">-{{money .Symbol .Order.DiscountAmount}}</td></tr>
    {{end}}
    <tr><td>Tax ({{printf "%g" .TaxRatePercent}}%)</td><td class="right">{{money .Symbol .Order.TaxAmount}}</td></tr>
    <tr><td>Shipping</td><td class="right">{{money .Symbol .Order.ShippingAmount}}</td></tr>
    <tr class="grand"><td>Total</td><td class="right">{{money .Symbol .Order.TotalAmount}}</td></tr>
  </table>
</body>
</html>`

// Generator renders order invoices as PDF
type Generator struct {
	tmpl *template.Template
}

// NewGenerator creates an invoice generator
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("invoice").
		Funcs(template.FuncMap{
			"money": func(symbol string, minor int64) string {
				return fmt.Sprintf("%s%.2f", symbol, float64(minor)/100)
			},
		}).
		Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

type invoiceData struct {
	Order          *order.Order
	StoreName      string
	Symbol         string
	PaymentLabel   string
	TaxRatePercent float64
}

// RenderHTML produces the invoice HTML for an order
func (g *Generator) RenderHTML(o *order.Order, business *settings.BusinessSettings) (string, error) {
	label := "Cash on Delivery"
	if o.PaymentMethod == order.PaymentOnline {
		label = "Paid Online"
	}
	var buf bytes.Buffer
	err := g.tmpl.Execute(&buf, &invoiceData{
		Order:          o,
		StoreName:      business.StoreName,
		Symbol:         business.CurrencySymbol,
		PaymentLabel:   label,
		TaxRatePercent: business.TaxRatePercent,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.String(), nil
}

// Generate renders the invoice HTML and converts it to PDF.
// Requires the wkhtmltopdf binary on the host.
func (g *Generator) Generate(o *order.Order, business *settings.BusinessSettings) ([]byte, error) {
	html, err := g.RenderHTML(o, business)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pdf generator: %w", err)
	}
	pdfg.Dpi.Set(150)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(html)))
	page.EnableLocalFileAccess.Set(false)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate invoice pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
