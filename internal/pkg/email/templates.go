// internal/pkg/email/templates.go
package email

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2>Thank you for your order, {{.CustomerName}}!</h2>
  <p>Your order <strong>{{.OrderNumber}}</strong> has been received.</p>

  <table style="width: 100%; border-collapse: collapse;">
    <thead>
      <tr style="border-bottom: 2px solid #ddd; text-align: left;">
        <th style="padding: 8px;">Item</th>
        <th style="padding: 8px;">Qty</th>
        <th style="padding: 8px; text-align: right;">Price</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 8px;">{{.Name}}</td>
        <td style="padding: 8px;">{{.Quantity}}</td>
        <td style="padding: 8px; text-align: right;">{{money .TotalPrice}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table style="width: 100%; margin-top: 16px;">
    <tr><td>Subtotal</td><td style="text-align: right;">{{money .SubtotalAmount}}</td></tr>
    {{if gt .DiscountAmount 0}}
    <tr><td>Discount{{if .PromoCode}} ({{.PromoCode}}){{end}}</td><td style="text-align: right;">-{{money .DiscountAmount}}</td></tr>
    {{end}}
    <tr><td>Tax</td><td style="text-align: right;">{{money .TaxAmount}}</td></tr>
    <tr><td>Shipping</td><td style="text-align: right;">{{if gt .ShippingAmount 0}}{{money .ShippingAmount}}{{else}}Free{{end}}</td></tr>
    <tr style="font-weight: bold; border-top: 2px solid #ddd;">
      <td style="padding-top: 8px;">Total</td>
      <td style="text-align: right; padding-top: 8px;">{{money .TotalAmount}}</td>
    </tr>
  </table>

  <p style="margin-top: 16px;">
    Payment method: <strong>{{.PaymentLabel}}</strong><br>
    Shipping to: {{.ShippingAddress.AddressLine1}}, {{.ShippingAddress.City}} {{.ShippingAddress.PostalCode}}
  </p>

  <p>You can check your order status any time using your order number and email address.</p>
  <p style="color: #888; font-size: 12px;">{{.StoreName}}</p>
</body>
</html>`

const contactAckTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <h2>We received your message, {{.Name}}</h2>
  <p>Thanks for getting in touch. Our team will get back to you within one business day.</p>
  <p style="background: #f6f6f6; padding: 12px; border-radius: 4px; white-space: pre-wrap;">{{.Message}}</p>
  <p style="color: #888; font-size: 12px;">{{.StoreName}}</p>
</body>
</html>`
