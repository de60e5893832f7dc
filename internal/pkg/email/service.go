// internal/pkg/email/service.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/framecraft/storefront-backend/internal/config"
	"github.com/framecraft/storefront-backend/internal/domain/order"
)

// Service sends transactional email through the configured provider
type Service struct {
	config      *config.Config
	httpClient  *http.Client
	tmpl        *template.Template
	contactTmpl *template.Template
}

// NewService creates a new email service
func NewService(cfg *config.Config) (*Service, error) {
	tmpl, err := template.New("order_confirmation").
		Funcs(template.FuncMap{"money": formatMoney}).
		Parse(orderConfirmationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	contactTmpl, err := template.New("contact_ack").Parse(contactAckTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	return &Service{
		config:      cfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		tmpl:        tmpl,
		contactTmpl: contactTmpl,
	}, nil
}

// confirmationData is the template context for the order confirmation mail
type confirmationData struct {
	*order.Order
	PaymentLabel string
	StoreName    string
}

// SendOrderConfirmation emails the customer their order summary
func (s *Service) SendOrderConfirmation(o *order.Order) error {
	label := "Cash on Delivery"
	if o.PaymentMethod == order.PaymentOnline {
		label = "Paid Online"
	}

	html, err := s.render(&confirmationData{
		Order:        o,
		PaymentLabel: label,
		StoreName:    s.config.External.Email.FromName,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Order confirmation %s", o.OrderNumber)
	return s.send(o.Email, subject, html)
}

// SendContactAcknowledgement confirms receipt of a contact form message
func (s *Service) SendContactAcknowledgement(to, name, message string) error {
	var buf bytes.Buffer
	err := s.contactTmpl.Execute(&buf, map[string]string{
		"Name":      name,
		"Message":   message,
		"StoreName": s.config.External.Email.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}
	return s.send(to, "We received your message", buf.String())
}

func (s *Service) render(data *confirmationData) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

// send dispatches through the configured provider. The "log" provider is
// for development without mail credentials.
func (s *Service) send(to, subject, htmlBody string) error {
	switch s.config.External.Email.Provider {
	case "smtp":
		return s.sendSMTP(to, subject, htmlBody)
	case "resend":
		return s.sendResend(to, subject, htmlBody)
	case "log":
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email suppressed (log provider)")
		return nil
	default:
		return fmt.Errorf("unknown email provider: %s", s.config.External.Email.Provider)
	}
}

func (s *Service) sendSMTP(to, subject, htmlBody string) error {
	cfg := s.config.External.Email
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is not configured")
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", cfg.FromName, cfg.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, cfg.FromEmail, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

func (s *Service) sendResend(to, subject, htmlBody string) error {
	cfg := s.config.External.Email
	payload := map[string]interface{}{
		"from":    fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend returned status %d", resp.StatusCode)
	}
	return nil
}

// formatMoney renders minor currency units as a major-unit amount
func formatMoney(minor int64) string {
	return fmt.Sprintf("₹%.2f", float64(minor)/100)
}
