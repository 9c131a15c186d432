// Package notification renders outbound email payloads and queues them for
// the external mail collaborator. Nothing in here sends mail; delivery,
// bounces and retries happen outside the system.
package notification

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/boothledger/backend/internal/application/rental"
)

const receiptBodyTemplate = `Hi {{.RenterName}},

Here is your receipt from {{.BusinessName}}.

Receipt:  {{.ReceiptNumber}}
Paid:     {{.AmountPaid}}{{if .Methods}} ({{.Methods}}){{end}}
Balance:  {{.Balance}}
Date:     {{.IssuedDate}}
{{if .FooterNote}}
{{.FooterNote}}
{{end}}`

const reminderBodyTemplate = `Hi {{.RenterName}},

This is a reminder from {{.BusinessName}} that your {{.ChargeLabel}} of {{.AmountDue}} is due on {{.DueDate}}.
{{if .Station}}
Station: {{.Station}}
{{end}}
Thank you!`

const dateLayout = "Jan 2, 2006"

// TextTemplateRenderer renders mail payloads from plain-text templates
type TextTemplateRenderer struct {
	fromName string
	receipt  *template.Template
	reminder *template.Template
}

// NewTextTemplateRenderer creates a renderer with the built-in templates
func NewTextTemplateRenderer(fromName string) (*TextTemplateRenderer, error) {
	receipt, err := template.New("receipt").Parse(receiptBodyTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}
	reminder, err := template.New("reminder").Parse(reminderBodyTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reminder template: %w", err)
	}
	return &TextTemplateRenderer{
		fromName: fromName,
		receipt:  receipt,
		reminder: reminder,
	}, nil
}

// RenderReceipt renders the receipt email for a payment
func (r *TextTemplateRenderer) RenderReceipt(data rental.ReceiptEmailData) (rental.MailMessage, error) {
	var buf bytes.Buffer
	err := r.receipt.Execute(&buf, map[string]string{
		"RenterName":    data.RenterName,
		"BusinessName":  data.BusinessName,
		"ReceiptNumber": data.ReceiptNumber,
		"AmountPaid":    data.AmountPaid.String(),
		"Methods":       data.Methods,
		"Balance":       data.Balance.String(),
		"IssuedDate":    data.IssuedAt.Format(dateLayout),
		"FooterNote":    data.FooterNote,
	})
	if err != nil {
		return rental.MailMessage{}, fmt.Errorf("failed to render receipt email: %w", err)
	}

	return rental.MailMessage{
		To:      data.RenterEmail,
		Subject: fmt.Sprintf("Receipt %s from %s", data.ReceiptNumber, data.BusinessName),
		Body:    buf.String(),
		ReceiptSummary: &rental.ReceiptSummary{
			ReceiptNumber: data.ReceiptNumber,
			Methods:       data.Methods,
			TotalPaid:     data.AmountPaid.String(),
			Balance:       data.Balance.String(),
			IssuedAt:      data.IssuedAt.Format(time.RFC3339),
		},
	}, nil
}

// RenderReminder renders the rent reminder email
func (r *TextTemplateRenderer) RenderReminder(data rental.ReminderEmailData) (rental.MailMessage, error) {
	chargeLabel := data.ChargeLabel
	if chargeLabel == "" {
		chargeLabel = "booth rent"
	}

	var buf bytes.Buffer
	err := r.reminder.Execute(&buf, map[string]string{
		"RenterName":   data.RenterName,
		"BusinessName": data.BusinessName,
		"ChargeLabel":  chargeLabel,
		"AmountDue":    data.AmountDue.String(),
		"DueDate":      data.DueDate.Format(dateLayout),
		"Station":      data.Station,
	})
	if err != nil {
		return rental.MailMessage{}, fmt.Errorf("failed to render reminder email: %w", err)
	}

	return rental.MailMessage{
		To:      data.RenterEmail,
		Subject: fmt.Sprintf("Rent reminder from %s", data.BusinessName),
		Body:    buf.String(),
	}, nil
}

// Ensure TextTemplateRenderer implements TemplateRenderer
var _ rental.TemplateRenderer = (*TextTemplateRenderer)(nil)
