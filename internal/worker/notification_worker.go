package worker

// notification_worker.go
// Emails the counterparty of a committed order, with the order receipt
// attached as PDF.

import (
	"context"
	"encoding/json"
	"fmt"

	"retailing/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotificationPayload is the job body for JobOrderNotification.
type NotificationPayload struct {
	ToEmail string            `json:"to_email"`
	Subject string            `json:"subject"`
	Body    string            `json:"body"`
	Receipt infra.ReceiptData `json:"receipt"`
}

// Sender is the outbound mail transport; *infra.Mailer satisfies it.
type Sender interface {
	Send(to, subject, body string, attachments ...infra.Attachment) error
}

type NotificationWorker struct {
	sender Sender
}

func NewNotificationWorker(sender Sender) *NotificationWorker {
	return &NotificationWorker{sender: sender}
}

// Process renders the receipt and sends the message. Malformed payloads are
// dropped without retry; transport errors are returned so the pool retries.
func (w *NotificationWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload NotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Uint("order_id", payload.Receipt.OrderID).Msg("notification_worker: empty to_email, skipping")
		return nil
	}

	pdf, err := infra.RenderOrderReceipt(payload.Receipt)
	if err != nil {
		return err
	}
	attachment := infra.Attachment{
		Name:        fmt.Sprintf("order_%d.pdf", payload.Receipt.OrderID),
		ContentType: "application/pdf",
		Data:        pdf,
	}
	if err := w.sender.Send(payload.ToEmail, payload.Subject, payload.Body, attachment); err != nil {
		return fmt.Errorf("notification_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Uint("order_id", payload.Receipt.OrderID).Msg("notification_worker: sent")
	return nil
}
