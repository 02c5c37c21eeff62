package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// BookingSummary is the payload handed to the confirmation email dispatcher.
// The dispatcher renders the QR code from Reference itself; the core never
// produces an image.
type BookingSummary struct {
	Reference   string   `json:"reference"`
	TripTitle   string   `json:"trip_title"`
	Location    string   `json:"location"`
	DateRange   string   `json:"date_range,omitempty"`
	Travelers   []string `json:"travelers"`
	TotalAmount float64  `json:"total_amount"`
}

// Mailer is the confirmation-email collaborator. Send failures are always
// best-effort for callers: logged, surfaced as a warning, never rolled into
// the primary operation's result.
type Mailer interface {
	Send(ctx context.Context, recipientEmail string, summary BookingSummary) error
}

// WebhookMailer posts booking summaries to the external dispatch endpoint.
// The endpoint owns rendering (HTML, embedded QR) and actual delivery.
type WebhookMailer struct {
	url    string
	client *http.Client
}

// NewWebhookMailer constructs a WebhookMailer for the given dispatch URL.
func NewWebhookMailer(url string) *WebhookMailer {
	return &WebhookMailer{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the summary as JSON. Any non-2xx response is an error.
func (m *WebhookMailer) Send(ctx context.Context, recipientEmail string, summary BookingSummary) error {
	payload := struct {
		Recipient string         `json:"recipient"`
		Booking   BookingSummary `json:"booking"`
	}{Recipient: recipientEmail, Booking: summary}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("service.WebhookMailer.Send: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("service.WebhookMailer.Send: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("service.WebhookMailer.Send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("service.WebhookMailer.Send: dispatcher returned %s", resp.Status)
	}
	return nil
}

// NopMailer is used when no dispatch URL is configured. It logs at debug so
// local environments can see what would have been sent.
type NopMailer struct {
	Log *slog.Logger
}

// Send records the would-be dispatch and succeeds.
func (m NopMailer) Send(_ context.Context, recipientEmail string, summary BookingSummary) error {
	if m.Log != nil {
		m.Log.Debug("email dispatch disabled",
			"recipient", recipientEmail,
			"reference", summary.Reference,
		)
	}
	return nil
}
