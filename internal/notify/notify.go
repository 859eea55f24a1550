// Package notify sends outbound webhooks: the submission notification
// to the downstream system and best-effort diagnostics to the alerting
// sink. Neither ever fails a request.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Recipient identifies who the downstream system should contact about
// a submission.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubmissionEvent is the payload sent when a purchase order lands.
type SubmissionEvent struct {
	DealID     string     `json:"dealId"`
	DealName   string     `json:"dealName"`
	QuoteTitle string     `json:"quoteTitle,omitempty"`
	FileName   string     `json:"fileName"`
	FileURL    string     `json:"fileUrl"`
	Recipient  *Recipient `json:"recipient,omitempty"`
	CC         *Recipient `json:"cc,omitempty"`
}

// Webhook posts submission events to the notification sink. With await
// unset the post is detached and its outcome only logged; deployments
// that tear the process down right after responding must await.
type Webhook struct {
	url    string
	await  bool
	client *http.Client
}

func NewWebhook(url string, await bool) *Webhook {
	return &Webhook{
		url:    url,
		await:  await,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SubmissionReceived delivers the event per the configured policy. The
// returned error is informational; callers log it and move on.
func (w *Webhook) SubmissionReceived(ctx context.Context, event SubmissionEvent) error {
	if w.url == "" {
		return nil
	}

	if w.await {
		return w.send(ctx, event)
	}

	go func() {
		if err := w.send(context.WithoutCancel(ctx), event); err != nil {
			slog.Error("submission notification failed", "dealId", event.DealID, "error", err)
		}
	}()

	return nil
}

func (w *Webhook) send(ctx context.Context, event SubmissionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification sink returned status %d", resp.StatusCode)
	}

	return nil
}

type alertEvent struct {
	EventID   string `json:"eventId"`
	System    string `json:"system"`
	Endpoint  string `json:"endpoint"`
	DealID    string `json:"dealId,omitempty"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Reporter emits diagnostics to the alerting sink. Every report is
// fire-and-forget: it never blocks the response, never returns an
// error, and swallows its own failures.
type Reporter struct {
	url    string
	system string
	client *http.Client
}

func NewReporter(url, system string) *Reporter {
	return &Reporter{
		url:    url,
		system: system,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Report submits one diagnostic event and returns immediately.
func (r *Reporter) Report(ctx context.Context, endpoint, dealID string, cause error) {
	if r.url == "" || cause == nil {
		return
	}

	event := alertEvent{
		EventID:   uuid.NewString(),
		System:    r.system,
		Endpoint:  endpoint,
		DealID:    dealID,
		Error:     cause.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	go func() {
		if err := r.send(context.WithoutCancel(ctx), event); err != nil {
			slog.Warn("alert delivery failed", "endpoint", endpoint, "error", err)
		}
	}()
}

func (r *Reporter) send(ctx context.Context, event alertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert sink returned status %d", resp.StatusCode)
	}

	return nil
}
