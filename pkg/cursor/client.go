// Package cursor provides a client for the Cursor dashboard billing API.
package cursor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/emreakca/cursorwatch/pkg/model"
)

const (
	// DefaultBaseURL is the production dashboard API root.
	DefaultBaseURL = "https://cursor.com/api"

	requestTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // 1 MB

	sessionCookie = "WorkosCursorSessionToken"
)

// ErrUnauthorized indicates the session token is expired or invalid.
// It is not retried automatically; the user must run setup again.
var ErrUnauthorized = errors.New("cursor: unauthorized (session token expired or invalid)")

// APIError is a non-success response from the billing endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cursor: api request failed with status %d", e.Status)
}

// Client fetches monthly invoice data from the Cursor dashboard API.
type Client struct {
	baseURL      string
	sessionToken string
	http         *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, primarily for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client authenticated with the given session token.
func NewClient(sessionToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		sessionToken: sessionToken,
		http:         &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUsage returns a usage snapshot for the month containing now,
// falling back to the immediately preceding month when the current one
// has no usage yet. Both months empty is a zero snapshot, not an error.
func (c *Client) FetchUsage(ctx context.Context, now time.Time) (model.UsageSnapshot, error) {
	month, year := int(now.Month()), now.Year()
	prevMonth, prevYear := previousMonth(month, year)

	for _, m := range []struct{ month, year int }{
		{month, year},
		{prevMonth, prevYear},
	} {
		inv, err := c.FetchMonthlyInvoice(ctx, m.month, m.year)
		if err != nil {
			return model.UsageSnapshot{}, err
		}
		if !inv.Empty() {
			return snapshotFromInvoice(inv, now), nil
		}
	}

	return model.UsageSnapshot{FetchedAt: now}, nil
}

// FetchMonthlyInvoice fetches the raw invoice for one calendar month.
func (c *Client) FetchMonthlyInvoice(ctx context.Context, month, year int) (*InvoiceResponse, error) {
	body, err := json.Marshal(invoiceRequest{
		Month:              month,
		Year:               year,
		IncludeUsageEvents: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cursor: marshal invoice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/dashboard/get-monthly-invoice", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cursor: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", "https://cursor.com")
	req.Header.Set("Referer", "https://cursor.com/dashboard?tab=usage")
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.sessionToken})

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cursor: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("cursor: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var inv InvoiceResponse
	if err := json.Unmarshal(respBody, &inv); err != nil {
		return nil, fmt.Errorf("cursor: parsing invoice: %w", err)
	}
	return &inv, nil
}

func previousMonth(month, year int) (int, int) {
	if month > 1 {
		return month - 1, year
	}
	return 12, year - 1
}

func snapshotFromInvoice(inv *InvoiceResponse, now time.Time) model.UsageSnapshot {
	snap := model.UsageSnapshot{FetchedAt: now}

	if len(inv.Items) > 0 {
		snap.TotalCents = inv.Items[0].Cents
		snap.HasTotal = true
	}

	for _, raw := range inv.UsageEvents {
		ev := model.UsageEvent{
			PriceCents: raw.PriceCents,
			ModelLabel: raw.ModelLabel(),
		}
		if ms, err := raw.Timestamp.Int64(); err == nil {
			ev.Timestamp = time.UnixMilli(ms)
		}
		snap.Events = append(snap.Events, ev)
	}

	return snap
}
