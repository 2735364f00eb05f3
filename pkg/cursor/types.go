package cursor

import "encoding/json"

// invoiceRequest is the body of the monthly invoice dashboard call.
type invoiceRequest struct {
	Month              int  `json:"month"`
	Year               int  `json:"year"`
	IncludeUsageEvents bool `json:"includeUsageEvents"`
}

// InvoiceResponse is the raw monthly invoice payload.
type InvoiceResponse struct {
	Items       []InvoiceItem   `json:"items"`
	UsageEvents []RawUsageEvent `json:"usageEvents"`
}

// Empty reports whether the month carried no usage at all, which is
// the signal to fall back to the previous month.
func (r *InvoiceResponse) Empty() bool {
	return len(r.Items) == 0 && len(r.UsageEvents) == 0
}

// InvoiceItem is a single aggregate line item. The first item's cents
// value is the authoritative month total.
type InvoiceItem struct {
	Description string `json:"description"`
	Cents       int64  `json:"cents"`
}

// RawUsageEvent is a single usage event as returned by the API.
// Timestamp is unix milliseconds; the API has been seen returning it
// as both a number and a string, so it is kept as json.Number.
type RawUsageEvent struct {
	Timestamp  json.Number   `json:"timestamp"`
	PriceCents int64         `json:"priceCents"`
	Details    *EventDetails `json:"details"`
}

// EventDetails carries optional per-event metadata.
type EventDetails struct {
	ToolCallComposer *ToolCallComposer `json:"toolCallComposer"`
}

// ToolCallComposer identifies the model that produced the charge.
type ToolCallComposer struct {
	ModelIntent string `json:"modelIntent"`
}

// ModelLabel returns the model name for an event, or "" when absent.
func (e RawUsageEvent) ModelLabel() string {
	if e.Details == nil || e.Details.ToolCallComposer == nil {
		return ""
	}
	return e.Details.ToolCallComposer.ModelIntent
}
