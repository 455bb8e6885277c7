package domain

import (
	"github.com/bwmarrin/snowflake"
)

// LineItem is one invoice line. Flagged marks a fee the catalog could not
// resolve; the amount degrades to zero so the invoice still renders, and the
// flag tells the operator to fix the catalog.
type LineItem struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Flagged     bool   `json:"flagged,omitempty"`
}

// AdHocItem is a one-off line entered manually at billing time, carried
// verbatim onto the invoice.
type AdHocItem struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// ComputedInvoice is ephemeral: recomputed on every request from the current
// catalog and current unbilled usage, never persisted or cached.
type ComputedInvoice struct {
	ResidentID snowflake.ID `json:"residentId"`
	Period     string       `json:"period"`
	LineItems  []LineItem   `json:"lineItems"`
	Total      int64        `json:"total"`
	Flags      []string     `json:"flags,omitempty"`
}
