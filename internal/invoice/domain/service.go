package domain

import (
	"context"
	"errors"
)

// Service assembles invoices. Assemble is a pure read path: it holds no
// locks, writes nothing, and may run concurrently with any other operation.
type Service interface {
	Assemble(ctx context.Context, req AssembleRequest) (*ComputedInvoice, error)
}

type AssembleRequest struct {
	ResidentID string      `json:"residentId"`
	Period     string      `json:"period"`
	AdHocItems []AdHocItem `json:"adHocItems"`
}

var (
	ErrInvalidResident = errors.New("invalid_resident")
	ErrInvalidAdHoc    = errors.New("invalid_adhoc_item")
)
