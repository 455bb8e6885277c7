// Package domain defines the payment/billing coordinator: the only component
// that moves resident balances, appends cash transactions, and transitions
// usage records to Billed, as one logical unit.
package domain

import (
	"context"
	"errors"

	ledgerdomain "github.com/careops/carehome/internal/ledger/domain"
)

type Service interface {
	// ApplyPayment posts an IN transaction, moves the resident balance by an
	// atomic increment, and marks the supplied usage records Billed, all in
	// one storage transaction. A repeated idempotency key returns the
	// already-recorded transaction; the billing transition is re-applied
	// idempotently so a retried confirmation always completes.
	ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (*ledgerdomain.Response, error)
	// RecordManualTransaction appends a staff-entered IN or OUT row and moves
	// the balance accordingly.
	RecordManualTransaction(ctx context.Context, req ManualTransactionRequest) (*ledgerdomain.Response, error)
	// Statement reports the cached balance, the ledger-derived balance, and
	// the transaction history, surfacing any drift between the two.
	Statement(ctx context.Context, residentID string) (*StatementResponse, error)
	// RecomputeBalance rewrites the cached balance from the ledger sum.
	RecomputeBalance(ctx context.Context, residentID string) (int64, error)
	// CorrectTransactionStatus fixes a Pending or Failed ledger row, the only
	// post-creation mutation the ledger permits. The cached balance moves by
	// whatever the correction adds to or removes from the Success sum.
	CorrectTransactionStatus(ctx context.Context, id string, status ledgerdomain.TransactionStatus) error
}

type ApplyPaymentRequest struct {
	ResidentID     string   `json:"residentId"`
	Amount         int64    `json:"amount"`
	Description    string   `json:"description"`
	Performer      string   `json:"performer"`
	UnbilledIDs    []string `json:"unbilledIds"`
	IdempotencyKey string   `json:"idempotencyKey"`
}

type ManualTransactionRequest struct {
	ResidentID  string `json:"residentId"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Performer   string `json:"performer"`
}

type StatementResponse struct {
	ResidentID    string                  `json:"residentId"`
	Balance       int64                   `json:"balance"`
	LedgerBalance int64                   `json:"ledgerBalance"`
	Consistent    bool                    `json:"consistent"`
	Transactions  []ledgerdomain.Response `json:"transactions"`
}

var (
	ErrInvalidResident = errors.New("invalid_resident")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidType     = errors.New("invalid_type")
	ErrInvalidDesc     = errors.New("invalid_description")
	ErrInvalidUsageID  = errors.New("invalid_usage_id")
)
