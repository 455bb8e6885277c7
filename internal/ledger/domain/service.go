package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service reads the cash ledger. Writes go through the billing coordinator,
// which owns the transaction that keeps the ledger and the cached balance
// moving together.
type Service interface {
	ListByResident(ctx context.Context, residentID string) ([]Response, error)
	SumByResident(ctx context.Context, residentID snowflake.ID) (int64, error)
}

// Response is the wire view of a cash transaction.
type Response struct {
	ID          snowflake.ID      `json:"id"`
	Date        time.Time         `json:"date"`
	ResidentID  snowflake.ID      `json:"residentId"`
	Description string            `json:"description"`
	Amount      int64             `json:"amount"`
	Type        TransactionType   `json:"type"`
	Performer   string            `json:"performer"`
	Status      TransactionStatus `json:"status"`
}

var (
	ErrInvalidResident = errors.New("invalid_resident")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrNotFound        = errors.New("transaction_not_found")
)
