// Package domain contains persistence models for the per-resident cash ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// TransactionType marks money flowing in from or out to a resident.
type TransactionType string

const (
	TypeIn  TransactionType = "IN"
	TypeOut TransactionType = "OUT"
)

// TransactionStatus is the settlement state of a ledger row.
type TransactionStatus string

const (
	StatusSuccess TransactionStatus = "Success"
	StatusPending TransactionStatus = "Pending"
	StatusFailed  TransactionStatus = "Failed"
)

// Transaction is an append-only cash ledger row. Amount is a positive
// magnitude in minor units; Type carries the sign. Rows are never edited
// after creation except a status correction through the billing coordinator.
// IdempotencyKey backs the ON CONFLICT guard that makes payment retries safe.
type Transaction struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	Date           time.Time         `gorm:"not null"`
	ResidentID     snowflake.ID      `gorm:"not null;index"`
	Description    string            `gorm:"type:text;not null"`
	Amount         int64             `gorm:"not null"`
	Type           TransactionType   `gorm:"type:text;not null"`
	Performer      string            `gorm:"type:text;not null"`
	Status         TransactionStatus `gorm:"type:text;not null"`
	IdempotencyKey *string           `gorm:"type:text;uniqueIndex"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "cash_transactions" }

// SignedAmount folds Type into the amount: IN is positive, OUT negative.
func (t Transaction) SignedAmount() int64 {
	if t.Type == TypeOut {
		return -t.Amount
	}
	return t.Amount
}
