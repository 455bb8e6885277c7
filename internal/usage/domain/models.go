// Package domain contains persistence models for the per-resident usage ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status tracks whether a usage charge has been folded into a settled payment.
type Status string

const (
	StatusUnbilled Status = "Unbilled"
	StatusBilled   Status = "Billed"
)

// UsageRecord stores one recorded service usage. ServiceName and UnitPrice
// are snapshots taken from the catalog at recording time; later price edits
// never touch them, and TotalAmount is immutable once created. Status only
// moves Unbilled -> Billed.
type UsageRecord struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	ResidentID  snowflake.ID `gorm:"not null;index"`
	ServiceID   snowflake.ID `gorm:"not null"`
	ServiceName string       `gorm:"type:text;not null"`
	Date        time.Time    `gorm:"not null"`
	Quantity    int64        `gorm:"not null"`
	UnitPrice   int64        `gorm:"not null"`
	TotalAmount int64        `gorm:"not null"`
	Status      Status       `gorm:"type:text;not null;index"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }
