package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BillingProfile is the billing-relevant projection of a resident. Room type
// and care level come from the resident directory and are never mutated here.
// Balance is a cached scalar in minor units; the cash ledger is the source of
// truth and the balance is only ever moved by an atomic increment.
type BillingProfile struct {
	ResidentID snowflake.ID `gorm:"primaryKey;column:resident_id"`
	FullName   string       `gorm:"type:text;not null"`
	RoomType   string       `gorm:"type:text;not null"`
	CareLevel  int          `gorm:"not null"`
	MealPlan   *string      `gorm:"type:text"`
	Balance    int64        `gorm:"not null;default:0"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BillingProfile) TableName() string { return "resident_billing_profiles" }
