package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Category groups price entries by the kind of service they charge for.
type Category string

const (
	CategoryRoom  Category = "ROOM"
	CategoryCare  Category = "CARE"
	CategoryMeal  Category = "MEAL"
	CategoryOther Category = "OTHER"
)

// BillingType distinguishes recurring monthly fees from per-occurrence charges.
type BillingType string

const (
	BillingTypeFixed  BillingType = "FIXED"
	BillingTypeOneOff BillingType = "ONE_OFF"
)

// PriceEntry is a versioned catalog row. Amounts are integer minor units.
// At most one active entry may match a (category, tier_code) pair so that
// resolution is always deterministic.
type PriceEntry struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:text;not null"`
	Category    Category     `gorm:"type:text;not null;index"`
	Price       int64        `gorm:"not null"`
	Unit        string       `gorm:"type:text;not null"`
	BillingType BillingType  `gorm:"type:text;not null"`
	TierCode    string       `gorm:"type:text;not null;default:''"`
	Active      bool         `gorm:"not null;default:true"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PriceEntry) TableName() string { return "price_entries" }
