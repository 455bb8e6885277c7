package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, profile *BillingProfile) error
	FindByID(ctx context.Context, db *gorm.DB, residentID snowflake.ID) (*BillingProfile, error)
	// AddToBalance moves the cached balance by delta with a single atomic
	// UPDATE at the storage layer. Never read-modify-write in application code.
	AddToBalance(ctx context.Context, db *gorm.DB, residentID snowflake.ID, delta int64) error
	// SetBalance overwrites the cached balance; used only by reconciliation.
	SetBalance(ctx context.Context, db *gorm.DB, residentID snowflake.ID, balance int64) error
}

var (
	ErrNotFound         = errors.New("resident_not_found")
	ErrInvalidCareLevel = errors.New("invalid_care_level")
)
