package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *UsageRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*UsageRecord, error)
	ListByResident(ctx context.Context, db *gorm.DB, residentID snowflake.ID, status Status) ([]UsageRecord, error)
	// MarkBilled transitions ids from Unbilled to Billed. Already-billed ids
	// are skipped, so the call is idempotent per id. It runs on whatever
	// handle the caller supplies so the billing coordinator can include it in
	// the payment transaction.
	MarkBilled(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (int64, error)
}
