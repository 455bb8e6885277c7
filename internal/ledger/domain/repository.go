package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert appends a transaction. When the idempotency key is already
	// present the insert is a no-op and inserted reports false.
	Insert(ctx context.Context, db *gorm.DB, txn *Transaction) (inserted bool, err error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Transaction, error)
	FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*Transaction, error)
	ListByResident(ctx context.Context, db *gorm.DB, residentID snowflake.ID) ([]Transaction, error)
	// SumByResident computes Σ(IN) − Σ(OUT) over Success rows, the source of
	// truth the cached balance must agree with.
	SumByResident(ctx context.Context, db *gorm.DB, residentID snowflake.ID) (int64, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status TransactionStatus) error
}
