package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/careops/carehome/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ledgerdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, txn *ledgerdomain.Transaction) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO cash_transactions (
			id, date, resident_id, description, amount, type, performer,
			status, idempotency_key, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (idempotency_key) DO NOTHING`,
		txn.ID,
		txn.Date,
		txn.ResidentID,
		txn.Description,
		txn.Amount,
		txn.Type,
		txn.Performer,
		txn.Status,
		txn.IdempotencyKey,
		txn.Metadata,
		txn.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ledgerdomain.Transaction, error) {
	var txn ledgerdomain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, date, resident_id, description, amount, type, performer,
		 status, idempotency_key, metadata, created_at
		 FROM cash_transactions WHERE id = ?`,
		id,
	).Scan(&txn).Error
	if err != nil {
		return nil, err
	}
	if txn.ID == 0 {
		return nil, nil
	}
	return &txn, nil
}

func (r *repo) FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*ledgerdomain.Transaction, error) {
	var txn ledgerdomain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, date, resident_id, description, amount, type, performer,
		 status, idempotency_key, metadata, created_at
		 FROM cash_transactions WHERE idempotency_key = ?`,
		key,
	).Scan(&txn).Error
	if err != nil {
		return nil, err
	}
	if txn.ID == 0 {
		return nil, nil
	}
	return &txn, nil
}

func (r *repo) ListByResident(ctx context.Context, db *gorm.DB, residentID snowflake.ID) ([]ledgerdomain.Transaction, error) {
	var items []ledgerdomain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, date, resident_id, description, amount, type, performer,
		 status, idempotency_key, metadata, created_at
		 FROM cash_transactions WHERE resident_id = ? ORDER BY date ASC, id ASC`,
		residentID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SumByResident(ctx context.Context, db *gorm.DB, residentID snowflake.ID) (int64, error) {
	var sum int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)
		 FROM cash_transactions
		 WHERE resident_id = ? AND status = ?`,
		ledgerdomain.TypeIn,
		residentID,
		ledgerdomain.StatusSuccess,
	).Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status ledgerdomain.TransactionStatus) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE cash_transactions SET status = ? WHERE id = ?`,
		status,
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrNotFound
	}
	return nil
}
