package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	usagedomain "github.com/careops/carehome/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() usagedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *usagedomain.UsageRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO usage_records (
			id, resident_id, service_id, service_name, date, quantity,
			unit_price, total_amount, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.ResidentID,
		record.ServiceID,
		record.ServiceName,
		record.Date,
		record.Quantity,
		record.UnitPrice,
		record.TotalAmount,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*usagedomain.UsageRecord, error) {
	var record usagedomain.UsageRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, resident_id, service_id, service_name, date, quantity,
		 unit_price, total_amount, status, created_at, updated_at
		 FROM usage_records WHERE id = ?`,
		id,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) ListByResident(ctx context.Context, db *gorm.DB, residentID snowflake.ID, status usagedomain.Status) ([]usagedomain.UsageRecord, error) {
	query := `SELECT id, resident_id, service_id, service_name, date, quantity,
		 unit_price, total_amount, status, created_at, updated_at
		 FROM usage_records WHERE resident_id = ?`
	args := []any{residentID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY date ASC, id ASC`

	var items []usagedomain.UsageRecord
	err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkBilled(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).Exec(
		`UPDATE usage_records
		 SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id IN ? AND status = ?`,
		usagedomain.StatusBilled,
		ids,
		usagedomain.StatusUnbilled,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
