package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *catalogdomain.PriceEntry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO price_entries (
			id, name, category, price, unit, billing_type, tier_code, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Name,
		entry.Category,
		entry.Price,
		entry.Unit,
		entry.BillingType,
		entry.TierCode,
		entry.Active,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, entry *catalogdomain.PriceEntry) error {
	return db.WithContext(ctx).Exec(
		`UPDATE price_entries
		 SET name = ?, price = ?, unit = ?, tier_code = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		entry.Name,
		entry.Price,
		entry.Unit,
		entry.TierCode,
		entry.Active,
		entry.UpdatedAt,
		entry.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.PriceEntry, error) {
	var entry catalogdomain.PriceEntry
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, category, price, unit, billing_type, tier_code, active, created_at, updated_at
		 FROM price_entries WHERE id = ?`,
		id,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB, category catalogdomain.Category, tierCode string) (*catalogdomain.PriceEntry, error) {
	var entry catalogdomain.PriceEntry
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, category, price, unit, billing_type, tier_code, active, created_at, updated_at
		 FROM price_entries
		 WHERE category = ? AND tier_code = ? AND active`,
		category,
		tierCode,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) CountActive(ctx context.Context, db *gorm.DB, category catalogdomain.Category, tierCode string, excludeID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM price_entries
		 WHERE category = ? AND tier_code = ? AND active AND id <> ?`,
		category,
		tierCode,
		excludeID,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, category catalogdomain.Category) ([]catalogdomain.PriceEntry, error) {
	query := `SELECT id, name, category, price, unit, billing_type, tier_code, active, created_at, updated_at
		 FROM price_entries`
	args := make([]any, 0, 1)
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at ASC`

	var items []catalogdomain.PriceEntry
	err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
