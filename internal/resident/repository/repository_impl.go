package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	residentdomain "github.com/careops/carehome/internal/resident/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() residentdomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, profile *residentdomain.BillingProfile) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resident_billing_profiles (
			resident_id, full_name, room_type, care_level, meal_plan, balance, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (resident_id) DO UPDATE SET
			full_name = excluded.full_name,
			room_type = excluded.room_type,
			care_level = excluded.care_level,
			meal_plan = excluded.meal_plan,
			updated_at = excluded.updated_at`,
		profile.ResidentID,
		profile.FullName,
		profile.RoomType,
		profile.CareLevel,
		profile.MealPlan,
		profile.Balance,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, residentID snowflake.ID) (*residentdomain.BillingProfile, error) {
	var profile residentdomain.BillingProfile
	err := db.WithContext(ctx).Raw(
		`SELECT resident_id, full_name, room_type, care_level, meal_plan, balance, created_at, updated_at
		 FROM resident_billing_profiles WHERE resident_id = ?`,
		residentID,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ResidentID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) AddToBalance(ctx context.Context, db *gorm.DB, residentID snowflake.ID, delta int64) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE resident_billing_profiles
		 SET balance = balance + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE resident_id = ?`,
		delta,
		residentID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return residentdomain.ErrNotFound
	}
	return nil
}

func (r *repo) SetBalance(ctx context.Context, db *gorm.DB, residentID snowflake.ID, balance int64) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE resident_billing_profiles
		 SET balance = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE resident_id = ?`,
		balance,
		residentID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return residentdomain.ErrNotFound
	}
	return nil
}
