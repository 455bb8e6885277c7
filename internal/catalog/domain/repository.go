package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *PriceEntry) error
	Update(ctx context.Context, db *gorm.DB, entry *PriceEntry) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PriceEntry, error)
	FindActive(ctx context.Context, db *gorm.DB, category Category, tierCode string) (*PriceEntry, error)
	CountActive(ctx context.Context, db *gorm.DB, category Category, tierCode string, excludeID snowflake.ID) (int64, error)
	List(ctx context.Context, db *gorm.DB, category Category) ([]PriceEntry, error)
}
