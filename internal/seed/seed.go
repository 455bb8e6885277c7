package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	"gorm.io/gorm"
)

type catalogSeed struct {
	name        string
	category    catalogdomain.Category
	price       int64
	unit        string
	billingType catalogdomain.BillingType
	tierCode    string
}

// Default facility catalog, prices in VND. Care fees are seeded for every
// care level x room tier combination so the composite lookup always lands.
func defaultCatalog() []catalogSeed {
	seeds := []catalogSeed{
		{"Single room", catalogdomain.CategoryRoom, 15_000_000, "month", catalogdomain.BillingTypeFixed, string(catalogdomain.Tier1Bed)},
		{"Double room", catalogdomain.CategoryRoom, 10_000_000, "month", catalogdomain.BillingTypeFixed, string(catalogdomain.Tier2Bed)},
		{"Triple room", catalogdomain.CategoryRoom, 8_500_000, "month", catalogdomain.BillingTypeFixed, string(catalogdomain.Tier3Bed)},
		{"Shared room", catalogdomain.CategoryRoom, 7_000_000, "month", catalogdomain.BillingTypeFixed, string(catalogdomain.Tier4Bed)},
		{"Standard meal plan", catalogdomain.CategoryMeal, 3_900_000, "month", catalogdomain.BillingTypeFixed, catalogdomain.MealTierStandard},
	}

	carePrices := map[int]int64{1: 3_000_000, 2: 5_000_000, 3: 7_500_000, 4: 10_000_000}
	tiers := []catalogdomain.RoomTier{
		catalogdomain.Tier1Bed,
		catalogdomain.Tier2Bed,
		catalogdomain.Tier3Bed,
		catalogdomain.Tier4Bed,
	}
	for level := 1; level <= 4; level++ {
		for _, tier := range tiers {
			seeds = append(seeds, catalogSeed{
				name:        "Care",
				category:    catalogdomain.CategoryCare,
				price:       carePrices[level],
				unit:        "month",
				billingType: catalogdomain.BillingTypeFixed,
				tierCode:    catalogdomain.CareTierCode(level, tier),
			})
		}
	}

	return seeds
}

// EnsureDefaultCatalog installs the default price catalog when the table is
// empty. An already-managed catalog is left untouched.
func EnsureDefaultCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Raw(`SELECT COUNT(*) FROM price_entries`).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, s := range defaultCatalog() {
			if err := tx.WithContext(ctx).Exec(
				`INSERT INTO price_entries (
					id, name, category, price, unit, billing_type, tier_code, active, created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				node.Generate(),
				s.name,
				s.category,
				s.price,
				s.unit,
				s.billingType,
				s.tierCode,
				true,
				now,
				now,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
