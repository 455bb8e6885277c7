package seed

import (
	"testing"

	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureDefaultCatalogSeedsOnceOnly(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.PriceEntry{}))

	require.NoError(t, EnsureDefaultCatalog(db))

	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM price_entries`).Scan(&count).Error)
	// 4 rooms + 1 meal plan + 4 care levels x 4 tiers.
	assert.Equal(t, int64(21), count)

	// Idempotent: a second run leaves a managed catalog alone.
	require.NoError(t, EnsureDefaultCatalog(db))
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM price_entries`).Scan(&count).Error)
	assert.Equal(t, int64(21), count)
}

func TestDefaultCatalogCoversEveryCareCombination(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range defaultCatalog() {
		if s.category == catalogdomain.CategoryCare {
			seen[s.tierCode] = true
		}
	}
	tiers := []catalogdomain.RoomTier{
		catalogdomain.Tier1Bed,
		catalogdomain.Tier2Bed,
		catalogdomain.Tier3Bed,
		catalogdomain.Tier4Bed,
	}
	for level := 1; level <= 4; level++ {
		for _, tier := range tiers {
			assert.True(t, seen[catalogdomain.CareTierCode(level, tier)])
		}
	}
}
