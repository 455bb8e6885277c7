package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	residentdomain "github.com/careops/carehome/internal/resident/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupResidentRepo(t *testing.T) (residentdomain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&residentdomain.BillingProfile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return Provide(), db, node
}

func TestUpsertPreservesBalanceOnUpdate(t *testing.T) {
	repo, db, node := setupResidentRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()
	residentID := node.Generate()

	require.NoError(t, repo.Upsert(ctx, db, &residentdomain.BillingProfile{
		ResidentID: residentID,
		FullName:   "Nguyễn Văn A",
		RoomType:   "2 Giường",
		CareLevel:  2,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
	require.NoError(t, repo.AddToBalance(ctx, db, residentID, 5_000))

	// Re-upserting profile fields must not clobber the cached balance.
	require.NoError(t, repo.Upsert(ctx, db, &residentdomain.BillingProfile{
		ResidentID: residentID,
		FullName:   "Nguyễn Văn A",
		RoomType:   "Phòng riêng",
		CareLevel:  3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	profile, err := repo.FindByID(ctx, db, residentID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Phòng riêng", profile.RoomType)
	assert.Equal(t, 3, profile.CareLevel)
	assert.Equal(t, int64(5_000), profile.Balance)
}

func TestAddToBalanceIsCumulative(t *testing.T) {
	repo, db, node := setupResidentRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()
	residentID := node.Generate()

	require.NoError(t, repo.Upsert(ctx, db, &residentdomain.BillingProfile{
		ResidentID: residentID,
		FullName:   "Trần Thị B",
		RoomType:   "4 Giường",
		CareLevel:  1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	require.NoError(t, repo.AddToBalance(ctx, db, residentID, 1_000))
	require.NoError(t, repo.AddToBalance(ctx, db, residentID, -400))

	profile, err := repo.FindByID(ctx, db, residentID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), profile.Balance)
}

func TestBalanceOpsOnMissingResident(t *testing.T) {
	repo, db, node := setupResidentRepo(t)
	ctx := context.Background()
	missing := node.Generate()

	assert.ErrorIs(t, repo.AddToBalance(ctx, db, missing, 100), residentdomain.ErrNotFound)
	assert.ErrorIs(t, repo.SetBalance(ctx, db, missing, 0), residentdomain.ErrNotFound)

	profile, err := repo.FindByID(ctx, db, missing)
	require.NoError(t, err)
	assert.Nil(t, profile)
}
