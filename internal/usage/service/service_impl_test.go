package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	catalogrepo "github.com/careops/carehome/internal/catalog/repository"
	catalogsvc "github.com/careops/carehome/internal/catalog/service"
	usagedomain "github.com/careops/carehome/internal/usage/domain"
	"github.com/careops/carehome/internal/usage/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type usageHarness struct {
	db         *gorm.DB
	node       *snowflake.Node
	catalogSvc catalogdomain.Service
	usageSvc   usagedomain.Service
	usageRepo  usagedomain.Repository
}

func setupUsage(t *testing.T) *usageHarness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.PriceEntry{}, &usagedomain.UsageRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	catSvc := catalogsvc.New(catalogsvc.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  catalogrepo.Provide(),
	})
	usageRepo := repository.Provide()
	usgSvc := New(Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Repo:       usageRepo,
		CatalogSvc: catSvc,
	})

	return &usageHarness{db: db, node: node, catalogSvc: catSvc, usageSvc: usgSvc, usageRepo: usageRepo}
}

func (h *usageHarness) createService(t *testing.T, name string, price int64) *catalogdomain.Response {
	t.Helper()
	entry, err := h.catalogSvc.Create(context.Background(), catalogdomain.CreateRequest{
		Name:        name,
		Category:    catalogdomain.CategoryOther,
		Price:       price,
		Unit:        "session",
		BillingType: catalogdomain.BillingTypeOneOff,
	})
	require.NoError(t, err)
	return entry
}

func TestRecordSnapshotsPriceAndTotal(t *testing.T) {
	h := setupUsage(t)
	entry := h.createService(t, "Physical therapy", 85_000)
	residentID := h.node.Generate().String()

	record, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: residentID,
		ServiceID:  entry.ID.String(),
		Quantity:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, "Physical therapy", record.ServiceName)
	assert.Equal(t, int64(85_000), record.UnitPrice)
	assert.Equal(t, int64(170_000), record.TotalAmount)
	assert.Equal(t, usagedomain.StatusUnbilled, record.Status)
}

func TestRecordedChargeSurvivesPriceEdit(t *testing.T) {
	h := setupUsage(t)
	entry := h.createService(t, "Physical therapy", 85_000)
	residentID := h.node.Generate().String()

	record, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: residentID,
		ServiceID:  entry.ID.String(),
		Quantity:   2,
	})
	require.NoError(t, err)

	newPrice := int64(120_000)
	_, err = h.catalogSvc.Update(context.Background(), catalogdomain.UpdateRequest{
		ID:    entry.ID.String(),
		Price: &newPrice,
	})
	require.NoError(t, err)

	items, err := h.usageSvc.ListByResident(context.Background(), residentID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, record.ID, items[0].ID)
	assert.Equal(t, int64(85_000), items[0].UnitPrice)
	assert.Equal(t, int64(170_000), items[0].TotalAmount)
}

func TestRecordRejectsUnknownService(t *testing.T) {
	h := setupUsage(t)
	residentID := h.node.Generate().String()

	_, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: residentID,
		ServiceID:  h.node.Generate().String(),
		Quantity:   1,
	})
	assert.ErrorIs(t, err, usagedomain.ErrUnknownService)

	_, err = h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: residentID,
		ServiceID:  "not-an-id",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, usagedomain.ErrUnknownService)
}

func TestRecordRejectsDeactivatedService(t *testing.T) {
	h := setupUsage(t)
	entry := h.createService(t, "Physical therapy", 85_000)
	require.NoError(t, h.catalogSvc.Deactivate(context.Background(), entry.ID.String()))

	_, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: h.node.Generate().String(),
		ServiceID:  entry.ID.String(),
		Quantity:   1,
	})
	assert.ErrorIs(t, err, usagedomain.ErrUnknownService)
}

func TestRecordRejectsNonPositiveQuantity(t *testing.T) {
	h := setupUsage(t)
	entry := h.createService(t, "Physical therapy", 85_000)

	for _, quantity := range []int64{0, -1} {
		_, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
			ResidentID: h.node.Generate().String(),
			ServiceID:  entry.ID.String(),
			Quantity:   quantity,
		})
		assert.ErrorIs(t, err, usagedomain.ErrInvalidQuantity)
	}
}

func TestMarkBilledTransitionsOnlyUnbilledRows(t *testing.T) {
	h := setupUsage(t)
	entry := h.createService(t, "Laundry", 30_000)
	residentID := h.node.Generate().String()

	first, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: residentID,
		ServiceID:  entry.ID.String(),
		Quantity:   1,
	})
	require.NoError(t, err)
	second, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: residentID,
		ServiceID:  entry.ID.String(),
		Quantity:   3,
	})
	require.NoError(t, err)

	ctx := context.Background()
	ids := []snowflake.ID{first.ID, second.ID}

	affected, err := h.usageRepo.MarkBilled(ctx, h.db, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	// Re-applying the same transition is a no-op, not an error.
	affected, err = h.usageRepo.MarkBilled(ctx, h.db, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	unbilled, err := h.usageSvc.ListUnbilled(ctx, residentID)
	require.NoError(t, err)
	assert.Empty(t, unbilled)

	all, err := h.usageSvc.ListByResident(ctx, residentID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, item := range all {
		assert.Equal(t, usagedomain.StatusBilled, item.Status)
	}
}
