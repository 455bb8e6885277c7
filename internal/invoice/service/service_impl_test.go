package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	catalogrepo "github.com/careops/carehome/internal/catalog/repository"
	catalogsvc "github.com/careops/carehome/internal/catalog/service"
	invoicedomain "github.com/careops/carehome/internal/invoice/domain"
	residentdomain "github.com/careops/carehome/internal/resident/domain"
	residentrepo "github.com/careops/carehome/internal/resident/repository"
	usagedomain "github.com/careops/carehome/internal/usage/domain"
	usagerepo "github.com/careops/carehome/internal/usage/repository"
	usagesvc "github.com/careops/carehome/internal/usage/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type invoiceHarness struct {
	db           *gorm.DB
	node         *snowflake.Node
	catalogSvc   catalogdomain.Service
	usageSvc     usagedomain.Service
	residentRepo residentdomain.Repository
	svc          invoicedomain.Service
}

func setupInvoice(t *testing.T) *invoiceHarness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.PriceEntry{},
		&residentdomain.BillingProfile{},
		&usagedomain.UsageRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	catSvc := catalogsvc.New(catalogsvc.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  catalogrepo.Provide(),
	})
	usgSvc := usagesvc.New(usagesvc.Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Repo:       usagerepo.Provide(),
		CatalogSvc: catSvc,
	})
	resRepo := residentrepo.Provide()

	h := &invoiceHarness{
		db:           db,
		node:         node,
		catalogSvc:   catSvc,
		usageSvc:     usgSvc,
		residentRepo: resRepo,
	}
	h.svc = New(Params{
		DB:           db,
		Log:          log,
		CatalogSvc:   catSvc,
		UsageSvc:     usgSvc,
		ResidentRepo: resRepo,
	})
	return h
}

func (h *invoiceHarness) createEntry(t *testing.T, name string, category catalogdomain.Category, price int64, billingType catalogdomain.BillingType, tierCode string) *catalogdomain.Response {
	t.Helper()
	entry, err := h.catalogSvc.Create(context.Background(), catalogdomain.CreateRequest{
		Name:        name,
		Category:    category,
		Price:       price,
		Unit:        "month",
		BillingType: billingType,
		TierCode:    tierCode,
	})
	require.NoError(t, err)
	return entry
}

func (h *invoiceHarness) seedRecurringFees(t *testing.T) {
	t.Helper()
	h.createEntry(t, "Double room", catalogdomain.CategoryRoom, 10_000_000, catalogdomain.BillingTypeFixed, "2-bed")
	h.createEntry(t, "Shared room", catalogdomain.CategoryRoom, 7_000_000, catalogdomain.BillingTypeFixed, "4-bed")
	h.createEntry(t, "Care", catalogdomain.CategoryCare, 5_000_000, catalogdomain.BillingTypeFixed, "CL2_2-bed")
	h.createEntry(t, "Standard meal plan", catalogdomain.CategoryMeal, 3_900_000, catalogdomain.BillingTypeFixed, "standard")
}

func (h *invoiceHarness) seedResident(t *testing.T, roomType string, careLevel int) snowflake.ID {
	t.Helper()
	now := time.Now().UTC()
	residentID := h.node.Generate()
	require.NoError(t, h.residentRepo.Upsert(context.Background(), h.db, &residentdomain.BillingProfile{
		ResidentID: residentID,
		FullName:   "Trần Thị B",
		RoomType:   roomType,
		CareLevel:  careLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
	return residentID
}

func TestAssembleRecurringFeesFromProfile(t *testing.T) {
	h := setupInvoice(t)
	h.seedRecurringFees(t)
	residentID := h.seedResident(t, "2 Giường", 2)

	invoice, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{
		ResidentID: residentID.String(),
		Period:     "2026-08",
	})
	require.NoError(t, err)

	require.Len(t, invoice.LineItems, 3)
	assert.Equal(t, int64(10_000_000), invoice.LineItems[0].Amount)
	assert.Equal(t, int64(5_000_000), invoice.LineItems[1].Amount)
	assert.Equal(t, int64(3_900_000), invoice.LineItems[2].Amount)
	assert.Equal(t, int64(18_900_000), invoice.Total)
	assert.Empty(t, invoice.Flags)
	assert.Equal(t, "2026-08", invoice.Period)
}

func TestAssembleIncludesUnbilledUsage(t *testing.T) {
	h := setupInvoice(t)
	h.seedRecurringFees(t)
	therapy := h.createEntry(t, "Physical therapy", catalogdomain.CategoryOther, 85_000, catalogdomain.BillingTypeOneOff, "")
	residentID := h.seedResident(t, "2 Giường", 2)

	_, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: residentID.String(),
		ServiceID:  therapy.ID.String(),
		Quantity:   2,
	})
	require.NoError(t, err)

	invoice, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{
		ResidentID: residentID.String(),
	})
	require.NoError(t, err)

	require.Len(t, invoice.LineItems, 4)
	assert.Equal(t, "Physical therapy x2", invoice.LineItems[3].Description)
	assert.Equal(t, int64(170_000), invoice.LineItems[3].Amount)
	assert.Equal(t, int64(19_070_000), invoice.Total)
}

func TestAssembleAppendsAdHocItems(t *testing.T) {
	h := setupInvoice(t)
	h.seedRecurringFees(t)
	residentID := h.seedResident(t, "2 Giường", 2)

	invoice, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{
		ResidentID: residentID.String(),
		AdHocItems: []invoicedomain.AdHocItem{
			{Description: "Wheelchair rental", Amount: 500_000},
			{Description: "Deposit credit", Amount: -200_000},
		},
	})
	require.NoError(t, err)

	require.Len(t, invoice.LineItems, 5)
	assert.Equal(t, int64(19_200_000), invoice.Total)
}

func TestAssembleRejectsBlankAdHocDescription(t *testing.T) {
	h := setupInvoice(t)
	h.seedRecurringFees(t)
	residentID := h.seedResident(t, "2 Giường", 2)

	_, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{
		ResidentID: residentID.String(),
		AdHocItems: []invoicedomain.AdHocItem{{Description: "   ", Amount: 100}},
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidAdHoc)
}

func TestAssembleRoomFallsBackToSharedTier(t *testing.T) {
	h := setupInvoice(t)
	h.seedRecurringFees(t)
	h.createEntry(t, "Care", catalogdomain.CategoryCare, 7_500_000, catalogdomain.BillingTypeFixed, "CL3_4-bed")
	residentID := h.seedResident(t, "3 Giường", 3)

	invoice, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{
		ResidentID: residentID.String(),
	})
	require.NoError(t, err)

	// No 3-bed room entry exists, so the shared-room price applies; care
	// resolves through the in-level fallback CL3_4-bed.
	assert.Equal(t, int64(7_000_000), invoice.LineItems[0].Amount)
	assert.Equal(t, int64(7_500_000), invoice.LineItems[1].Amount)
	assert.Empty(t, invoice.Flags)
}

func TestAssembleUnresolvedFeeBecomesZeroFlaggedLine(t *testing.T) {
	h := setupInvoice(t)
	// Only room and meal are priced; care level 4 has no entry at all.
	h.createEntry(t, "Single room", catalogdomain.CategoryRoom, 15_000_000, catalogdomain.BillingTypeFixed, "1-bed")
	h.createEntry(t, "Standard meal plan", catalogdomain.CategoryMeal, 3_900_000, catalogdomain.BillingTypeFixed, "standard")
	residentID := h.seedResident(t, "Phòng riêng", 4)

	invoice, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{
		ResidentID: residentID.String(),
	})
	require.NoError(t, err)

	require.Len(t, invoice.LineItems, 3)
	assert.Equal(t, int64(0), invoice.LineItems[1].Amount)
	assert.True(t, invoice.LineItems[1].Flagged)
	assert.Equal(t, int64(18_900_000), invoice.Total)
	require.Len(t, invoice.Flags, 1)
}

func TestAssembleIsPure(t *testing.T) {
	h := setupInvoice(t)
	h.seedRecurringFees(t)
	therapy := h.createEntry(t, "Physical therapy", catalogdomain.CategoryOther, 85_000, catalogdomain.BillingTypeOneOff, "")
	residentID := h.seedResident(t, "2 Giường", 2)

	_, err := h.usageSvc.Record(context.Background(), usagedomain.RecordRequest{
		ResidentID: residentID.String(),
		ServiceID:  therapy.ID.String(),
		Quantity:   1,
	})
	require.NoError(t, err)

	first, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{ResidentID: residentID.String()})
	require.NoError(t, err)
	second, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{ResidentID: residentID.String()})
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)

	// Assembling never transitions usage records.
	unbilled, err := h.usageSvc.ListUnbilled(context.Background(), residentID.String())
	require.NoError(t, err)
	assert.Len(t, unbilled, 1)
}

func TestAssembleUnknownResident(t *testing.T) {
	h := setupInvoice(t)

	_, err := h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{
		ResidentID: h.node.Generate().String(),
	})
	assert.ErrorIs(t, err, residentdomain.ErrNotFound)

	_, err = h.svc.Assemble(context.Background(), invoicedomain.AssembleRequest{ResidentID: "nope"})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidResident)
}
