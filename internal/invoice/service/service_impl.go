package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	invoicedomain "github.com/careops/carehome/internal/invoice/domain"
	obsmetrics "github.com/careops/carehome/internal/observability/metrics"
	residentdomain "github.com/careops/carehome/internal/resident/domain"
	usagedomain "github.com/careops/carehome/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	CatalogSvc   catalogdomain.Service
	UsageSvc     usagedomain.Service
	ResidentRepo residentdomain.Repository
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	catalogSvc   catalogdomain.Service
	usageSvc     usagedomain.Service
	residentRepo residentdomain.Repository
	obsMetrics   *obsmetrics.Metrics
}

func New(p Params) invoicedomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		catalogSvc:   p.CatalogSvc,
		usageSvc:     p.UsageSvc,
		residentRepo: p.ResidentRepo,
		obsMetrics:   p.ObsMetrics,
	}
}

// Assemble recomputes the invoice from the current catalog, the resident's
// unbilled usage, and the caller's ad-hoc items. Recurring fees come from the
// catalog through the fallback chain; usage lines use their snapshotted
// totals, never recomputed from current prices.
func (s *Service) Assemble(ctx context.Context, req invoicedomain.AssembleRequest) (*invoicedomain.ComputedInvoice, error) {
	residentID, err := snowflake.ParseString(strings.TrimSpace(req.ResidentID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidResident
	}

	for _, item := range req.AdHocItems {
		if strings.TrimSpace(item.Description) == "" {
			return nil, invoicedomain.ErrInvalidAdHoc
		}
	}

	profile, err := s.residentRepo.FindByID(ctx, s.db, residentID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, residentdomain.ErrNotFound
	}

	period := strings.TrimSpace(req.Period)
	if period == "" {
		period = time.Now().UTC().Format("2006-01")
	}

	invoice := &invoicedomain.ComputedInvoice{
		ResidentID: residentID,
		Period:     period,
		LineItems:  make([]invoicedomain.LineItem, 0, 4+len(req.AdHocItems)),
	}

	tier := catalogdomain.NormalizeRoomTier(profile.RoomType)

	if err := s.appendFee(ctx, invoice, catalogdomain.CategoryRoom, string(tier), "Room fee"); err != nil {
		return nil, err
	}
	if err := s.appendFee(ctx, invoice, catalogdomain.CategoryCare, catalogdomain.CareTierCode(profile.CareLevel, tier), fmt.Sprintf("Care fee (level %d)", profile.CareLevel)); err != nil {
		return nil, err
	}

	mealTier := catalogdomain.MealTierStandard
	if profile.MealPlan != nil && strings.TrimSpace(*profile.MealPlan) != "" {
		mealTier = strings.TrimSpace(*profile.MealPlan)
	}
	if err := s.appendFee(ctx, invoice, catalogdomain.CategoryMeal, mealTier, "Meal plan"); err != nil {
		return nil, err
	}

	unbilled, err := s.usageSvc.ListUnbilled(ctx, residentID.String())
	if err != nil {
		return nil, err
	}
	for _, record := range unbilled {
		invoice.LineItems = append(invoice.LineItems, invoicedomain.LineItem{
			Description: fmt.Sprintf("%s x%d", record.ServiceName, record.Quantity),
			Amount:      record.TotalAmount,
		})
	}

	for _, item := range req.AdHocItems {
		invoice.LineItems = append(invoice.LineItems, invoicedomain.LineItem{
			Description: item.Description,
			Amount:      item.Amount,
		})
	}

	var total int64
	for _, line := range invoice.LineItems {
		total += line.Amount
	}
	invoice.Total = total

	return invoice, nil
}

// appendFee resolves one recurring fee. An unresolved price never fails the
// invoice: it becomes a zero-amount flagged line for operator attention.
// Storage failures do propagate.
func (s *Service) appendFee(ctx context.Context, invoice *invoicedomain.ComputedInvoice, category catalogdomain.Category, tierCode, description string) error {
	entry, err := s.catalogSvc.Resolve(ctx, category, tierCode)
	if err != nil {
		if !errors.Is(err, catalogdomain.ErrPriceUnresolved) {
			return err
		}
		invoice.Flags = append(invoice.Flags, fmt.Sprintf("%s/%s unresolved", category, tierCode))
		invoice.LineItems = append(invoice.LineItems, invoicedomain.LineItem{
			Description: description,
			Amount:      0,
			Flagged:     true,
		})
		s.obsMetrics.RecordPriceUnresolved(string(category))
		s.log.Warn("invoice line degraded to zero",
			zap.String("resident_id", invoice.ResidentID.String()),
			zap.String("category", string(category)),
			zap.String("tier_code", tierCode),
		)
		return nil
	}

	invoice.LineItems = append(invoice.LineItems, invoicedomain.LineItem{
		Description: description,
		Amount:      entry.Price,
	})
	return nil
}
