package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	obsmetrics "github.com/careops/carehome/internal/observability/metrics"
	usagedomain "github.com/careops/carehome/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       usagedomain.Repository
	CatalogSvc catalogdomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       usagedomain.Repository
	catalogSvc catalogdomain.Service
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) usagedomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("usage.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		catalogSvc: p.CatalogSvc,
		obsMetrics: p.ObsMetrics,
	}
}

// Record snapshots the current catalog price for the service and appends an
// Unbilled usage row. The snapshot makes later catalog edits irrelevant to
// already-recorded charges.
func (s *Service) Record(ctx context.Context, req usagedomain.RecordRequest) (*usagedomain.Response, error) {
	residentID, err := parseID(req.ResidentID)
	if err != nil {
		return nil, usagedomain.ErrInvalidResident
	}
	if req.Quantity <= 0 {
		return nil, usagedomain.ErrInvalidQuantity
	}

	entry, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	record := &usagedomain.UsageRecord{
		ID:          s.genID.Generate(),
		ResidentID:  residentID,
		ServiceID:   entry.ID,
		ServiceName: entry.Name,
		Date:        date.UTC(),
		Quantity:    req.Quantity,
		UnitPrice:   entry.Price,
		TotalAmount: req.Quantity * entry.Price,
		Status:      usagedomain.StatusUnbilled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		return nil, err
	}

	s.obsMetrics.RecordUsage()
	s.log.Info("usage recorded",
		zap.String("resident_id", residentID.String()),
		zap.String("service", record.ServiceName),
		zap.Int64("total_amount", record.TotalAmount),
	)

	return toResponse(record), nil
}

func (s *Service) ListUnbilled(ctx context.Context, rawResidentID string) ([]usagedomain.Response, error) {
	return s.list(ctx, rawResidentID, usagedomain.StatusUnbilled)
}

func (s *Service) ListByResident(ctx context.Context, rawResidentID string) ([]usagedomain.Response, error) {
	return s.list(ctx, rawResidentID, "")
}

func (s *Service) list(ctx context.Context, rawResidentID string, status usagedomain.Status) ([]usagedomain.Response, error) {
	residentID, err := parseID(rawResidentID)
	if err != nil {
		return nil, usagedomain.ErrInvalidResident
	}

	items, err := s.repo.ListByResident(ctx, s.db, residentID, status)
	if err != nil {
		return nil, err
	}

	resp := make([]usagedomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) lookupService(ctx context.Context, rawServiceID string) (*catalogdomain.PriceEntry, error) {
	serviceID, err := parseID(rawServiceID)
	if err != nil {
		return nil, usagedomain.ErrUnknownService
	}

	entry, err := s.catalogSvc.Get(ctx, serviceID.String())
	if err != nil {
		if err == catalogdomain.ErrNotFound || err == catalogdomain.ErrInvalidID {
			return nil, usagedomain.ErrUnknownService
		}
		return nil, err
	}
	if !entry.Active {
		return nil, usagedomain.ErrUnknownService
	}

	return &catalogdomain.PriceEntry{
		ID:    entry.ID,
		Name:  entry.Name,
		Price: entry.Price,
	}, nil
}

func toResponse(record *usagedomain.UsageRecord) *usagedomain.Response {
	return &usagedomain.Response{
		ID:          record.ID,
		ResidentID:  record.ResidentID,
		ServiceID:   record.ServiceID,
		ServiceName: record.ServiceName,
		Date:        record.Date,
		Quantity:    record.Quantity,
		UnitPrice:   record.UnitPrice,
		TotalAmount: record.TotalAmount,
		Status:      record.Status,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
