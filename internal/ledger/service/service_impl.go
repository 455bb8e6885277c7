package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/careops/carehome/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo ledgerdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo ledgerdomain.Repository
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("ledger.service"),
		repo: p.Repo,
	}
}

func (s *Service) ListByResident(ctx context.Context, rawResidentID string) ([]ledgerdomain.Response, error) {
	residentID, err := snowflake.ParseString(strings.TrimSpace(rawResidentID))
	if err != nil {
		return nil, ledgerdomain.ErrInvalidResident
	}

	items, err := s.repo.ListByResident(ctx, s.db, residentID)
	if err != nil {
		return nil, err
	}

	resp := make([]ledgerdomain.Response, 0, len(items))
	for _, txn := range items {
		resp = append(resp, ledgerdomain.Response{
			ID:          txn.ID,
			Date:        txn.Date,
			ResidentID:  txn.ResidentID,
			Description: txn.Description,
			Amount:      txn.Amount,
			Type:        txn.Type,
			Performer:   txn.Performer,
			Status:      txn.Status,
		})
	}
	return resp, nil
}

func (s *Service) SumByResident(ctx context.Context, residentID snowflake.ID) (int64, error) {
	return s.repo.SumByResident(ctx, s.db, residentID)
}
