package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/careops/carehome/internal/billing/domain"
	ledgerdomain "github.com/careops/carehome/internal/ledger/domain"
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
	GenID        *snowflake.Node
	LedgerRepo   ledgerdomain.Repository
	UsageRepo    usagedomain.Repository
	ResidentRepo residentdomain.Repository
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	ledgerRepo   ledgerdomain.Repository
	usageRepo    usagedomain.Repository
	residentRepo residentdomain.Repository
	obsMetrics   *obsmetrics.Metrics
}

func New(p Params) billingdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("billing.service"),
		genID:        p.GenID,
		ledgerRepo:   p.LedgerRepo,
		usageRepo:    p.UsageRepo,
		residentRepo: p.ResidentRepo,
		obsMetrics:   p.ObsMetrics,
	}
}

// ApplyPayment runs the whole confirmation as one storage transaction:
//
//  1. append the IN cash row (ON CONFLICT on the idempotency key)
//  2. balance = balance + amount, as a single atomic UPDATE
//  3. transition the supplied usage ids Unbilled -> Billed
//
// A duplicate idempotency key means a prior attempt already committed; the
// stored transaction is returned and only the idempotent billing transition
// is re-applied, so retries after a timeout converge on the same final state
// without double-counting the balance.
func (s *Service) ApplyPayment(ctx context.Context, req billingdomain.ApplyPaymentRequest) (*ledgerdomain.Response, error) {
	residentID, err := parseID(req.ResidentID)
	if err != nil {
		return nil, billingdomain.ErrInvalidResident
	}
	if req.Amount <= 0 {
		return nil, billingdomain.ErrInvalidAmount
	}

	usageIDs, err := parseIDs(req.UnbilledIDs)
	if err != nil {
		return nil, billingdomain.ErrInvalidUsageID
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Payment received"
	}

	now := time.Now().UTC()
	txn := &ledgerdomain.Transaction{
		ID:          s.genID.Generate(),
		Date:        now,
		ResidentID:  residentID,
		Description: description,
		Amount:      req.Amount,
		Type:        ledgerdomain.TypeIn,
		Performer:   strings.TrimSpace(req.Performer),
		Status:      ledgerdomain.StatusSuccess,
		CreatedAt:   now,
	}
	if key != "" {
		txn.IdempotencyKey = &key
	}

	var (
		result *ledgerdomain.Transaction
		billed int64
		replay bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := s.ledgerRepo.Insert(ctx, tx, txn)
		if err != nil {
			return err
		}

		if inserted {
			if err := s.residentRepo.AddToBalance(ctx, tx, residentID, req.Amount); err != nil {
				return err
			}
			result = txn
		} else {
			existing, err := s.ledgerRepo.FindByIdempotencyKey(ctx, tx, key)
			if err != nil {
				return err
			}
			if existing == nil {
				return ledgerdomain.ErrNotFound
			}
			result = existing
			replay = true
		}

		// Last on purpose: the transition is idempotent per id, so a replay
		// after a partial earlier attempt completes the billing without any
		// compensating rollback.
		billed, err = s.usageRepo.MarkBilled(ctx, tx, usageIDs)
		return err
	})
	if err != nil {
		s.obsMetrics.RecordPayment("error", 0, 0)
		return nil, err
	}

	outcome := "applied"
	appliedAmount := req.Amount
	if replay {
		outcome = "replayed"
		appliedAmount = 0
	}
	s.obsMetrics.RecordPayment(outcome, appliedAmount, billed)

	s.log.Info("payment applied",
		zap.String("resident_id", residentID.String()),
		zap.Int64("amount", req.Amount),
		zap.Int64("usage_billed", billed),
		zap.Bool("replay", replay),
	)

	return toResponse(result), nil
}

func (s *Service) RecordManualTransaction(ctx context.Context, req billingdomain.ManualTransactionRequest) (*ledgerdomain.Response, error) {
	residentID, err := parseID(req.ResidentID)
	if err != nil {
		return nil, billingdomain.ErrInvalidResident
	}
	if req.Amount <= 0 {
		return nil, billingdomain.ErrInvalidAmount
	}

	txnType, err := parseType(req.Type)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, billingdomain.ErrInvalidDesc
	}

	now := time.Now().UTC()
	txn := &ledgerdomain.Transaction{
		ID:          s.genID.Generate(),
		Date:        now,
		ResidentID:  residentID,
		Description: description,
		Amount:      req.Amount,
		Type:        txnType,
		Performer:   strings.TrimSpace(req.Performer),
		Status:      ledgerdomain.StatusSuccess,
		CreatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ledgerRepo.Insert(ctx, tx, txn); err != nil {
			return err
		}
		return s.residentRepo.AddToBalance(ctx, tx, residentID, txn.SignedAmount())
	})
	if err != nil {
		return nil, err
	}

	return toResponse(txn), nil
}

func (s *Service) Statement(ctx context.Context, rawResidentID string) (*billingdomain.StatementResponse, error) {
	residentID, err := parseID(rawResidentID)
	if err != nil {
		return nil, billingdomain.ErrInvalidResident
	}

	profile, err := s.residentRepo.FindByID(ctx, s.db, residentID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, residentdomain.ErrNotFound
	}

	ledgerBalance, err := s.ledgerRepo.SumByResident(ctx, s.db, residentID)
	if err != nil {
		return nil, err
	}

	items, err := s.ledgerRepo.ListByResident(ctx, s.db, residentID)
	if err != nil {
		return nil, err
	}

	consistent := profile.Balance == ledgerBalance
	if !consistent {
		s.obsMetrics.RecordBalanceDrift()
		s.log.Warn("cached balance drifted from ledger",
			zap.String("resident_id", residentID.String()),
			zap.Int64("cached", profile.Balance),
			zap.Int64("ledger", ledgerBalance),
		)
	}

	resp := &billingdomain.StatementResponse{
		ResidentID:    residentID.String(),
		Balance:       profile.Balance,
		LedgerBalance: ledgerBalance,
		Consistent:    consistent,
		Transactions:  make([]ledgerdomain.Response, 0, len(items)),
	}
	for i := range items {
		resp.Transactions = append(resp.Transactions, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) RecomputeBalance(ctx context.Context, rawResidentID string) (int64, error) {
	residentID, err := parseID(rawResidentID)
	if err != nil {
		return 0, billingdomain.ErrInvalidResident
	}

	var ledgerBalance int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledgerBalance, err = s.ledgerRepo.SumByResident(ctx, tx, residentID)
		if err != nil {
			return err
		}
		return s.residentRepo.SetBalance(ctx, tx, residentID, ledgerBalance)
	})
	if err != nil {
		return 0, err
	}
	return ledgerBalance, nil
}

func (s *Service) CorrectTransactionStatus(ctx context.Context, rawID string, status ledgerdomain.TransactionStatus) error {
	id, err := parseID(rawID)
	if err != nil {
		return ledgerdomain.ErrInvalidID
	}
	switch status {
	case ledgerdomain.StatusSuccess, ledgerdomain.StatusPending, ledgerdomain.StatusFailed:
	default:
		return ledgerdomain.ErrInvalidStatus
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := s.ledgerRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if txn == nil {
			return ledgerdomain.ErrNotFound
		}
		if txn.Status == status {
			return nil
		}

		if err := s.ledgerRepo.UpdateStatus(ctx, tx, id, status); err != nil {
			return err
		}

		// Only Success rows count toward the ledger sum, so the cached
		// balance moves by the contribution entering or leaving it.
		var delta int64
		if txn.Status == ledgerdomain.StatusSuccess {
			delta -= txn.SignedAmount()
		}
		if status == ledgerdomain.StatusSuccess {
			delta += txn.SignedAmount()
		}
		if delta == 0 {
			return nil
		}

		s.log.Info("transaction status corrected",
			zap.String("transaction_id", id.String()),
			zap.String("status", string(status)),
			zap.Int64("balance_delta", delta),
		)
		return s.residentRepo.AddToBalance(ctx, tx, txn.ResidentID, delta)
	})
}

func toResponse(txn *ledgerdomain.Transaction) *ledgerdomain.Response {
	return &ledgerdomain.Response{
		ID:          txn.ID,
		Date:        txn.Date,
		ResidentID:  txn.ResidentID,
		Description: txn.Description,
		Amount:      txn.Amount,
		Type:        txn.Type,
		Performer:   txn.Performer,
		Status:      txn.Status,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

func parseIDs(values []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(values))
	for _, value := range values {
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseType(value string) (ledgerdomain.TransactionType, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(ledgerdomain.TypeIn):
		return ledgerdomain.TypeIn, nil
	case string(ledgerdomain.TypeOut):
		return ledgerdomain.TypeOut, nil
	default:
		return "", billingdomain.ErrInvalidType
	}
}
