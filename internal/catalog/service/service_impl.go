package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	pkgdb "github.com/careops/carehome/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  catalogdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  catalogdomain.Repository
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Resolve looks up the active price entry for a tier code, walking the
// category's fallback chain before giving up with ErrPriceUnresolved.
func (s *Service) Resolve(ctx context.Context, category catalogdomain.Category, tierCode string) (*catalogdomain.PriceEntry, error) {
	parsed, err := parseCategory(category)
	if err != nil {
		return nil, err
	}

	for _, code := range fallbackChain(parsed, strings.TrimSpace(tierCode)) {
		entry, err := s.repo.FindActive(ctx, s.db, parsed, code)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return entry, nil
		}
	}

	s.log.Warn("price unresolved after fallback",
		zap.String("category", string(parsed)),
		zap.String("tier_code", tierCode),
	)
	return nil, catalogdomain.ErrPriceUnresolved
}

// fallbackChain returns the tier codes to try, most specific first. The
// 4-bed tier is the terminal fallback for room and care fees; the standard
// plan is the terminal fallback for meals.
func fallbackChain(category catalogdomain.Category, tierCode string) []string {
	chain := make([]string, 0, 2)
	if tierCode != "" {
		chain = append(chain, tierCode)
	}

	switch category {
	case catalogdomain.CategoryRoom:
		if tierCode != string(catalogdomain.Tier4Bed) {
			chain = append(chain, string(catalogdomain.Tier4Bed))
		}
	case catalogdomain.CategoryCare:
		if level, ok := careLevelFromCode(tierCode); ok {
			fallback := catalogdomain.CareTierCode(level, catalogdomain.Tier4Bed)
			if fallback != tierCode {
				chain = append(chain, fallback)
			}
		}
	case catalogdomain.CategoryMeal:
		if tierCode != catalogdomain.MealTierStandard {
			chain = append(chain, catalogdomain.MealTierStandard)
		}
	}

	return chain
}

// careLevelFromCode extracts the level from a composite code like "CL2_2-bed".
func careLevelFromCode(tierCode string) (int, bool) {
	if !strings.HasPrefix(tierCode, "CL") {
		return 0, false
	}
	rest := strings.TrimPrefix(tierCode, "CL")
	idx := strings.IndexByte(rest, '_')
	if idx <= 0 {
		return 0, false
	}
	switch rest[:idx] {
	case "1":
		return 1, true
	case "2":
		return 2, true
	case "3":
		return 3, true
	case "4":
		return 4, true
	default:
		return 0, false
	}
}

func (s *Service) Create(ctx context.Context, req catalogdomain.CreateRequest) (*catalogdomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	billingType, err := parseBillingType(req.BillingType)
	if err != nil {
		return nil, err
	}
	if req.Price < 0 {
		return nil, catalogdomain.ErrInvalidPrice
	}

	now := time.Now().UTC()
	entry := &catalogdomain.PriceEntry{
		ID:          s.genID.Generate(),
		Name:        name,
		Category:    category,
		Price:       req.Price,
		Unit:        strings.TrimSpace(req.Unit),
		BillingType: billingType,
		TierCode:    strings.TrimSpace(req.TierCode),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if entry.TierCode != "" {
			count, err := s.repo.CountActive(ctx, tx, category, entry.TierCode, 0)
			if err != nil {
				return err
			}
			if count > 0 {
				return catalogdomain.ErrDuplicateTier
			}
		}
		return s.repo.Insert(ctx, tx, entry)
	})
	if err != nil {
		// The partial unique index catches a concurrent create that slipped
		// past the count check.
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, catalogdomain.ErrDuplicateTier
		}
		return nil, err
	}

	return toResponse(entry), nil
}

func (s *Service) Update(ctx context.Context, req catalogdomain.UpdateRequest) (*catalogdomain.Response, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, catalogdomain.ErrInvalidID
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, catalogdomain.ErrInvalidPrice
	}

	var entry *catalogdomain.PriceEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return catalogdomain.ErrNotFound
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return catalogdomain.ErrInvalidName
			}
			entry.Name = name
		}
		if req.Price != nil {
			entry.Price = *req.Price
		}
		if req.Unit != nil {
			entry.Unit = strings.TrimSpace(*req.Unit)
		}
		if req.TierCode != nil {
			entry.TierCode = strings.TrimSpace(*req.TierCode)
		}
		entry.UpdatedAt = time.Now().UTC()

		if entry.Active && entry.TierCode != "" {
			count, err := s.repo.CountActive(ctx, tx, entry.Category, entry.TierCode, entry.ID)
			if err != nil {
				return err
			}
			if count > 0 {
				return catalogdomain.ErrDuplicateTier
			}
		}

		return s.repo.Update(ctx, tx, entry)
	})
	if err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, catalogdomain.ErrDuplicateTier
		}
		return nil, err
	}

	return toResponse(entry), nil
}

// Deactivate is a logical delete. Historical usage records keep their
// snapshotted prices, so no catalog row is ever physically removed.
func (s *Service) Deactivate(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return catalogdomain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return catalogdomain.ErrNotFound
		}
		if !entry.Active {
			return nil
		}
		entry.Active = false
		entry.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, tx, entry)
	})
}

func (s *Service) List(ctx context.Context, category catalogdomain.Category) ([]catalogdomain.Response, error) {
	if category != "" {
		parsed, err := parseCategory(category)
		if err != nil {
			return nil, err
		}
		category = parsed
	}

	items, err := s.repo.List(ctx, s.db, category)
	if err != nil {
		return nil, err
	}

	resp := make([]catalogdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (*catalogdomain.Response, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, catalogdomain.ErrInvalidID
	}

	entry, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, catalogdomain.ErrNotFound
	}
	return toResponse(entry), nil
}

func toResponse(entry *catalogdomain.PriceEntry) *catalogdomain.Response {
	return &catalogdomain.Response{
		ID:          entry.ID,
		Name:        entry.Name,
		Category:    entry.Category,
		Price:       entry.Price,
		Unit:        entry.Unit,
		BillingType: entry.BillingType,
		TierCode:    entry.TierCode,
		Active:      entry.Active,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

func parseCategory(value catalogdomain.Category) (catalogdomain.Category, error) {
	switch strings.ToUpper(strings.TrimSpace(string(value))) {
	case string(catalogdomain.CategoryRoom):
		return catalogdomain.CategoryRoom, nil
	case string(catalogdomain.CategoryCare):
		return catalogdomain.CategoryCare, nil
	case string(catalogdomain.CategoryMeal):
		return catalogdomain.CategoryMeal, nil
	case string(catalogdomain.CategoryOther):
		return catalogdomain.CategoryOther, nil
	default:
		return "", catalogdomain.ErrInvalidCategory
	}
}

func parseBillingType(value catalogdomain.BillingType) (catalogdomain.BillingType, error) {
	switch strings.ToUpper(strings.TrimSpace(string(value))) {
	case string(catalogdomain.BillingTypeFixed):
		return catalogdomain.BillingTypeFixed, nil
	case string(catalogdomain.BillingTypeOneOff):
		return catalogdomain.BillingTypeOneOff, nil
	default:
		return "", catalogdomain.ErrInvalidBillingType
	}
}
