package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service manages the price catalog and resolves fees for invoicing.
//
// Resolve applies a deterministic fallback chain: an exact (category, tier
// code) match wins; ROOM and CARE lookups fall back to the 4-bed tier; MEAL
// falls back to the standard plan. ErrPriceUnresolved is returned only after
// the chain is exhausted, and callers on the invoice path degrade it to a
// zero fee rather than failing.
type Service interface {
	Resolve(ctx context.Context, category Category, tierCode string) (*PriceEntry, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, category Category) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Price       int64       `json:"price"`
	Unit        string      `json:"unit"`
	BillingType BillingType `json:"billingType"`
	TierCode    string      `json:"tierCode"`
}

type UpdateRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Price    *int64  `json:"price"`
	Unit     *string `json:"unit"`
	TierCode *string `json:"tierCode"`
}

type Response struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Category    Category     `json:"category"`
	Price       int64        `json:"price"`
	Unit        string       `json:"unit"`
	BillingType BillingType  `json:"billingType"`
	TierCode    string       `json:"tierCode,omitempty"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidPrice       = errors.New("invalid_price")
	ErrInvalidBillingType = errors.New("invalid_billing_type")
	ErrInvalidID          = errors.New("invalid_id")
	ErrDuplicateTier      = errors.New("duplicate_tier")
	ErrPriceUnresolved    = errors.New("price_unresolved")
	ErrNotFound           = errors.New("not_found")
)
