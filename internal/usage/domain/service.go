package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Record(ctx context.Context, req RecordRequest) (*Response, error)
	ListUnbilled(ctx context.Context, residentID string) ([]Response, error)
	ListByResident(ctx context.Context, residentID string) ([]Response, error)
}

type RecordRequest struct {
	ResidentID string    `json:"residentId"`
	ServiceID  string    `json:"serviceId"`
	Quantity   int64     `json:"quantity"`
	Date       time.Time `json:"date"`
}

// Response is the wire view of a usage record.
type Response struct {
	ID          snowflake.ID `json:"id"`
	ResidentID  snowflake.ID `json:"residentId"`
	ServiceID   snowflake.ID `json:"serviceId"`
	ServiceName string       `json:"serviceName"`
	Date        time.Time    `json:"date"`
	Quantity    int64        `json:"quantity"`
	UnitPrice   int64        `json:"unitPrice"`
	TotalAmount int64        `json:"totalAmount"`
	Status      Status       `json:"status"`
}

var (
	ErrInvalidResident = errors.New("invalid_resident")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrUnknownService  = errors.New("unknown_service")
)
