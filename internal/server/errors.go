package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/careops/carehome/internal/billing/domain"
	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	invoicedomain "github.com/careops/carehome/internal/invoice/domain"
	ledgerdomain "github.com/careops/carehome/internal/ledger/domain"
	residentdomain "github.com/careops/carehome/internal/resident/domain"
	usagedomain "github.com/careops/carehome/internal/usage/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: "validation error",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, catalogdomain.ErrPriceUnresolved):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Code:    "price_unresolved",
			Message: "no price entry resolves for this tier",
		}
	case errors.Is(err, catalogdomain.ErrDuplicateTier):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    "duplicate_tier",
			Message: "an active entry already matches this tier",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, billingdomain.ErrInvalidAmount),
		errors.Is(err, billingdomain.ErrInvalidResident),
		errors.Is(err, billingdomain.ErrInvalidType),
		errors.Is(err, billingdomain.ErrInvalidDesc),
		errors.Is(err, billingdomain.ErrInvalidUsageID),
		errors.Is(err, usagedomain.ErrUnknownService),
		errors.Is(err, usagedomain.ErrInvalidQuantity),
		errors.Is(err, usagedomain.ErrInvalidResident),
		errors.Is(err, invoicedomain.ErrInvalidResident),
		errors.Is(err, invoicedomain.ErrInvalidAdHoc),
		errors.Is(err, ledgerdomain.ErrInvalidResident),
		errors.Is(err, ledgerdomain.ErrInvalidStatus),
		errors.Is(err, ledgerdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidCategory),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, catalogdomain.ErrInvalidBillingType),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, residentdomain.ErrInvalidCareLevel):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrNotFound),
		errors.Is(err, residentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
