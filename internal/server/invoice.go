package server

import (
	"errors"
	"io"
	"net/http"

	invoicedomain "github.com/careops/carehome/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

type previewInvoiceRequest struct {
	Period     string                    `json:"period"`
	AdHocItems []invoicedomain.AdHocItem `json:"adHocItems"`
}

// PreviewInvoice recomputes an invoice for display. An empty body previews
// the recurring fees plus unbilled usage with no ad-hoc items.
func (s *Server) PreviewInvoice(c *gin.Context) {
	var req previewInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.invoiceSvc.Assemble(c.Request.Context(), invoicedomain.AssembleRequest{
		ResidentID: c.Param("id"),
		Period:     req.Period,
		AdHocItems: req.AdHocItems,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
