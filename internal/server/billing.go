package server

import (
	"net/http"
	"strings"

	billingdomain "github.com/careops/carehome/internal/billing/domain"
	ledgerdomain "github.com/careops/carehome/internal/ledger/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) ApplyPayment(c *gin.Context) {
	var req billingdomain.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Callers that do not supply a key still get one, so a client retry of
	// the exact request body after a timeout stays distinguishable from a
	// new payment only when the caller manages the key. Header wins.
	if key := strings.TrimSpace(c.GetHeader("Idempotency-Key")); key != "" {
		req.IdempotencyKey = key
	}
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	txn, err := s.billingSvc.ApplyPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

func (s *Server) RecordManualTransaction(c *gin.Context) {
	var req billingdomain.ManualTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	txn, err := s.billingSvc.RecordManualTransaction(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

func (s *Server) ResidentStatement(c *gin.Context) {
	statement, err := s.billingSvc.Statement(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}

func (s *Server) RecomputeBalance(c *gin.Context) {
	balance, err := s.billingSvc.RecomputeBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

type correctStatusRequest struct {
	Status string `json:"status"`
}

// CorrectTransactionStatus fixes a Pending or Failed ledger row. This is the
// only post-creation mutation the cash ledger allows.
func (s *Server) CorrectTransactionStatus(c *gin.Context) {
	var req correctStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err := s.billingSvc.CorrectTransactionStatus(c.Request.Context(), c.Param("id"), ledgerdomain.TransactionStatus(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListTransactions(c *gin.Context) {
	items, err := s.ledgerSvc.ListByResident(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": items})
}
