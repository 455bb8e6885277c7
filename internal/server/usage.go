package server

import (
	"net/http"
	"strings"

	usagedomain "github.com/careops/carehome/internal/usage/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) RecordUsage(c *gin.Context) {
	var req usagedomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	record, err := s.usageSvc.Record(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (s *Server) ListUsage(c *gin.Context) {
	residentID := c.Param("id")

	var (
		items []usagedomain.Response
		err   error
	)
	if strings.EqualFold(c.Query("status"), string(usagedomain.StatusUnbilled)) {
		items, err = s.usageSvc.ListUnbilled(c.Request.Context(), residentID)
	} else {
		items, err = s.usageSvc.ListByResident(c.Request.Context(), residentID)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usage": items})
}
