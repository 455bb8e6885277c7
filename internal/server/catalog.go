package server

import (
	"net/http"

	catalogdomain "github.com/careops/carehome/internal/catalog/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListPriceEntries(c *gin.Context) {
	category := catalogdomain.Category(c.Query("category"))

	items, err := s.catalogSvc.List(c.Request.Context(), category)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": items})
}

func (s *Server) CreatePriceEntry(c *gin.Context) {
	var req catalogdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entry, err := s.catalogSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (s *Server) GetPriceEntry(c *gin.Context) {
	entry, err := s.catalogSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *Server) UpdatePriceEntry(c *gin.Context) {
	var req catalogdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	entry, err := s.catalogSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *Server) DeactivatePriceEntry(c *gin.Context) {
	if err := s.catalogSvc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ResolvePrice(c *gin.Context) {
	category := catalogdomain.Category(c.Query("category"))
	tierCode := c.Query("tierCode")

	entry, err := s.catalogSvc.Resolve(c.Request.Context(), category, tierCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       entry.ID,
		"name":     entry.Name,
		"category": entry.Category,
		"price":    entry.Price,
		"tierCode": entry.TierCode,
	})
}
