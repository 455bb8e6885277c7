package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	residentdomain "github.com/careops/carehome/internal/resident/domain"
	"github.com/gin-gonic/gin"
)

type upsertProfileRequest struct {
	FullName  string  `json:"fullName"`
	RoomType  string  `json:"roomType"`
	CareLevel int     `json:"careLevel"`
	MealPlan  *string `json:"mealPlan"`
}

// UpsertResidentProfile ingests the billing projection of a resident from
// the directory. Balance is never written here; it only moves through the
// billing coordinator.
func (s *Server) UpsertResidentProfile(c *gin.Context) {
	residentID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.CareLevel < 1 || req.CareLevel > 4 {
		AbortWithError(c, residentdomain.ErrInvalidCareLevel)
		return
	}

	now := time.Now().UTC()
	profile := &residentdomain.BillingProfile{
		ResidentID: residentID,
		FullName:   strings.TrimSpace(req.FullName),
		RoomType:   strings.TrimSpace(req.RoomType),
		CareLevel:  req.CareLevel,
		MealPlan:   req.MealPlan,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.residentRepo.Upsert(c.Request.Context(), s.db, profile); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetResidentProfile(c *gin.Context) {
	residentID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	profile, err := s.residentRepo.FindByID(c.Request.Context(), s.db, residentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if profile == nil {
		AbortWithError(c, residentdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"residentId": profile.ResidentID,
		"fullName":   profile.FullName,
		"roomType":   profile.RoomType,
		"careLevel":  profile.CareLevel,
		"mealPlan":   profile.MealPlan,
		"balance":    profile.Balance,
	})
}
