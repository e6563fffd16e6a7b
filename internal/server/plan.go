package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

type planRequest struct {
	Name         string   `json:"name"`
	Meals        []string `json:"meals"`
	MonthlyPrice int64    `json:"monthly_price"`
}

func (s *Server) CreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.CreatePlan(c.Request.Context(), ledgerdomain.CreatePlanRequest{
		Name:         strings.TrimSpace(req.Name),
		Meals:        req.Meals,
		MonthlyPrice: req.MonthlyPrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPlans(c *gin.Context) {
	snapshot, err := s.ledgerSvc.Snapshot(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snapshot.Plans})
}

func (s *Server) UpdatePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.UpdatePlan(c.Request.Context(), ledgerdomain.UpdatePlanRequest{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Meals:        req.Meals,
		MonthlyPrice: req.MonthlyPrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
