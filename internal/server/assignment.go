package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

type assignPlanRequest struct {
	ResidentID string `json:"resident_id"`
	PlanID     string `json:"plan_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (s *Server) AssignPlan(c *gin.Context) {
	var req assignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	residentID, err := snowflake.ParseString(strings.TrimSpace(req.ResidentID))
	if err != nil {
		AbortWithError(c, ledgerdomain.NewValidationError("resident_id", "malformed identifier"))
		return
	}
	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
	if err != nil {
		AbortWithError(c, ledgerdomain.NewValidationError("plan_id", "malformed identifier"))
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		AbortWithError(c, ledgerdomain.NewValidationError("start_date", "must be YYYY-MM-DD"))
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		AbortWithError(c, ledgerdomain.NewValidationError("end_date", "must be YYYY-MM-DD"))
		return
	}

	resp, err := s.ledgerSvc.AssignPlan(c.Request.Context(), ledgerdomain.AssignPlanRequest{
		ResidentID: residentID,
		PlanID:     planID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), time.UTC)
}
