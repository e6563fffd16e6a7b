package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	dashboarddomain "github.com/hosteldesk/messpro/internal/dashboard/domain"
	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

func (s *Server) DashboardStats(c *gin.Context) {
	period := strings.TrimSpace(c.Query("period"))
	if period == "" {
		period = dashboarddomain.PeriodAll
	}

	resp, err := s.dashboardSvc.Stats(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DashboardActivity(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			AbortWithError(c, ledgerdomain.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	resp, err := s.dashboardSvc.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DashboardOverdue(c *gin.Context) {
	resp, err := s.dashboardSvc.OverdueResidents(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
