package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

type createResidentRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Room  string `json:"room"`
}

func (s *Server) CreateResident(c *gin.Context) {
	var req createResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.CreateResident(c.Request.Context(), ledgerdomain.CreateResidentRequest{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Room:  strings.TrimSpace(req.Room),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type residentSummary struct {
	ledgerdomain.ResidentBalance
	Subscription ledgerdomain.SubscriptionStatus `json:"subscription"`
}

func (s *Server) ListResidents(c *gin.Context) {
	snapshot, err := s.ledgerSvc.Snapshot(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	now := s.clock.Now()
	balances := snapshot.ResidentsWithBalances()
	out := make([]residentSummary, 0, len(balances))
	for _, rb := range balances {
		out = append(out, residentSummary{
			ResidentBalance: rb,
			Subscription:    snapshot.ClassifyResident(rb.ID, now),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) GetResident(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	snapshot, err := s.ledgerSvc.Snapshot(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	resident := snapshot.ResidentByID(id)
	if resident == nil {
		AbortWithError(c, ledgerdomain.ErrResidentNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"resident":     resident,
		"balance":      snapshot.BalanceOf(id),
		"subscription": snapshot.ClassifyResident(id, s.clock.Now()),
		"assignments":  snapshot.AssignmentsOf(id),
		"payments":     snapshot.PaymentsOf(id),
	}})
}

func (s *Server) DeleteResident(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.ledgerSvc.DeleteResident(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, ledgerdomain.NewValidationError("id", "malformed identifier"))
		return 0, false
	}
	return id, true
}
