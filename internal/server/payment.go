package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

type recordPaymentRequest struct {
	ResidentID    string  `json:"resident_id"`
	Amount        int64   `json:"amount"`
	PaidAt        string  `json:"paid_at"`
	Mode          string  `json:"mode"`
	TransactionID *string `json:"transaction_id"`
	Note          *string `json:"note"`
	Status        string  `json:"status"`
}

// RecordPayment is the admin entry point. Status defaults to verified and may
// be set to pending explicitly.
func (s *Server) RecordPayment(c *gin.Context) {
	req, ok := s.bindPayment(c)
	if !ok {
		return
	}

	resp, err := s.ledgerSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// PortalRecordPayment is the self-service entry point. Every submission lands
// as pending regardless of what the caller sent, and the endpoint is
// throttled per client IP.
func (s *Server) PortalRecordPayment(c *gin.Context) {
	if !s.portalLimiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	req, ok := s.bindPayment(c)
	if !ok {
		return
	}
	req.Status = ledgerdomain.PaymentStatusPending

	resp, err := s.ledgerSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) bindPayment(c *gin.Context) (ledgerdomain.RecordPaymentRequest, bool) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return ledgerdomain.RecordPaymentRequest{}, false
	}

	residentID, err := snowflake.ParseString(strings.TrimSpace(req.ResidentID))
	if err != nil {
		AbortWithError(c, ledgerdomain.NewValidationError("resident_id", "malformed identifier"))
		return ledgerdomain.RecordPaymentRequest{}, false
	}

	var paidAt time.Time
	if strings.TrimSpace(req.PaidAt) != "" {
		paidAt, err = time.Parse(time.RFC3339, strings.TrimSpace(req.PaidAt))
		if err != nil {
			AbortWithError(c, ledgerdomain.NewValidationError("paid_at", "must be RFC 3339"))
			return ledgerdomain.RecordPaymentRequest{}, false
		}
	}

	return ledgerdomain.RecordPaymentRequest{
		ResidentID:    residentID,
		Amount:        req.Amount,
		PaidAt:        paidAt,
		Mode:          ledgerdomain.PaymentMode(strings.TrimSpace(req.Mode)),
		TransactionID: req.TransactionID,
		Note:          req.Note,
		Status:        ledgerdomain.PaymentStatus(strings.TrimSpace(req.Status)),
	}, true
}

func (s *Server) ListPendingPayments(c *gin.Context) {
	snapshot, err := s.ledgerSvc.Snapshot(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snapshot.PendingPayments()})
}

func (s *Server) VerifyPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.ledgerSvc.VerifyPayment(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) RejectPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.ledgerSvc.RejectPayment(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
