package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

// ErrTooManyRequests is returned by rate-limited endpoints.
var ErrTooManyRequests = errors.New("too_many_requests")

func invalidRequestError() error {
	return ledgerdomain.NewValidationError("request", "malformed payload")
}

// AbortWithError maps domain errors onto HTTP responses. Validation failures
// are 400s, business-rule rejections are 409s carrying the detail the caller
// needs to resolve them, and unknown errors collapse to an opaque 500.
func AbortWithError(c *gin.Context, err error) {
	var verr *ledgerdomain.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code":   "invalid_request",
			"field":  verr.Field,
			"reason": verr.Reason,
		}})
		return
	}

	var conflict *ledgerdomain.ConflictError
	if errors.As(err, &conflict) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": gin.H{
			"code":           "assignment_overlap",
			"conflict_start": conflict.Start.Format(time.DateOnly),
			"conflict_end":   conflict.End.Format(time.DateOnly),
		}})
		return
	}

	var dup *ledgerdomain.DuplicateError
	if errors.As(err, &dup) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": gin.H{
			"code":           "duplicate_transaction",
			"transaction_id": dup.TransactionID,
		}})
		return
	}

	var outstanding *ledgerdomain.OutstandingBalanceError
	if errors.As(err, &outstanding) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": gin.H{
			"code":    "outstanding_balance",
			"balance": outstanding.Balance,
		}})
		return
	}

	switch {
	case errors.Is(err, ledgerdomain.ErrResidentNotFound),
		errors.Is(err, ledgerdomain.ErrPlanNotFound),
		errors.Is(err, ledgerdomain.ErrPaymentNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": gin.H{
			"code": err.Error(),
		}})
	case errors.Is(err, ErrTooManyRequests):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{
			"code": "too_many_requests",
		}})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code": "internal_error",
		}})
	}
}
