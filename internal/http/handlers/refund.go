package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shmulikmak/gf-payarc-add-on/internal/http/middleware"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payments"
	"github.com/shmulikmak/gf-payarc-add-on/internal/shared/apperr"
)

type RefundHandler struct {
	Logger  *slog.Logger
	Service *payments.RefundService
}

func NewRefundHandler(logger *slog.Logger, svc *payments.RefundService) *RefundHandler {
	return &RefundHandler{Logger: logger, Service: svc}
}

type refundRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=128"`
}

// POST /api/entries/:entry_id/refund (admin)
// A gateway failure leaves the entry untouched so the action can be
// retried from the admin screen.
func (h *RefundHandler) Refund(c *gin.Context) {
	entryID, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid entry id.", nil))
		return
	}

	var req refundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.Fail(c, apperr.InvalidErr("Request body is invalid.", nil))
			return
		}
	}

	result, err := h.Service.Refund(c.Request.Context(), entryID, req.Reason)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry_id":       result.EntryID,
		"refund_id":      result.RefundID,
		"payment_status": entries.StatusRefunded,
	})
}
