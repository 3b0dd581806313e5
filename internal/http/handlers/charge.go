package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shmulikmak/gf-payarc-add-on/internal/http/middleware"
	"github.com/shmulikmak/gf-payarc-add-on/internal/http/validation"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/feeds"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payments"
	"github.com/shmulikmak/gf-payarc-add-on/internal/shared/apperr"
)

type ChargeHandler struct {
	Logger  *slog.Logger
	Service *payments.Service
	Store   entries.Store
	Feeds   payments.FeedSource
}

func NewChargeHandler(logger *slog.Logger, svc *payments.Service, store entries.Store, feedSource payments.FeedSource) *ChargeHandler {
	return &ChargeHandler{Logger: logger, Service: svc, Store: store, Feeds: feedSource}
}

type chargeRequest struct {
	FormTitle      string            `json:"form_title"`
	CardNumber     string            `json:"card_number"`
	CardExpiry     string            `json:"card_expiry"` // MM/YY
	CardCVV        string            `json:"card_cvv"`
	CardholderName string            `json:"cardholder_name"`
	Email          string            `json:"email" binding:"omitempty,email"`
	PaymentAmount  string            `json:"payment_amount" binding:"required"`
	Currency       string            `json:"currency" binding:"required,oneof=USD EUR ILS"`
	Fields         map[string]string `json:"fields"`
}

// POST /api/forms/:form_id/entries
// Creates a pending entry and runs the authorize workflow on it. Card
// presence/expiry checks live in the workflow so a decline is reported
// the same way whatever step failed.
func (h *ChargeHandler) Create(c *gin.Context) {
	formID, err := strconv.ParseInt(c.Param("form_id"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid form id.", nil))
		return
	}

	var req chargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Request body is invalid.", validation.FromBindError(err, &req)))
		return
	}

	amount, err := decimal.NewFromString(req.PaymentAmount)
	if err != nil || amount.IsNegative() || amount.IsZero() {
		middleware.Fail(c, apperr.InvalidErr("Invalid payment amount.", map[string]string{"payment_amount": "Must be a positive decimal amount."}))
		return
	}

	feed, err := h.Feeds.ActiveForForm(c.Request.Context(), formID)
	if err != nil {
		if err == feeds.ErrNoFeed {
			middleware.Fail(c, apperr.InvalidErr("No payment feed configured for this form.", nil))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	entry := &entries.PaymentEntry{
		FormID:        formID,
		PaymentStatus: entries.StatusPending,
		PaymentAmount: amount,
		Currency:      req.Currency,
		Email:         req.Email,
	}
	if err := h.Store.CreateEntry(c.Request.Context(), entry); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	result := h.Service.Authorize(c.Request.Context(), feed, payments.Submission{
		EntryID:        entry.ID,
		FormID:         formID,
		FormTitle:      req.FormTitle,
		CardNumber:     req.CardNumber,
		CardExpiry:     req.CardExpiry,
		CardCVV:        req.CardCVV,
		CardholderName: req.CardholderName,
		Email:          req.Email,
		Amount:         amount,
		Currency:       req.Currency,
		Fields:         req.Fields,
	})

	if !result.Authorized {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"entry_id":       entry.ID,
			"payment_status": entries.StatusFailed,
			"error_message":  result.ErrorMessage,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry_id":       entry.ID,
		"payment_status": entries.StatusPaid,
		"transaction_id": result.TransactionID,
		"amount":         result.Amount,
		"currency":       req.Currency,
		"payment_date":   result.PaymentDate,
		"payment_method": result.PaymentMethod,
		"warnings":       result.Warnings,
	})
}
