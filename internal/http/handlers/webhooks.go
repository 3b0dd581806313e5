package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payments"
)

type WebhookHandler struct {
	Logger  *slog.Logger
	Service *payments.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, svc *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Service: svc}
}

// POST /webhooks/payarc
// Status contract: 200 processed or intentional no-op, 400 malformed,
// 401 bad signature, 404 webhooks disabled, 500 processing failure
// (so the gateway retries).
func (h *WebhookHandler) Handle(c *gin.Context) {
	// A disabled endpoint answers before the body is touched.
	if !h.Service.Enabled() {
		c.String(http.StatusNotFound, "not found")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid body")
		return
	}

	err = h.Service.Process(c.Request.Context(), c.Request.Header, body)
	switch {
	case err == nil:
		c.String(http.StatusOK, "OK")
	case errors.Is(err, payments.ErrWebhooksDisabled):
		c.String(http.StatusNotFound, "not found")
	case errors.Is(err, payments.ErrBadPayload):
		c.String(http.StatusBadRequest, "bad request")
	case errors.Is(err, payments.ErrBadSignature):
		// No detail to the caller beyond the status.
		c.String(http.StatusUnauthorized, "unauthorized")
	default:
		h.Logger.Error("webhook apply failed", "err", err)
		c.String(http.StatusInternalServerError, "error")
	}
}
