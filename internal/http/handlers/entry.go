package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shmulikmak/gf-payarc-add-on/internal/http/middleware"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
	"github.com/shmulikmak/gf-payarc-add-on/internal/shared/apperr"
)

type EntryHandler struct {
	Logger *slog.Logger
	Store  entries.Store
}

func NewEntryHandler(logger *slog.Logger, store entries.Store) *EntryHandler {
	return &EntryHandler{Logger: logger, Store: store}
}

// GET /api/entries/:entry_id (admin) — the payment details panel.
func (h *EntryHandler) Get(c *gin.Context) {
	entryID, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid entry id.", nil))
		return
	}

	entry, err := h.Store.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		if err == entries.ErrNotFound {
			middleware.Fail(c, apperr.NotFoundErr("Entry not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	notes, err := h.Store.ListNotes(c.Request.Context(), entryID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry_id":       entry.ID,
		"form_id":        entry.FormID,
		"payment_status": entry.PaymentStatus,
		"transaction_id": entry.TransactionID,
		"payment_amount": entry.PaymentAmount,
		"payment_date":   entry.PaymentDate,
		"payment_method": entry.PaymentMethod,
		"currency":       entry.Currency,
		"notes":          notes,
	})
}
