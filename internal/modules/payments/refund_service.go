package payments

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/feeds"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payarc"
	"github.com/shmulikmak/gf-payarc-add-on/internal/shared/apperr"
)

const defaultRefundReason = "requested_by_customer"

var transactionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type RefundService struct {
	gateway Gateway
	store   entries.Store
	feeds   FeedSource
	logger  *slog.Logger
}

func NewRefundService(gateway Gateway, store entries.Store, feedSource FeedSource, logger *slog.Logger) *RefundService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefundService{gateway: gateway, store: store, feeds: feedSource, logger: logger}
}

type RefundResult struct {
	RefundID string
	EntryID  int64
}

// Refund refunds an entry's charge. The caller is already authenticated;
// this only validates the entry side. On gateway failure the entry is
// left untouched so the action can be retried.
func (s *RefundService) Refund(ctx context.Context, entryID int64, reason string) (RefundResult, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		if err == entries.ErrNotFound {
			return RefundResult{}, apperr.NotFoundErr("Entry not found.")
		}
		return RefundResult{}, apperr.Wrap(err)
	}

	if entry.TransactionID == "" || !transactionIDPattern.MatchString(entry.TransactionID) {
		return RefundResult{}, apperr.InvalidErr("Entry has no refundable transaction.", nil)
	}

	if _, err := s.feeds.ActiveForForm(ctx, entry.FormID); err != nil {
		if err == feeds.ErrNoFeed {
			return RefundResult{}, apperr.InvalidErr("No payment feed configured for this form.", nil)
		}
		return RefundResult{}, apperr.Wrap(err)
	}

	if reason == "" {
		reason = defaultRefundReason
	}

	refundID, err := s.gateway.CreateRefund(ctx, entry.TransactionID, reason)
	if err != nil {
		s.logger.ErrorContext(ctx, "refund failed",
			"entry_id", entryID, "transaction_id", entry.TransactionID, "err", err)
		return RefundResult{}, apperr.GatewayErr(payarc.UserMessage(err), err)
	}

	// payment_date stays: it records the original payment, not the refund.
	entry.PaymentStatus = entries.StatusRefunded
	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return RefundResult{}, apperr.Wrap(err)
	}

	note := fmt.Sprintf("Refund %s processed at %s.", refundID, time.Now().UTC().Format(time.RFC3339))
	if err := s.store.AddNote(ctx, entryID, noteAuthor, note, entries.NoteSuccess); err != nil {
		s.logger.WarnContext(ctx, "refund note not written", "entry_id", entryID, "err", err)
	}

	s.logger.InfoContext(ctx, "entry refunded",
		"entry_id", entryID, "transaction_id", entry.TransactionID, "refund_id", refundID)
	return RefundResult{RefundID: refundID, EntryID: entryID}, nil
}
