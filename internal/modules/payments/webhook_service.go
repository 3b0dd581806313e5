package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
)

// Webhook outcomes the HTTP layer maps straight onto status codes.
var (
	ErrWebhooksDisabled = errors.New("webhooks disabled")
	ErrBadPayload       = errors.New("bad webhook payload")
	ErrBadSignature     = errors.New("bad webhook signature")
)

type WebhookConfig struct {
	Enabled bool
	Secret  string // empty: signature verification is skipped
}

// WebhookService reconciles entry payment status with asynchronous
// gateway events. A lookup miss is a success to the sender; only real
// processing failures after dispatch propagate.
type WebhookService struct {
	cfg    WebhookConfig
	store  entries.Store
	events EventLog
	logger *slog.Logger

	now func() time.Time
}

func NewWebhookService(cfg WebhookConfig, store entries.Store, events EventLog, logger *slog.Logger) *WebhookService {
	if logger == nil {
		logger = slog.Default()
	}
	if events == nil {
		events = NopEventLog{}
	}
	return &WebhookService{cfg: cfg, store: store, events: events, logger: logger, now: time.Now}
}

// Enabled reports whether deliveries are accepted at all. The HTTP layer
// checks it before touching the request body.
func (s *WebhookService) Enabled() bool { return s.cfg.Enabled }

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		ChargeID       string `json:"charge_id"`
		FailureMessage string `json:"failure_message"`
		Reason         string `json:"reason"`
	} `json:"data"`
}

// Process handles one delivery. Short-circuit order: disabled, payload,
// signature, then dispatch.
func (s *WebhookService) Process(ctx context.Context, headers http.Header, body []byte) error {
	if !s.cfg.Enabled {
		return ErrWebhooksDisabled
	}

	if len(body) == 0 {
		return ErrBadPayload
	}
	var ev webhookPayload
	if err := json.Unmarshal(body, &ev); err != nil {
		return ErrBadPayload
	}

	if s.cfg.Secret != "" && !verifySignature(headers, body, s.cfg.Secret) {
		return ErrBadSignature
	}

	objectID := ev.Data.ID
	if objectID != "" {
		dup, err := s.events.Record(ctx, ev.Type, objectID, body)
		if err != nil {
			return err
		}
		if dup {
			s.logger.InfoContext(ctx, "webhook duplicate delivery", "type", ev.Type, "object_id", objectID)
			return nil
		}
	}

	switch ev.Type {
	case "charge.succeeded":
		return s.applyChargeSucceeded(ctx, ev)
	case "charge.failed":
		return s.applyChargeFailed(ctx, ev)
	case "charge.refunded":
		return s.applyChargeRefunded(ctx, ev)
	case "charge.disputed":
		return s.applyChargeDisputed(ctx, ev)
	default:
		s.logger.InfoContext(ctx, "webhook event type ignored", "type", ev.Type)
		return nil
	}
}

func (s *WebhookService) applyChargeSucceeded(ctx context.Context, ev webhookPayload) error {
	entryID, applied, err := s.mutate(ctx, ev.Type, ev.Data.ID, func(e *entries.PaymentEntry) bool {
		// Idempotent: an already-paid entry stays as it is.
		if e.PaymentStatus == entries.StatusPaid {
			return false
		}
		// Refunded is terminal; a stale succeeded event never undoes it.
		if e.PaymentStatus == entries.StatusRefunded {
			s.logger.WarnContext(ctx, "stale charge.succeeded for refunded entry",
				"entry_id", e.ID, "transaction_id", e.TransactionID)
			return false
		}
		e.PaymentStatus = entries.StatusPaid
		if e.PaymentDate == nil {
			d := s.now().UTC()
			e.PaymentDate = &d
		}
		return true
	})
	if err != nil || !applied {
		return err
	}
	return s.store.AddNote(ctx, entryID, noteAuthor,
		fmt.Sprintf("Payment confirmed by webhook (charge %s).", ev.Data.ID), entries.NoteSuccess)
}

func (s *WebhookService) applyChargeFailed(ctx context.Context, ev webhookPayload) error {
	entryID, applied, err := s.mutate(ctx, ev.Type, ev.Data.ID, func(e *entries.PaymentEntry) bool {
		if e.PaymentStatus == entries.StatusRefunded {
			s.logger.WarnContext(ctx, "stale charge.failed for refunded entry", "entry_id", e.ID)
			return false
		}
		e.PaymentStatus = entries.StatusFailed
		return true
	})
	if err != nil || !applied {
		return err
	}

	reason := ev.Data.FailureMessage
	if reason == "" {
		reason = "unknown"
	}
	return s.store.AddNote(ctx, entryID, noteAuthor,
		fmt.Sprintf("Payment failed: %s.", reason), entries.NoteError)
}

func (s *WebhookService) applyChargeRefunded(ctx context.Context, ev webhookPayload) error {
	// Refund events reference the charge via charge_id; older payloads
	// put it in id directly.
	transactionID := ev.Data.ChargeID
	if transactionID == "" {
		transactionID = ev.Data.ID
	}
	entryID, applied, err := s.mutate(ctx, ev.Type, transactionID, func(e *entries.PaymentEntry) bool {
		e.PaymentStatus = entries.StatusRefunded
		return true
	})
	if err != nil || !applied {
		return err
	}
	return s.store.AddNote(ctx, entryID, noteAuthor,
		fmt.Sprintf("Charge refunded via webhook (refund %s).", ev.Data.ID), entries.NoteSuccess)
}

func (s *WebhookService) applyChargeDisputed(ctx context.Context, ev webhookPayload) error {
	entry, ok, err := s.lookup(ctx, ev.Type, ev.Data.ID)
	if err != nil || !ok {
		return err
	}
	// Status is intentionally left alone; disputes are handled manually.
	return s.store.AddNote(ctx, entry.ID, noteAuthor,
		fmt.Sprintf("Charge disputed (charge %s). Review required.", ev.Data.ID), entries.NoteWarning)
}

// mutate runs fn over the entry under the store's row lock, so status
// guards inside fn cannot race a concurrent delivery for the same charge.
// A lookup miss is a success to the sender, like lookup.
func (s *WebhookService) mutate(ctx context.Context, eventType, transactionID string, fn func(*entries.PaymentEntry) bool) (int64, bool, error) {
	if transactionID == "" {
		s.logger.WarnContext(ctx, "webhook event without object id", "type", eventType)
		return 0, false, nil
	}

	var entryID int64
	applied := false
	err := s.store.MutateEntryByTransactionID(ctx, transactionID, func(e *entries.PaymentEntry) bool {
		entryID = e.ID
		applied = fn(e)
		return applied
	})
	if err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			s.logger.WarnContext(ctx, "webhook entry not found",
				"type", eventType, "transaction_id", transactionID)
			return 0, false, nil
		}
		return 0, false, err
	}
	return entryID, applied, nil
}

func (s *WebhookService) lookup(ctx context.Context, eventType, transactionID string) (*entries.PaymentEntry, bool, error) {
	if transactionID == "" {
		s.logger.WarnContext(ctx, "webhook event without object id", "type", eventType)
		return nil, false, nil
	}
	entry, err := s.store.FindEntryByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			// Best-effort: the sender still gets a 200.
			s.logger.WarnContext(ctx, "webhook entry not found",
				"type", eventType, "transaction_id", transactionID)
			return nil, false, nil
		}
		return nil, false, err
	}
	return entry, true, nil
}
