package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
)

func webhookSvc(cfg WebhookConfig) (*WebhookService, *entries.Mock) {
	m := entries.NewMock()
	return NewWebhookService(cfg, m, nil, nil), m
}

func enabled() WebhookConfig { return WebhookConfig{Enabled: true} }

func signBody(secret string, body []byte) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}

func seedPaid(t *testing.T, store *entries.Mock, txID string) *entries.PaymentEntry {
	t.Helper()
	paidAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := &entries.PaymentEntry{
		FormID:        1,
		PaymentStatus: entries.StatusPaid,
		TransactionID: txID,
		PaymentAmount: decimal.RequireFromString("19.99"),
		PaymentDate:   &paidAt,
		Currency:      "USD",
	}
	require.NoError(t, store.CreateEntry(context.Background(), e))
	return e
}

func seedPending(t *testing.T, store *entries.Mock, txID string) *entries.PaymentEntry {
	t.Helper()
	e := &entries.PaymentEntry{
		FormID:        1,
		PaymentStatus: entries.StatusPending,
		TransactionID: txID,
		PaymentAmount: decimal.RequireFromString("19.99"),
		Currency:      "USD",
	}
	require.NoError(t, store.CreateEntry(context.Background(), e))
	return e
}

func TestProcessDisabled(t *testing.T) {
	svc, _ := webhookSvc(WebhookConfig{Enabled: false})
	err := svc.Process(context.Background(), http.Header{}, []byte(`{"type":"charge.succeeded"}`))
	assert.ErrorIs(t, err, ErrWebhooksDisabled)
}

func TestProcessBadPayload(t *testing.T) {
	svc, _ := webhookSvc(enabled())
	assert.ErrorIs(t, svc.Process(context.Background(), http.Header{}, nil), ErrBadPayload)
	assert.ErrorIs(t, svc.Process(context.Background(), http.Header{}, []byte("not json")), ErrBadPayload)
}

func TestProcessSignature(t *testing.T) {
	secret := "whsec_test"
	svc, _ := webhookSvc(WebhookConfig{Enabled: true, Secret: secret})
	body := []byte(`{"type":"charge.succeeded","data":{"id":"ch_none"}}`)
	sig := signBody(secret, body)

	accepted := map[string][2]string{
		"raw":              {"Payarc-Signature", sig},
		"sha256 prefix":    {"Payarc-Signature", "sha256=" + sig},
		"upper hex":        {"Payarc-Signature", strings.ToUpper(sig)},
		"alternate header": {"X-Signature", sig},
		"generic header":   {"X-Webhook-Signature", "sha256=" + sig},
	}
	for name, hv := range accepted {
		t.Run(name, func(t *testing.T) {
			h := http.Header{}
			h.Set(hv[0], hv[1])
			assert.NoError(t, svc.Process(context.Background(), h, body))
		})
	}

	t.Run("tampered body", func(t *testing.T) {
		h := http.Header{}
		h.Set("Payarc-Signature", sig)
		tampered := []byte(`{"type":"charge.succeeded","data":{"id":"ch_evil"}}`)
		assert.ErrorIs(t, svc.Process(context.Background(), h, tampered), ErrBadSignature)
	})

	t.Run("wrong signature", func(t *testing.T) {
		h := http.Header{}
		h.Set("Payarc-Signature", signBody("other_secret", body))
		assert.ErrorIs(t, svc.Process(context.Background(), h, body), ErrBadSignature)
	})

	t.Run("missing header", func(t *testing.T) {
		assert.ErrorIs(t, svc.Process(context.Background(), http.Header{}, body), ErrBadSignature)
	})
}

func TestProcessNoSecretSkipsVerification(t *testing.T) {
	svc, _ := webhookSvc(enabled())
	body := []byte(`{"type":"charge.succeeded","data":{"id":"ch_none"}}`)
	assert.NoError(t, svc.Process(context.Background(), http.Header{}, body))
}

func TestChargeSucceededMarksPaid(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)
	e := seedPending(t, m, "ch_1")

	body := []byte(`{"type":"charge.succeeded","data":{"id":"ch_1"}}`)
	require.NoError(t, svc.Process(context.Background(), http.Header{}, body))

	got, _ := m.GetEntry(context.Background(), e.ID)
	assert.Equal(t, entries.StatusPaid, got.PaymentStatus)
	require.NotNil(t, got.PaymentDate)

	notes, _ := m.ListNotes(context.Background(), e.ID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "ch_1")
}

func TestChargeSucceededIdempotent(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)
	e := seedPending(t, m, "ch_1")

	body := []byte(`{"type":"charge.succeeded","data":{"id":"ch_1"}}`)
	require.NoError(t, svc.Process(context.Background(), http.Header{}, body))

	first, _ := m.GetEntry(context.Background(), e.ID)
	firstDate := *first.PaymentDate

	require.NoError(t, svc.Process(context.Background(), http.Header{}, body))

	second, _ := m.GetEntry(context.Background(), e.ID)
	assert.Equal(t, entries.StatusPaid, second.PaymentStatus)
	assert.Equal(t, firstDate, *second.PaymentDate, "payment_date unchanged by duplicate delivery")

	notes, _ := m.ListNotes(context.Background(), e.ID)
	assert.Len(t, notes, 1, "no second note on duplicate")
}

func TestStaleSucceededDoesNotRegressRefunded(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)
	e := seedPaid(t, m, "ch_1")

	refunded := []byte(`{"type":"charge.refunded","data":{"id":"ref_9","charge_id":"ch_1"}}`)
	require.NoError(t, svc.Process(context.Background(), http.Header{}, refunded))

	got, _ := m.GetEntry(context.Background(), e.ID)
	require.Equal(t, entries.StatusRefunded, got.PaymentStatus)

	stale := []byte(`{"type":"charge.succeeded","data":{"id":"ch_1"}}`)
	require.NoError(t, svc.Process(context.Background(), http.Header{}, stale))

	got, _ = m.GetEntry(context.Background(), e.ID)
	assert.Equal(t, entries.StatusRefunded, got.PaymentStatus, "refunded is terminal")
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), *got.PaymentDate)
}

func TestConcurrentRefundAndStaleSucceeded(t *testing.T) {
	// A refund delivery and a stale succeeded delivery racing on the same
	// charge must always leave the entry Refunded, whichever lands first.
	for i := 0; i < 50; i++ {
		m := entries.NewMock()
		svc := NewWebhookService(enabled(), m, nil, nil)
		e := seedPaid(t, m, "ch_1")

		refunded := []byte(`{"type":"charge.refunded","data":{"id":"ref_9","charge_id":"ch_1"}}`)
		stale := []byte(`{"type":"charge.succeeded","data":{"id":"ch_1"}}`)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Process(context.Background(), http.Header{}, refunded))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Process(context.Background(), http.Header{}, stale))
		}()
		wg.Wait()

		got, _ := m.GetEntry(context.Background(), e.ID)
		assert.Equal(t, entries.StatusRefunded, got.PaymentStatus, "refunded is terminal under concurrent delivery")
	}
}

func TestChargeFailed(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)
	e := seedPending(t, m, "ch_1")

	body := []byte(`{"type":"charge.failed","data":{"id":"ch_1","failure_message":"do not honor"}}`)
	require.NoError(t, svc.Process(context.Background(), http.Header{}, body))

	got, _ := m.GetEntry(context.Background(), e.ID)
	assert.Equal(t, entries.StatusFailed, got.PaymentStatus)

	notes, _ := m.ListNotes(context.Background(), e.ID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "do not honor")
	assert.Equal(t, entries.NoteError, notes[0].Severity)
}

func TestChargeRefundedFallsBackToDataID(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)
	e := seedPaid(t, m, "ch_1")

	// Older payloads carry the charge id in data.id with no charge_id.
	body := []byte(`{"type":"charge.refunded","data":{"id":"ch_1"}}`)
	require.NoError(t, svc.Process(context.Background(), http.Header{}, body))

	got, _ := m.GetEntry(context.Background(), e.ID)
	assert.Equal(t, entries.StatusRefunded, got.PaymentStatus)
}

func TestChargeDisputedNoteOnly(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)
	e := seedPaid(t, m, "ch_1")

	body := []byte(`{"type":"charge.disputed","data":{"id":"ch_1"}}`)
	require.NoError(t, svc.Process(context.Background(), http.Header{}, body))

	got, _ := m.GetEntry(context.Background(), e.ID)
	assert.Equal(t, entries.StatusPaid, got.PaymentStatus, "dispute changes nothing but the notes")

	notes, _ := m.ListNotes(context.Background(), e.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entries.NoteWarning, notes[0].Severity)
}

func TestUnknownEventTypeIsNoOp(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)
	seedPaid(t, m, "ch_1")

	body := []byte(`{"type":"customer.created","data":{"id":"cus_1"}}`)
	assert.NoError(t, svc.Process(context.Background(), http.Header{}, body))
}

func TestEntryLookupMissIsSuccess(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)

	body := []byte(`{"type":"charge.succeeded","data":{"id":"ch_unknown"}}`)
	assert.NoError(t, svc.Process(context.Background(), http.Header{}, body))
}

func TestProcessingErrorPropagates(t *testing.T) {
	m := entries.NewMock()
	svc := NewWebhookService(enabled(), m, nil, nil)
	seedPending(t, m, "ch_1")
	m.Err = assert.AnError

	body := []byte(`{"type":"charge.succeeded","data":{"id":"ch_1"}}`)
	assert.Error(t, svc.Process(context.Background(), http.Header{}, body))
}
