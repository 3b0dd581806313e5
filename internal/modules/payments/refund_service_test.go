package payments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/feeds"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payarc"
	"github.com/shmulikmak/gf-payarc-add-on/internal/shared/apperr"
)

type fakeFeeds struct {
	feed *feeds.Feed
	err  error
}

func (f *fakeFeeds) ActiveForForm(ctx context.Context, formID int64) (*feeds.Feed, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.feed, nil
}

func paidEntry(t *testing.T, store *entries.Mock) *entries.PaymentEntry {
	t.Helper()
	paidAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := &entries.PaymentEntry{
		FormID:        3,
		PaymentStatus: entries.StatusPaid,
		TransactionID: "ch_paid_1",
		PaymentAmount: decimal.RequireFromString("19.99"),
		PaymentDate:   &paidAt,
		Currency:      "USD",
	}
	require.NoError(t, store.CreateEntry(context.Background(), e))
	return e
}

func TestRefundSuccess(t *testing.T) {
	gw := happyGateway()
	store := entries.NewMock()
	e := paidEntry(t, store)
	svc := NewRefundService(gw, store, &fakeFeeds{feed: &feeds.Feed{ID: "feed-1"}}, nil)

	res, err := svc.Refund(context.Background(), e.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "ref_1", res.RefundID)

	// Default reason applied.
	assert.Contains(t, gw.calls, "refund:ch_paid_1:requested_by_customer")

	got, _ := store.GetEntry(context.Background(), e.ID)
	assert.Equal(t, entries.StatusRefunded, got.PaymentStatus)
	// payment_date records the original payment, not the refund.
	require.NotNil(t, got.PaymentDate)
	assert.Equal(t, *e.PaymentDate, *got.PaymentDate)

	notes, _ := store.ListNotes(context.Background(), e.ID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text, "ref_1")
	assert.Equal(t, entries.NoteSuccess, notes[0].Severity)
}

func TestRefundGatewayFailureLeavesEntryUntouched(t *testing.T) {
	gw := happyGateway()
	gw.refundErr = &payarc.GatewayError{Op: "create_refund", StatusCode: 500, Message: "gateway exploded"}
	store := entries.NewMock()
	e := paidEntry(t, store)
	svc := NewRefundService(gw, store, &fakeFeeds{feed: &feeds.Feed{ID: "feed-1"}}, nil)

	_, err := svc.Refund(context.Background(), e.ID, "requested_by_customer")
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Gateway, ae.Kind)
	assert.Equal(t, "gateway exploded", ae.PublicMsg)

	got, _ := store.GetEntry(context.Background(), e.ID)
	assert.Equal(t, entries.StatusPaid, got.PaymentStatus)
	notes, _ := store.ListNotes(context.Background(), e.ID)
	assert.Empty(t, notes)
}

func TestRefundEntryNotFound(t *testing.T) {
	svc := NewRefundService(happyGateway(), entries.NewMock(), &fakeFeeds{feed: &feeds.Feed{}}, nil)
	_, err := svc.Refund(context.Background(), 42, "")
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, ae.Kind)
}

func TestRefundRejectsBadTransactionID(t *testing.T) {
	for name, txID := range map[string]string{
		"empty":    "",
		"spaces":   "ch 123",
		"injected": "ch_1;drop",
	} {
		t.Run(name, func(t *testing.T) {
			gw := happyGateway()
			store := entries.NewMock()
			e := paidEntry(t, store)
			got, _ := store.GetEntry(context.Background(), e.ID)
			got.TransactionID = txID
			require.NoError(t, store.UpdateEntry(context.Background(), got))

			svc := NewRefundService(gw, store, &fakeFeeds{feed: &feeds.Feed{}}, nil)
			_, err := svc.Refund(context.Background(), e.ID, "")
			ae, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.Invalid, ae.Kind)
			assert.Empty(t, gw.calls, "no gateway call for an invalid transaction id")
		})
	}
}

func TestRefundRequiresFeed(t *testing.T) {
	store := entries.NewMock()
	e := paidEntry(t, store)
	svc := NewRefundService(happyGateway(), store, &fakeFeeds{err: feeds.ErrNoFeed}, nil)

	_, err := svc.Refund(context.Background(), e.ID, "")
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)
}
