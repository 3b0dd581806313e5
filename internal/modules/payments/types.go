package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/feeds"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payarc"
)

// Gateway is the slice of the PayArc client the payment core needs.
// *payarc.Client satisfies it; tests use a fake.
type Gateway interface {
	FindCustomerByEmail(ctx context.Context, email string) (string, bool)
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateToken(ctx context.Context, card payarc.CardDetails, addr payarc.BillingAddress) (string, error)
	AttachCardToCustomer(ctx context.Context, customerID, tokenID string) error
	CreateCharge(ctx context.Context, in payarc.ChargeRequest) (string, error)
	CreateRefund(ctx context.Context, chargeID, reason string) (string, error)
}

// FeedSource resolves the active payment feed of a form.
// *feeds.Repo satisfies it.
type FeedSource interface {
	ActiveForForm(ctx context.Context, formID int64) (*feeds.Feed, error)
}

// Submission is the card + customer data of one form submission.
// Fields holds the raw form values keyed by field id; the feed's field
// map decides which of them carry customer/address data.
type Submission struct {
	EntryID        int64
	FormID         int64
	FormTitle      string
	CardNumber     string
	CardExpiry     string // MM/YY
	CardCVV        string
	CardholderName string
	Email          string
	Amount         decimal.Decimal
	Currency       string
	Fields         map[string]string
}

// ChargeResult is the uniform outcome contract of the authorize flow,
// regardless of which step failed. Warnings carries non-fatal sub-step
// failures (card attachment).
type ChargeResult struct {
	Authorized    bool
	TransactionID string
	ErrorMessage  string
	Amount        decimal.Decimal
	PaymentDate   time.Time // UTC, zero unless authorized
	PaymentMethod string
	Warnings      []string
}

const paymentMethod = "PayArc"

const noteAuthor = "PayArc"
