package payments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/entries"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/feeds"
	"github.com/shmulikmak/gf-payarc-add-on/internal/modules/payarc"
)

const (
	msgCardRequired  = "credit card information required"
	msgInvalidExpiry = "invalid expiry date format"

	maxCardholderLen = 30
)

// Service runs the authorize workflow: customer resolution, tokenization,
// best-effort card attachment, charge creation. Any step's failure becomes
// a non-authorized ChargeResult; nothing already created at the gateway is
// rolled back.
type Service struct {
	gateway Gateway
	store   entries.Store
	logger  *slog.Logger
}

func NewService(gateway Gateway, store entries.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gateway, store: store, logger: logger}
}

// Authorize charges the submission's card and writes the outcome onto the
// entry. The result is complete either way: callers never see a lower
// layer's error directly.
func (s *Service) Authorize(ctx context.Context, feed *feeds.Feed, sub Submission) ChargeResult {
	// Validation happens before any network call.
	if sub.CardNumber == "" || sub.CardExpiry == "" || sub.CardCVV == "" {
		return s.failed(ctx, sub, msgCardRequired)
	}
	expParts := strings.Split(sub.CardExpiry, "/")
	if len(expParts) != 2 {
		return s.failed(ctx, sub, msgInvalidExpiry)
	}

	var fm feeds.FieldMap
	if feed != nil {
		var err error
		if fm, err = feed.FieldMap(); err != nil {
			s.logger.WarnContext(ctx, "feed field map unreadable, using defaults", "feed_id", feed.ID, "err", err)
		}
	}

	// Customer resolution: feed-mapped email, then submission email, then
	// a placeholder so the gateway always gets a customer.
	email := sub.Fields[fm.Email]
	if email == "" {
		email = sub.Email
	}
	if email == "" {
		email = fmt.Sprintf("entry-%d@placeholder.invalid", sub.EntryID)
	}

	customerName := strings.TrimSpace(sub.Fields[fm.FirstName] + " " + sub.Fields[fm.LastName])
	if customerName == "" {
		customerName = sub.CardholderName
	}

	customerID, found := s.gateway.FindCustomerByEmail(ctx, email)
	if !found {
		var err error
		customerID, err = s.gateway.CreateCustomer(ctx, email, customerName)
		if err != nil {
			s.logger.ErrorContext(ctx, "customer creation failed", "entry_id", sub.EntryID, "err", err)
			return s.failed(ctx, sub, payarc.UserMessage(err))
		}
	}

	addr := payarc.NormalizeBillingAddress(payarc.AddressInput{
		Country: sub.Fields[fm.Country],
		City:    sub.Fields[fm.City],
		Address: sub.Fields[fm.Address],
		Zip:     sub.Fields[fm.Zip],
		State:   sub.Fields[fm.State],
	})

	// Truncate on runes: a byte cut can split a multi-byte name and ship
	// invalid UTF-8 to the gateway.
	holder := sub.CardholderName
	if r := []rune(holder); len(r) > maxCardholderLen {
		holder = string(r[:maxCardholderLen])
	}

	tokenID, err := s.gateway.CreateToken(ctx, payarc.CardDetails{
		Number:     sub.CardNumber,
		ExpMonth:   expParts[0],
		ExpYear:    expParts[1],
		CVV:        sub.CardCVV,
		HolderName: holder,
	}, addr)
	if err != nil {
		s.logger.ErrorContext(ctx, "tokenization failed", "entry_id", sub.EntryID, "err", err)
		return s.failed(ctx, sub, payarc.UserMessage(err))
	}

	// Attachment is best-effort: the charge runs on the bare token.
	var warnings []string
	if err := s.gateway.AttachCardToCustomer(ctx, customerID, tokenID); err != nil {
		s.logger.WarnContext(ctx, "card attachment failed, charging on token",
			"entry_id", sub.EntryID, "customer_id", customerID, "err", err)
		warnings = append(warnings, "card attachment failed: "+err.Error())
	}

	amountMinor := sub.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	chargeID, err := s.gateway.CreateCharge(ctx, payarc.ChargeRequest{
		TokenID:      tokenID,
		AmountMinor:  amountMinor,
		Currency:     strings.ToLower(sub.Currency),
		Email:        email,
		Description:  fmt.Sprintf("Form %s Entry %d", sub.FormTitle, sub.EntryID),
		CustomerName: customerName,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "charge failed", "entry_id", sub.EntryID, "err", err)
		return s.failed(ctx, sub, payarc.UserMessage(err))
	}

	result := ChargeResult{
		Authorized:    true,
		TransactionID: chargeID,
		Amount:        sub.Amount,
		PaymentDate:   time.Now().UTC(),
		PaymentMethod: paymentMethod,
		Warnings:      warnings,
	}
	s.recordSuccess(ctx, sub, &result)
	return result
}

func (s *Service) failed(ctx context.Context, sub Submission, msg string) ChargeResult {
	if sub.EntryID != 0 {
		if e, err := s.store.GetEntry(ctx, sub.EntryID); err == nil {
			e.PaymentStatus = entries.StatusFailed
			if err := s.store.UpdateEntry(ctx, e); err != nil {
				s.logger.ErrorContext(ctx, "entry update failed", "entry_id", sub.EntryID, "err", err)
			}
		}
	}
	return ChargeResult{Authorized: false, ErrorMessage: msg}
}

func (s *Service) recordSuccess(ctx context.Context, sub Submission, result *ChargeResult) {
	e, err := s.store.GetEntry(ctx, sub.EntryID)
	if err != nil {
		s.logger.ErrorContext(ctx, "entry lookup failed after charge",
			"entry_id", sub.EntryID, "transaction_id", result.TransactionID, "err", err)
		result.Warnings = append(result.Warnings, "entry not updated: "+err.Error())
		return
	}

	e.PaymentStatus = entries.StatusPaid
	e.TransactionID = result.TransactionID
	e.PaymentAmount = result.Amount
	e.PaymentMethod = result.PaymentMethod
	if e.PaymentDate == nil {
		d := result.PaymentDate
		e.PaymentDate = &d
	}
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "entry update failed after charge",
			"entry_id", sub.EntryID, "transaction_id", result.TransactionID, "err", err)
		result.Warnings = append(result.Warnings, "entry not updated: "+err.Error())
	}
}
