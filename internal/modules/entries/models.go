package entries

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status lifecycle of an entry. Refunded is terminal: webhook
// replays must never move a refunded entry back to Paid.
const (
	StatusPending  = "Pending"
	StatusPaid     = "Paid"
	StatusFailed   = "Failed"
	StatusRefunded = "Refunded"
	StatusDisputed = "Disputed"
)

// PaymentEntry is one form submission augmented with payment state.
// TransactionID, once set, is the sole join key webhooks and refunds use.
type PaymentEntry struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	FormID        int64           `gorm:"not null;index:ix_entries_form_id"`
	PaymentStatus string          `gorm:"type:varchar(16);not null;default:'Pending'"`
	TransactionID string          `gorm:"type:varchar(128);index:ix_entries_transaction_id"`
	PaymentAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentDate   *time.Time      `gorm:"type:datetime(3)"` // first successful payment, never overwritten
	PaymentMethod string          `gorm:"type:varchar(32)"`
	Currency      string          `gorm:"type:char(3);not null"`
	Email         string          `gorm:"type:varchar(255)"`
	CreatedAt     time.Time       `gorm:"type:datetime(3);not null"`
	UpdatedAt     time.Time       `gorm:"type:datetime(3);not null"`
}

func (PaymentEntry) TableName() string { return "payment_entries" }

// EntryNote mirrors the host framework's note stream on an entry.
type EntryNote struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	EntryID   int64     `gorm:"not null;index:ix_entry_notes_entry_id"`
	Author    string    `gorm:"type:varchar(64);not null"`
	Text      string    `gorm:"type:varchar(1024);not null"`
	Severity  string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (EntryNote) TableName() string { return "entry_notes" }

const (
	NoteSuccess = "success"
	NoteError   = "error"
	NoteWarning = "warning"
)
