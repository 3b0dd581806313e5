package entries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateEntry(ctx context.Context, e *PaymentEntry) error {
	now := time.Now()
	if e.PaymentStatus == "" {
		e.PaymentStatus = StatusPending
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *GormStore) GetEntry(ctx context.Context, id int64) (*PaymentEntry, error) {
	var e PaymentEntry
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *GormStore) UpdateEntry(ctx context.Context, e *PaymentEntry) error {
	e.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Save(e).Error
}

func (s *GormStore) FindEntryByTransactionID(ctx context.Context, transactionID string) (*PaymentEntry, error) {
	var e PaymentEntry
	err := s.db.WithContext(ctx).
		First(&e, "transaction_id = ? AND transaction_id <> ''", transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *GormStore) MutateEntryByTransactionID(ctx context.Context, transactionID string, fn func(*PaymentEntry) bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e PaymentEntry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&e, "transaction_id = ? AND transaction_id <> ''", transactionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !fn(&e) {
			return nil
		}
		e.UpdatedAt = time.Now()
		return tx.Save(&e).Error
	})
}

func (s *GormStore) AddNote(ctx context.Context, entryID int64, author, text, severity string) error {
	n := EntryNote{
		ID:        uuid.NewString(),
		EntryID:   entryID,
		Author:    author,
		Text:      text,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Create(&n).Error
}

func (s *GormStore) ListNotes(ctx context.Context, entryID int64) ([]EntryNote, error) {
	var notes []EntryNote
	err := s.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("created_at ASC").
		Find(&notes).Error
	return notes, err
}
