package entries

import (
	"context"
	"sync"
)

// Mock is an in-memory Store for tests.
type Mock struct {
	mu      sync.Mutex
	nextID  int64
	Entries map[int64]*PaymentEntry
	Notes   []EntryNote
	Err     error // returned by every call when set
}

func NewMock() *Mock {
	return &Mock{Entries: map[int64]*PaymentEntry{}}
}

func (m *Mock) CreateEntry(ctx context.Context, e *PaymentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if e.ID == 0 {
		m.nextID++
		e.ID = m.nextID
	} else if e.ID > m.nextID {
		m.nextID = e.ID
	}
	if e.PaymentStatus == "" {
		e.PaymentStatus = StatusPending
	}
	cp := *e
	m.Entries[e.ID] = &cp
	return nil
}

func (m *Mock) GetEntry(ctx context.Context, id int64) (*PaymentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	e, ok := m.Entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *Mock) UpdateEntry(ctx context.Context, e *PaymentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Entries[e.ID]; !ok {
		return ErrNotFound
	}
	cp := *e
	m.Entries[e.ID] = &cp
	return nil
}

func (m *Mock) FindEntryByTransactionID(ctx context.Context, transactionID string) (*PaymentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if transactionID == "" {
		return nil, ErrNotFound
	}
	for _, e := range m.Entries {
		if e.TransactionID == transactionID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Mock) MutateEntryByTransactionID(ctx context.Context, transactionID string, fn func(*PaymentEntry) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if transactionID == "" {
		return ErrNotFound
	}
	for _, e := range m.Entries {
		if e.TransactionID == transactionID {
			cp := *e
			if !fn(&cp) {
				return nil
			}
			m.Entries[e.ID] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *Mock) AddNote(ctx context.Context, entryID int64, author, text, severity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Notes = append(m.Notes, EntryNote{EntryID: entryID, Author: author, Text: text, Severity: severity})
	return nil
}

func (m *Mock) ListNotes(ctx context.Context, entryID int64) ([]EntryNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []EntryNote
	for _, n := range m.Notes {
		if n.EntryID == entryID {
			out = append(out, n)
		}
	}
	return out, nil
}
