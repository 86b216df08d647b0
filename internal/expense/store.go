package expense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/query"
	"github.com/frahmantamala/expense-tracker/internal/slot"
)

const DefaultSlotKey = "expenses"

// IDGenerator returns a fresh expense id.
type IDGenerator func() string

// NewID returns a time-ordered UUIDv7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Store owns the canonical expense sequence and mirrors it into a single slot.
// All mutations persist before they become visible.
type Store struct {
	slots  slot.Store
	key    string
	newID  IDGenerator
	logger *slog.Logger

	mu      sync.RWMutex
	records []Expense
}

type StoreOption func(*Store)

func WithSlotKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithIDGenerator(gen IDGenerator) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewStore(slots slot.Store, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		slots:   slots,
		key:     DefaultSlotKey,
		newID:   NewID,
		logger:  logger,
		records: []Expense{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Key() string {
	return s.key
}

// Load reads the slot and replaces the in-memory sequence with it. A missing or
// unreadable slot yields an empty sequence.
func (s *Store) Load(ctx context.Context) []Expense {
	records := s.read(ctx)

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	return clone(records)
}

func (s *Store) read(ctx context.Context) []Expense {
	raw, err := s.slots.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, slot.ErrNotFound) {
			s.logger.Warn("failed to read expenses, starting empty", "slot", s.key, "error", err)
		}
		return []Expense{}
	}

	var stored []expenseDatamodel.Expense
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("stored expenses are corrupt, starting empty", "slot", s.key, "error", err)
		return []Expense{}
	}

	records, skipped := FromDataModelSlice(stored)
	for _, err := range skipped {
		s.logger.Warn("skipping unreadable stored expense", "slot", s.key, "error", err)
	}
	return records
}

// Save replaces the persisted sequence and the in-memory one with records.
func (s *Store) Save(ctx context.Context, records []Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, clone(records))
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Expense) error {
	raw, err := json.Marshal(ToDataModelSlice(next))
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if err := s.slots.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	s.records = next
	return nil
}

func (s *Store) Create(ctx context.Context, f Fields) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := NewExpense(s.newID(), f)
	next := append(clone(s.records), e)
	if err := s.commit(ctx, next); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Update replaces the mutable fields of the record with id. It reports false
// and writes nothing when no such record exists.
func (s *Store) Update(ctx context.Context, id string, f Fields) (Expense, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Expense{}, false, nil
	}

	next := clone(s.records)
	next[idx].Apply(f)
	if err := s.commit(ctx, next); err != nil {
		return Expense{}, false, err
	}
	return next[idx], true, nil
}

// Remove deletes the record with id, returning it. Absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) (Expense, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Expense{}, false, nil
	}

	removed := s.records[idx]
	next := make([]Expense, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return Expense{}, false, err
	}
	return removed, true, nil
}

// Clear empties the sequence and returns how many records were dropped.
func (s *Store) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	if err := s.commit(ctx, []Expense{}); err != nil {
		return 0, err
	}
	return n, nil
}

// List returns a snapshot in insertion order.
func (s *Store) List() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.records)
}

// Records is List widened for the query and analytics packages.
func (s *Store) Records() []query.Record {
	return Records(s.List())
}

func (s *Store) Get(id string) (Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Expense{}, false
	}
	return s.records[idx], true
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.records {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func clone(records []Expense) []Expense {
	out := make([]Expense, len(records))
	copy(out, records)
	return out
}
