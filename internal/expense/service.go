package expense

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/analytics"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/query"
)

// CategoryCatalog supplies the recognized category names.
type CategoryCatalog interface {
	Names() []string
}

// EventPublisher is satisfied by *events.EventBus.
type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

// Service gates every mutation through validation and announces successful
// ones on the event bus.
type Service struct {
	store      *Store
	categories CategoryCatalog
	publisher  EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(store *Store, categories CategoryCatalog, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source used for list criteria.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListResult is a filtered view plus totals over the whole record set.
type ListResult struct {
	Expenses []Expense
	Count    int
	Total    float64
}

func (s *Service) catalog() []string {
	if s.categories == nil {
		return nil
	}
	return s.categories.Names()
}

func (s *Service) validate(dto CreateExpenseDTO) (Fields, error) {
	if fieldErrs := dto.Validate(s.catalog()); !fieldErrs.Valid() {
		return Fields{}, fieldErrs.AppError()
	}
	fields, err := dto.ToFields()
	if err != nil {
		return Fields{}, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	return fields, nil
}

func (s *Service) CreateExpense(ctx context.Context, dto CreateExpenseDTO) (Expense, error) {
	fields, err := s.validate(dto)
	if err != nil {
		s.logger.Warn("expense validation failed", "error", err)
		return Expense{}, err
	}

	created, err := s.store.Create(ctx, fields)
	if err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return Expense{}, s.storageFailure(ctx, "create", "Failed to save expense", err)
	}

	s.logger.Info("expense created successfully",
		"expense_id", created.ID,
		"amount", created.Amount,
		"category", created.Category)

	s.publish(ctx, events.NewExpenseCreatedEvent(created.ID, created.Amount, created.Category))
	return created, nil
}

// UpdateExpense overwrites the fields of id. A missing id reports false with
// no error.
func (s *Service) UpdateExpense(ctx context.Context, id string, dto UpdateExpenseDTO) (Expense, bool, error) {
	fields, err := s.validate(dto)
	if err != nil {
		s.logger.Warn("expense validation failed", "error", err, "expense_id", id)
		return Expense{}, false, err
	}

	updated, found, err := s.store.Update(ctx, id, fields)
	if err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return Expense{}, false, s.storageFailure(ctx, "update", "Failed to save expense", err)
	}
	if !found {
		s.logger.Debug("update skipped, expense not found", "expense_id", id)
		return Expense{}, false, nil
	}

	s.logger.Info("expense updated successfully", "expense_id", id, "amount", updated.Amount)
	s.publish(ctx, events.NewExpenseUpdatedEvent(updated.ID, updated.Amount, updated.Category))
	return updated, true, nil
}

// DeleteExpense removes id. Deleting an absent id succeeds and reports false.
func (s *Service) DeleteExpense(ctx context.Context, id string) (bool, error) {
	removed, found, err := s.store.Remove(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return false, s.storageFailure(ctx, "delete", "Failed to delete expense", err)
	}
	if !found {
		s.logger.Debug("delete skipped, expense not found", "expense_id", id)
		return false, nil
	}

	s.logger.Info("expense deleted successfully", "expense_id", id)
	s.publish(ctx, events.NewExpenseDeletedEvent(removed.ID, removed.Amount, removed.Category))
	return true, nil
}

func (s *Service) ResetExpenses(ctx context.Context) (int, error) {
	removed, err := s.store.Clear(ctx)
	if err != nil {
		s.logger.Error("failed to reset expenses", "error", err)
		return 0, s.storageFailure(ctx, "reset", "Failed to reset expenses", err)
	}

	s.logger.Info("all expenses reset", "removed", removed)
	s.publish(ctx, events.NewExpensesResetEvent(removed))
	return removed, nil
}

func (s *Service) GetExpense(id string) (Expense, error) {
	e, ok := s.store.Get(id)
	if !ok {
		return Expense{}, internal.ErrExpenseNotFound
	}
	return e, nil
}

// ListExpenses applies c to a snapshot. Count and Total cover every stored
// expense, not just the view.
func (s *Service) ListExpenses(c query.Criteria) ListResult {
	if c.Now.IsZero() {
		c.Now = s.now()
	}

	all := s.store.List()
	return ListResult{
		Expenses: query.Apply(all, c),
		Count:    len(all),
		Total:    analytics.Total(Records(all)),
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("event delivery failed", "event_type", event.EventType(), "error", err)
	}
}

// storageFailure announces a change that did not persist and wraps err for
// the caller.
func (s *Service) storageFailure(ctx context.Context, operation, message string, err error) error {
	s.publish(ctx, events.NewExpenseFailedEvent(operation, message))
	return internal.NewStorageError(message, err)
}

// Records widens expenses to the record interface used by analytics.
func Records(expenses []Expense) []query.Record {
	out := make([]query.Record, len(expenses))
	for i, e := range expenses {
		out[i] = e
	}
	return out
}
