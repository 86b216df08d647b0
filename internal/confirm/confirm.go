// Package confirm defers destructive actions until they are explicitly
// confirmed. A request is pending until it is confirmed, cancelled or expires.
package confirm

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/expense-tracker/internal"
)

type State string

const (
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
	StateCancelled State = "cancelled"
)

const DefaultTTL = 5 * time.Minute

var (
	ErrNotFound        = internal.ErrConfirmationNotFound
	ErrAlreadyResolved = internal.ErrConfirmationResolved
)

// Action is the deferred effect of a request.
type Action func(ctx context.Context) error

// Request is a snapshot of a confirmation. Error holds the action's failure,
// if it ran and failed.
type Request struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	State      State      `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type entry struct {
	req    Request
	action Action
}

type Registry struct {
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(ttl time.Duration, logger *slog.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// WithClock overrides the time source.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Request records a pending confirmation for action. Nothing runs yet.
func (r *Registry) Request(title, message string, action Action) Request {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	e := &entry{
		req: Request{
			ID:        uuid.New().String(),
			Title:     title,
			Message:   message,
			State:     StatePending,
			CreatedAt: now,
			ExpiresAt: now.Add(r.ttl),
		},
		action: action,
	}
	r.entries[e.req.ID] = e

	r.logger.Info("confirmation requested", "confirmation_id", e.req.ID, "title", title)
	return e.req
}

func (r *Registry) Get(id string) (Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep(r.now())
	e, ok := r.entries[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return e.req, nil
}

// Confirm runs the deferred action exactly once. The request is resolved
// before the action runs, so a concurrent Confirm sees ErrAlreadyResolved.
func (r *Registry) Confirm(ctx context.Context, id string) (Request, error) {
	e, err := r.resolve(id, StateConfirmed)
	if err != nil {
		return Request{}, err
	}

	actionErr := e.action(ctx)

	r.mu.Lock()
	if actionErr != nil {
		e.req.Error = actionErr.Error()
	}
	e.action = nil
	snapshot := e.req
	r.mu.Unlock()

	if actionErr != nil {
		r.logger.Error("confirmed action failed", "confirmation_id", id, "error", actionErr)
		return snapshot, actionErr
	}
	r.logger.Info("confirmation accepted", "confirmation_id", id)
	return snapshot, nil
}

// Cancel resolves the request without running its action.
func (r *Registry) Cancel(id string) (Request, error) {
	e, err := r.resolve(id, StateCancelled)
	if err != nil {
		return Request{}, err
	}

	r.mu.Lock()
	e.action = nil
	snapshot := e.req
	r.mu.Unlock()

	r.logger.Info("confirmation cancelled", "confirmation_id", id)
	return snapshot, nil
}

func (r *Registry) resolve(id string, state State) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.req.State != StatePending {
		return nil, ErrAlreadyResolved
	}

	e.req.State = state
	e.req.ResolvedAt = &now
	return e, nil
}

// Pending returns how many requests await a decision.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep(r.now())
	n := 0
	for _, e := range r.entries {
		if e.req.State == StatePending {
			n++
		}
	}
	return n
}

// sweep drops expired pending requests and resolved ones older than the TTL.
// Callers hold r.mu.
func (r *Registry) sweep(now time.Time) {
	for id, e := range r.entries {
		switch {
		case e.req.State == StatePending && now.After(e.req.ExpiresAt):
			r.logger.Debug("confirmation expired", "confirmation_id", id)
			delete(r.entries, id)
		case e.req.ResolvedAt != nil && now.After(e.req.ResolvedAt.Add(r.ttl)):
			delete(r.entries, id)
		}
	}
}
