// Package notification keeps short-lived toasts raised by expense events.
// Toasts are cosmetic and never fail a publish.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/expense-tracker/internal/core/events"
)

const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

var messages = map[string]string{
	events.EventTypeExpenseCreated: "Expense added successfully!",
	events.EventTypeExpenseUpdated: "Expense updated successfully!",
	events.EventTypeExpenseDeleted: "Expense deleted successfully!",
	events.EventTypeExpenseReset:   "All expenses have been reset!",
}

// MessageFor returns the toast text for an event type.
func MessageFor(eventType string) (string, bool) {
	msg, ok := messages[eventType]
	return msg, ok
}

type Toast struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Event     string    `json:"event,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Subscriber is satisfied by *events.EventBus.
type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

type Toaster struct {
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	toasts []Toast
}

func NewToaster(ttl time.Duration, logger *slog.Logger) *Toaster {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Toaster{
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source.
func (t *Toaster) WithClock(now func() time.Time) *Toaster {
	t.now = now
	return t
}

// Subscribe registers the toaster for every expense event, failures included.
func (t *Toaster) Subscribe(bus Subscriber) {
	for _, eventType := range events.ExpenseEvents {
		bus.Subscribe(eventType, t.HandleEvent)
	}
	bus.Subscribe(events.EventTypeExpenseFailed, t.HandleEvent)
}

func (t *Toaster) HandleEvent(_ context.Context, event events.Event) error {
	if failed, ok := event.(*events.ExpenseFailedEvent); ok {
		t.Error(failed.Message)
		return nil
	}
	msg, ok := MessageFor(event.EventType())
	if !ok {
		return nil
	}
	t.push(KindSuccess, msg, event.EventType())
	return nil
}

// Error shows a failure toast not tied to an event.
func (t *Toaster) Error(message string) Toast {
	return t.push(KindError, message, "")
}

func (t *Toaster) push(kind Kind, message, eventType string) Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.expire(now)

	toast := Toast{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		Event:     eventType,
		CreatedAt: now,
		ExpiresAt: now.Add(t.ttl),
	}
	t.toasts = append(t.toasts, toast)

	t.logger.Debug("toast shown", "kind", kind, "message", message)
	return toast
}

// Active returns toasts that have not yet dismissed themselves, oldest first.
func (t *Toaster) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expire(t.now())
	out := make([]Toast, len(t.toasts))
	copy(out, t.toasts)
	return out
}

// expire drops dismissed toasts. Callers hold t.mu.
func (t *Toaster) expire(now time.Time) {
	kept := t.toasts[:0]
	for _, toast := range t.toasts {
		if now.Before(toast.ExpiresAt) {
			kept = append(kept, toast)
		}
	}
	t.toasts = kept
}
