package events

const (
	EventTypeExpenseCreated = "expense.created"
	EventTypeExpenseUpdated = "expense.updated"
	EventTypeExpenseDeleted = "expense.deleted"
	EventTypeExpenseReset   = "expense.reset"
	EventTypeExpenseFailed  = "expense.failed"
)

// ExpenseEvents lists the change events the expense service emits.
// EventTypeExpenseFailed is announced separately.
var ExpenseEvents = []string{
	EventTypeExpenseCreated,
	EventTypeExpenseUpdated,
	EventTypeExpenseDeleted,
	EventTypeExpenseReset,
}

type ExpenseChangedEvent struct {
	BaseEvent
	ExpenseID string  `json:"expense_id"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
}

func newExpenseChangedEvent(eventType, expenseID string, amount float64, category string) *ExpenseChangedEvent {
	return &ExpenseChangedEvent{
		BaseEvent: newBaseEvent(eventType, map[string]interface{}{
			"expense_id": expenseID,
			"amount":     amount,
			"category":   category,
		}),
		ExpenseID: expenseID,
		Amount:    amount,
		Category:  category,
	}
}

func NewExpenseCreatedEvent(expenseID string, amount float64, category string) *ExpenseChangedEvent {
	return newExpenseChangedEvent(EventTypeExpenseCreated, expenseID, amount, category)
}

func NewExpenseUpdatedEvent(expenseID string, amount float64, category string) *ExpenseChangedEvent {
	return newExpenseChangedEvent(EventTypeExpenseUpdated, expenseID, amount, category)
}

func NewExpenseDeletedEvent(expenseID string, amount float64, category string) *ExpenseChangedEvent {
	return newExpenseChangedEvent(EventTypeExpenseDeleted, expenseID, amount, category)
}

type ExpensesResetEvent struct {
	BaseEvent
	Removed int `json:"removed"`
}

func NewExpensesResetEvent(removed int) *ExpensesResetEvent {
	return &ExpensesResetEvent{
		BaseEvent: newBaseEvent(EventTypeExpenseReset, map[string]interface{}{
			"removed": removed,
		}),
		Removed: removed,
	}
}

// ExpenseFailedEvent reports a change that could not be persisted.
type ExpenseFailedEvent struct {
	BaseEvent
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

func NewExpenseFailedEvent(operation, message string) *ExpenseFailedEvent {
	return &ExpenseFailedEvent{
		BaseEvent: newBaseEvent(EventTypeExpenseFailed, map[string]interface{}{
			"operation": operation,
			"message":   message,
		}),
		Operation: operation,
		Message:   message,
	}
}
