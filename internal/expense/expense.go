package expense

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// Today returns the calendar day of now in now's location.
func Today(now time.Time) Date {
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Expense is a single spending entry. ID is assigned on creation and never
// changes; the other fields are replaced wholesale on update.
type Expense struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        Date    `json:"date"`
	Category    string  `json:"category"`
}

// Fields are the mutable attributes of an expense.
type Fields struct {
	Amount      float64
	Description string
	Date        Date
	Category    string
}

func NewExpense(id string, f Fields) Expense {
	e := Expense{ID: id}
	e.Apply(f)
	return e
}

func (e *Expense) Apply(f Fields) {
	e.Amount = f.Amount
	e.Description = f.Description
	e.Date = f.Date
	e.Category = f.Category
}

func (e Expense) Fields() Fields {
	return Fields{
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date,
		Category:    e.Category,
	}
}

func (e Expense) RecordAmount() float64 { return e.Amount }

func (e Expense) RecordDate() time.Time { return e.Date.Time }

func (e Expense) RecordCategory() string { return e.Category }

func ToDataModel(e Expense) expenseDatamodel.Expense {
	return expenseDatamodel.Expense{
		ID:          e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date.String(),
		Category:    e.Category,
	}
}

// storedDateLayouts are tried in order when reading persisted records. The
// unpadded layout also accepts padded days and months.
var storedDateLayouts = []string{DateLayout, "2006-1-2", time.RFC3339}

func parseStoredDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range storedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// FromDataModel converts a persisted record. Dates are read leniently so
// hand-edited data with unpadded days still loads.
func FromDataModel(e expenseDatamodel.Expense) (Expense, error) {
	date, err := parseStoredDate(e.Date)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		ID:          e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        date,
		Category:    e.Category,
	}, nil
}

func ToDataModelSlice(expenses []Expense) []expenseDatamodel.Expense {
	result := make([]expenseDatamodel.Expense, len(expenses))
	for i, e := range expenses {
		result[i] = ToDataModel(e)
	}
	return result
}

// FromDataModelSlice converts every readable record and reports the ones it
// had to skip.
func FromDataModelSlice(expenses []expenseDatamodel.Expense) ([]Expense, []error) {
	result := make([]Expense, 0, len(expenses))
	var skipped []error
	for i, e := range expenses {
		converted, err := FromDataModel(e)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("record %d (%s): %w", i, e.ID, err))
			continue
		}
		result = append(result, converted)
	}
	return result, skipped
}
