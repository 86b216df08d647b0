// Package query derives read-only views of an expense sequence: time windows,
// category filters and sort orders. Nothing here mutates its input.
package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
)

// Record is what the query engine needs from an expense. RecordDate is the
// calendar day; only its year, month and day are read.
type Record interface {
	RecordAmount() float64
	RecordDate() time.Time
	RecordCategory() string
}

type Period string

const (
	PeriodAll     Period = "all"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

var Periods = []Period{PeriodAll, PeriodMonth, PeriodQuarter, PeriodYear}

// ParsePeriod accepts the period names case-insensitively. Empty means all.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PeriodAll, nil
	}
	if !slices.Contains(Periods, p) {
		return "", internal.NewValidationFieldError("period",
			fmt.Sprintf("unknown period %q", s), internal.ErrCodeInvalidQuery)
	}
	return p, nil
}

// Window returns the inclusive [start, now] range of a period. ok is false for
// PeriodAll and unknown periods, which do not restrict.
func Window(p Period, now time.Time) (start time.Time, ok bool) {
	loc := now.Location()
	switch p {
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), true
	case PeriodQuarter:
		return now.AddDate(0, -3, 0), true
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// FilterByPeriod keeps records whose day, taken as midnight in now's location,
// lies within the period window.
func FilterByPeriod[T Record](records []T, p Period, now time.Time) []T {
	start, ok := Window(p, now)
	if !ok {
		return slices.Clone(records)
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		t := midnight(r.RecordDate(), now.Location())
		if !t.Before(start) && !t.After(now) {
			out = append(out, r)
		}
	}
	return out
}

func midnight(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// AllCategories disables category filtering.
const AllCategories = "All"

func FilterByCategory[T Record](records []T, category string) []T {
	if category == "" || category == AllCategories {
		return slices.Clone(records)
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.RecordCategory() == category {
			out = append(out, r)
		}
	}
	return out
}

type SortKey string

const (
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
	SortAmountDesc SortKey = "amount-desc"
	SortAmountAsc  SortKey = "amount-asc"
)

var SortKeys = []SortKey{SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc}

// ParseSortKey defaults to newest first.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return SortDateDesc, nil
	}
	if !slices.Contains(SortKeys, k) {
		return "", internal.NewValidationFieldError("sort",
			fmt.Sprintf("unknown sort key %q", s), internal.ErrCodeInvalidQuery)
	}
	return k, nil
}

// Sort returns a stably sorted copy. Unknown keys keep input order.
func Sort[T Record](records []T, key SortKey) []T {
	out := slices.Clone(records)
	if out == nil {
		out = []T{}
	}

	var cmp func(a, b T) int
	switch key {
	case SortDateDesc:
		cmp = func(a, b T) int { return compareDays(b.RecordDate(), a.RecordDate()) }
	case SortDateAsc:
		cmp = func(a, b T) int { return compareDays(a.RecordDate(), b.RecordDate()) }
	case SortAmountDesc:
		cmp = func(a, b T) int { return compareFloats(b.RecordAmount(), a.RecordAmount()) }
	case SortAmountAsc:
		cmp = func(a, b T) int { return compareFloats(a.RecordAmount(), b.RecordAmount()) }
	default:
		return out
	}

	slices.SortStableFunc(out, cmp)
	return out
}

func compareDays(a, b time.Time) int {
	return midnight(a, time.UTC).Compare(midnight(b, time.UTC))
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Criteria combines the list view selectors. A zero Now means time.Now.
type Criteria struct {
	Period   Period
	Category string
	Sort     SortKey
	Now      time.Time
}

// Apply narrows by period, then category, then sorts.
func Apply[T Record](records []T, c Criteria) []T {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}

	view := FilterByPeriod(records, c.Period, now)
	view = FilterByCategory(view, c.Category)
	return Sort(view, c.Sort)
}
