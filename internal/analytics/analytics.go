// Package analytics computes summary statistics and chart breakdowns over a
// sequence of expense records. Every function is pure.
package analytics

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal/query"
)

const (
	// NoCategory is reported as the highest category of an empty input.
	NoCategory = "N/A"

	DefaultTrendSize = 5

	dayLayout   = "2006-01-02"
	monthLayout = "Jan 2006"
)

type Breakdown struct {
	Labels      []string  `json:"labels"`
	Values      []float64 `json:"values"`
	Percentages []int     `json:"percentages,omitempty"`
}

type DailyBreakdown struct {
	Dates  []string  `json:"dates"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type Series struct {
	Category string    `json:"category"`
	Values   []float64 `json:"values"`
}

// Trend aligns one series per category to a shared month axis.
type Trend struct {
	Months []string `json:"months"`
	Series []Series `json:"series"`
}

type Summary struct {
	Count           int     `json:"count"`
	Total           float64 `json:"total"`
	AveragePerDay   float64 `json:"average_per_day"`
	HighestCategory string  `json:"highest_category"`
	HighestExpense  float64 `json:"highest_expense"`
}

func sum(records []query.Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.RecordAmount()))
	}
	return total
}

func Total(records []query.Record) float64 {
	return sum(records).InexactFloat64()
}

// AveragePerDay divides the total by the number of distinct dates present.
func AveragePerDay(records []query.Record) float64 {
	if len(records) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		days[r.RecordDate().Format(dayLayout)] = struct{}{}
	}
	return sum(records).Div(decimal.NewFromInt(int64(len(days)))).InexactFloat64()
}

// categoryTotals groups amounts by category in first-seen order.
func categoryTotals(records []query.Record) ([]string, map[string]decimal.Decimal) {
	order := []string{}
	totals := map[string]decimal.Decimal{}
	for _, r := range records {
		c := r.RecordCategory()
		if _, seen := totals[c]; !seen {
			order = append(order, c)
			totals[c] = decimal.Zero
		}
		totals[c] = totals[c].Add(decimal.NewFromFloat(r.RecordAmount()))
	}
	return order, totals
}

// HighestCategory returns the category with the largest sum. Ties go to the
// category seen first.
func HighestCategory(records []query.Record) string {
	if len(records) == 0 {
		return NoCategory
	}

	order, totals := categoryTotals(records)
	best := NoCategory
	highest := decimal.Zero
	for _, c := range order {
		if totals[c].GreaterThan(highest) {
			highest = totals[c]
			best = c
		}
	}
	return best
}

func HighestExpense(records []query.Record) float64 {
	if len(records) == 0 {
		return 0
	}

	highest := records[0].RecordAmount()
	for _, r := range records[1:] {
		highest = max(highest, r.RecordAmount())
	}
	return highest
}

func Summarize(records []query.Record) Summary {
	return Summary{
		Count:           len(records),
		Total:           Total(records),
		AveragePerDay:   AveragePerDay(records),
		HighestCategory: HighestCategory(records),
		HighestExpense:  HighestExpense(records),
	}
}

// ByCategory sums per category in first-seen order. Percentages are each
// slice's rounded share of the total.
func ByCategory(records []query.Record) Breakdown {
	order, totals := categoryTotals(records)
	total := sum(records)

	b := Breakdown{
		Labels:      make([]string, 0, len(order)),
		Values:      make([]float64, 0, len(order)),
		Percentages: make([]int, 0, len(order)),
	}
	for _, c := range order {
		b.Labels = append(b.Labels, c)
		b.Values = append(b.Values, totals[c].InexactFloat64())
		b.Percentages = append(b.Percentages, percentage(totals[c], total))
	}
	return b
}

func percentage(part, total decimal.Decimal) int {
	if total.IsZero() {
		return 0
	}
	return int(part.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// month identifies a calendar month and sorts chronologically.
type month struct {
	year  int
	month time.Month
}

func monthOf(t time.Time) month {
	return month{year: t.Year(), month: t.Month()}
}

func (m month) label() string {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout)
}

func compareMonths(a, b month) int {
	if a.year != b.year {
		return a.year - b.year
	}
	return int(a.month) - int(b.month)
}

// ByMonth sums per calendar month, labelled "Jan 2024", oldest first.
func ByMonth(records []query.Record) Breakdown {
	totals := map[month]decimal.Decimal{}
	for _, r := range records {
		m := monthOf(r.RecordDate())
		totals[m] = totals[m].Add(decimal.NewFromFloat(r.RecordAmount()))
	}

	months := sortedMonths(totals)
	b := Breakdown{
		Labels: make([]string, 0, len(months)),
		Values: make([]float64, 0, len(months)),
	}
	for _, m := range months {
		b.Labels = append(b.Labels, m.label())
		b.Values = append(b.Values, totals[m].InexactFloat64())
	}
	return b
}

func sortedMonths[V any](set map[month]V) []month {
	months := make([]month, 0, len(set))
	for m := range set {
		months = append(months, m)
	}
	slices.SortFunc(months, compareMonths)
	return months
}

// ByDay sums per date, oldest first, with "d/m" display labels.
func ByDay(records []query.Record) DailyBreakdown {
	totals := map[string]decimal.Decimal{}
	days := map[string]time.Time{}
	for _, r := range records {
		d := r.RecordDate()
		key := d.Format(dayLayout)
		totals[key] = totals[key].Add(decimal.NewFromFloat(r.RecordAmount()))
		days[key] = d
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	// YYYY-MM-DD sorts chronologically as text.
	slices.Sort(keys)

	b := DailyBreakdown{
		Dates:  keys,
		Labels: make([]string, 0, len(keys)),
		Values: make([]float64, 0, len(keys)),
	}
	for _, k := range keys {
		d := days[k]
		b.Labels = append(b.Labels, fmt.Sprintf("%d/%d", d.Day(), int(d.Month())))
		b.Values = append(b.Values, totals[k].InexactFloat64())
	}
	return b
}

// TopCategories returns up to n categories by descending total, ties in
// first-seen order.
func TopCategories(records []query.Record, n int) []string {
	order, totals := categoryTotals(records)
	slices.SortStableFunc(order, func(a, b string) int {
		return totals[b].Cmp(totals[a])
	})
	if n >= 0 && len(order) > n {
		order = order[:n]
	}
	return order
}

// TopCategoryTrend builds monthly series for the n largest categories. The
// month axis is every month in which one of them has a record; gaps are 0.
func TopCategoryTrend(records []query.Record, n int) Trend {
	top := TopCategories(records, n)
	selected := make(map[string]int, len(top))
	for i, c := range top {
		selected[c] = i
	}

	cells := map[month][]decimal.Decimal{}
	for _, r := range records {
		idx, ok := selected[r.RecordCategory()]
		if !ok {
			continue
		}
		m := monthOf(r.RecordDate())
		row, ok := cells[m]
		if !ok {
			row = make([]decimal.Decimal, len(top))
			cells[m] = row
		}
		row[idx] = row[idx].Add(decimal.NewFromFloat(r.RecordAmount()))
	}

	months := sortedMonths(cells)
	t := Trend{
		Months: make([]string, len(months)),
		Series: make([]Series, len(top)),
	}
	for i, m := range months {
		t.Months[i] = m.label()
	}
	for ci, c := range top {
		values := make([]float64, len(months))
		for mi, m := range months {
			values[mi] = cells[m][ci].InexactFloat64()
		}
		t.Series[ci] = Series{Category: c, Values: values}
	}
	return t
}
