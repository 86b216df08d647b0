package analytics

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/query"
	"github.com/frahmantamala/expense-tracker/pkg/money"
)

// Source provides a snapshot of the current records.
type Source interface {
	Records() []query.Record
}

type FormattedSummary struct {
	Total          string `json:"total"`
	AveragePerDay  string `json:"average_per_day"`
	HighestExpense string `json:"highest_expense"`
}

type Report struct {
	Period     query.Period     `json:"period"`
	HasData    bool             `json:"has_data"`
	Summary    Summary          `json:"summary"`
	Formatted  FormattedSummary `json:"formatted"`
	Categories Breakdown        `json:"categories"`
	Monthly    Breakdown        `json:"monthly"`
	Daily      DailyBreakdown   `json:"daily"`
	Trend      Trend            `json:"trend"`
}

type Service struct {
	source    Source
	formatter money.Formatter
	trendSize int
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(source Source, formatter money.Formatter, logger *slog.Logger) *Service {
	return &Service{
		source:    source,
		formatter: formatter,
		trendSize: DefaultTrendSize,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the reference instant used for period windows.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Window returns the records of period, relative to the service clock.
func (s *Service) Window(period query.Period) []query.Record {
	return query.FilterByPeriod(s.source.Records(), period, s.now())
}

func (s *Service) Format(summary Summary) FormattedSummary {
	return FormattedSummary{
		Total:          s.formatter.Format(summary.Total),
		AveragePerDay:  s.formatter.Format(summary.AveragePerDay),
		HighestExpense: s.formatter.Format(summary.HighestExpense),
	}
}

// Report recomputes every statistic for period from a fresh snapshot.
// HasData reflects the whole record set, not the window.
func (s *Service) Report(period query.Period) Report {
	all := s.source.Records()
	records := query.FilterByPeriod(all, period, s.now())

	summary := Summarize(records)
	s.logger.Debug("analytics report computed",
		"period", period,
		"records", len(records),
		"total", summary.Total)

	return Report{
		Period:     period,
		HasData:    len(all) > 0,
		Summary:    summary,
		Formatted:  s.Format(summary),
		Categories: ByCategory(records),
		Monthly:    ByMonth(records),
		Daily:      ByDay(records),
		Trend:      TopCategoryTrend(records, s.trendSize),
	}
}
