package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/internal/expense"
)

type sampleExpense struct {
	monthsAgo   int
	day         int
	amount      float64
	description string
	category    string
}

// sampleExpenses spans the current month and the five before it.
var sampleExpenses = []sampleExpense{
	{0, 1, 1200, "Monthly rent share", "Bills"},
	{0, 3, 450.50, "Weekly groceries", "Food"},
	{0, 5, 120, "Metro card top-up", "Transport"},
	{0, 8, 799, "Concert tickets", "Entertainment"},
	{1, 2, 1200, "Monthly rent share", "Bills"},
	{1, 9, 380.75, "Groceries and snacks", "Food"},
	{1, 14, 2500, "Winter jacket", "Shopping"},
	{1, 20, 650, "Dental checkup", "Health"},
	{2, 2, 1200, "Monthly rent share", "Bills"},
	{2, 11, 95, "Cab to airport", "Transport"},
	{2, 17, 520, "Dinner with friends", "Food"},
	{3, 2, 1200, "Monthly rent share", "Bills"},
	{3, 22, 349, "Streaming subscription", "Entertainment"},
	{4, 6, 310.20, "Pharmacy", "Health"},
	{4, 15, 180, "Birthday gift wrap", "Other"},
	{5, 12, 1450, "Running shoes", "Shopping"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with sample expenses",
	Long:  `Seed the configured store with sample expenses spread over recent months for development and demos.`,
	Args:  cobra.NoArgs,
	RunE: withDependencies(func(ctx context.Context, cmd *cobra.Command, deps *Dependencies, _ []string) error {
		out := cmd.OutOrStdout()

		if clearData {
			removed, err := deps.Expenses.ResetExpenses(ctx)
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintf(out, "Cleared %d existing expenses\n", removed)
		}

		now := time.Now()
		for _, s := range sampleExpenses {
			if _, err := deps.Expenses.CreateExpense(ctx, s.dto(now)); err != nil {
				return fmt.Errorf("seed %q: %w", s.description, describeError(err))
			}
		}

		fmt.Fprintf(out, "Seeded %d sample expenses (%d stored)\n", len(sampleExpenses), deps.Store.Count())
		return nil
	}),
}

// dto places the sample in its month, clamping the day so it never lands in
// the future.
func (s sampleExpense) dto(now time.Time) expense.CreateExpenseDTO {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -s.monthsAgo, 0)
	date := first.AddDate(0, 0, s.day-1)
	if date.After(now) {
		date = now
	}

	return expense.CreateExpenseDTO{
		Amount:      expense.FormValue(strconv.FormatFloat(s.amount, 'f', -1, 64)),
		Description: expense.FormValue(s.description),
		Date:        expense.FormValue(expense.Today(date).String()),
		Category:    expense.FormValue(s.category),
	}
}
