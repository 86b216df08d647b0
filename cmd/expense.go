package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/internal/confirm"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/query"
	"github.com/frahmantamala/expense-tracker/pkg/money"
)

var (
	expenseAmount      string
	expenseDescription string
	expenseDate        string
	expenseCategory    string

	listPeriod   string
	listCategory string
	listSort     string

	assumeYes bool
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Add, list, edit and delete expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new expense",
	Args:  cobra.NoArgs,
	RunE: withDependencies(func(ctx context.Context, cmd *cobra.Command, deps *Dependencies, _ []string) error {
		dto := expense.CreateExpenseDTO{
			Amount:      expense.FormValue(expenseAmount),
			Description: expense.FormValue(expenseDescription),
			Date:        expense.FormValue(expenseDate),
			Category:    expense.FormValue(expenseCategory),
		}
		if dto.Date == "" {
			dto.Date = expense.FormValue(expense.Today(time.Now()).String())
		}

		created, err := deps.Expenses.CreateExpense(ctx, dto)
		if err != nil {
			return describeError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", created.ID)
		printToasts(cmd.OutOrStdout(), deps)
		return nil
	}),
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses for a period and category",
	Args:  cobra.NoArgs,
	RunE: withDependencies(func(_ context.Context, cmd *cobra.Command, deps *Dependencies, _ []string) error {
		period, err := query.ParsePeriod(firstNonEmpty(listPeriod, deps.Config.Tracker.DefaultPeriod))
		if err != nil {
			return describeError(err)
		}
		sortKey, err := query.ParseSortKey(firstNonEmpty(listSort, deps.Config.Tracker.DefaultSort))
		if err != nil {
			return describeError(err)
		}

		result := deps.Expenses.ListExpenses(query.Criteria{
			Period:   period,
			Category: listCategory,
			Sort:     sortKey,
		})
		printExpenses(cmd.OutOrStdout(), result, deps.Formatter)
		return nil
	}),
}

var expenseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an expense; unset flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, cmd *cobra.Command, deps *Dependencies, args []string) error {
		current, err := deps.Expenses.GetExpense(args[0])
		if err != nil {
			return describeError(err)
		}

		dto := expense.DTOFromFields(current.Fields())
		flags := cmd.Flags()
		if flags.Changed("amount") {
			dto.Amount = expense.FormValue(expenseAmount)
		}
		if flags.Changed("description") {
			dto.Description = expense.FormValue(expenseDescription)
		}
		if flags.Changed("date") {
			dto.Date = expense.FormValue(expenseDate)
		}
		if flags.Changed("category") {
			dto.Category = expense.FormValue(expenseCategory)
		}

		if _, _, err := deps.Expenses.UpdateExpense(ctx, current.ID, dto); err != nil {
			return describeError(err)
		}
		printToasts(cmd.OutOrStdout(), deps)
		return nil
	}),
}

var expenseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: withDependencies(func(ctx context.Context, cmd *cobra.Command, deps *Dependencies, args []string) error {
		id := args[0]
		if _, err := deps.Expenses.GetExpense(id); err != nil {
			return describeError(err)
		}

		req := deps.Registry.Request(expense.DeleteTitle, expense.DeleteMessage, func(ctx context.Context) error {
			_, err := deps.Expenses.DeleteExpense(ctx, id)
			return err
		})
		return settle(ctx, cmd, deps, req)
	}),
}

var expenseResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every expense after confirmation",
	Args:  cobra.NoArgs,
	RunE: withDependencies(func(ctx context.Context, cmd *cobra.Command, deps *Dependencies, _ []string) error {
		req := deps.Registry.Request(expense.ResetTitle, expense.ResetMessage, func(ctx context.Context) error {
			_, err := deps.Expenses.ResetExpenses(ctx)
			return err
		})
		return settle(ctx, cmd, deps, req)
	}),
}

// settle asks the user about req and confirms or cancels it.
func settle(ctx context.Context, cmd *cobra.Command, deps *Dependencies, req confirm.Request) error {
	out := cmd.OutOrStdout()

	ok := assumeYes
	if !ok {
		var err error
		ok, err = prompt(cmd.InOrStdin(), out, req.Title, req.Message)
		if err != nil {
			return err
		}
	}

	if !ok {
		if _, err := deps.Registry.Cancel(req.ID); err != nil {
			return err
		}
		fmt.Fprintln(out, "cancelled")
		return nil
	}

	if _, err := deps.Registry.Confirm(ctx, req.ID); err != nil {
		return describeError(err)
	}
	printToasts(out, deps)
	return nil
}

func prompt(in io.Reader, out io.Writer, title, message string) (bool, error) {
	fmt.Fprintf(out, "%s: %s [y/N] ", title, message)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func printExpenses(w io.Writer, result expense.ListResult, formatter money.Formatter) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range result.Expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, formatter.Format(e.Amount), e.Description)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nTotal: %s across %d expenses\n", formatter.Format(result.Total), result.Count)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	for _, c := range []*cobra.Command{expenseAddCmd, expenseEditCmd} {
		c.Flags().StringVarP(&expenseAmount, "amount", "a", "", "positive amount")
		c.Flags().StringVarP(&expenseDescription, "description", "m", "", "what it was for")
		c.Flags().StringVarP(&expenseCategory, "category", "c", "", "category name")
	}
	expenseAddCmd.Flags().StringVarP(&expenseDate, "date", "d", "", "YYYY-MM-DD (default today)")
	expenseEditCmd.Flags().StringVarP(&expenseDate, "date", "d", "", "YYYY-MM-DD")

	expenseListCmd.Flags().StringVarP(&listPeriod, "period", "p", "", "all, month, quarter or year")
	expenseListCmd.Flags().StringVarP(&listCategory, "category", "c", "", "category name or All")
	expenseListCmd.Flags().StringVarP(&listSort, "sort", "s", "", "date-desc, date-asc, amount-desc or amount-asc")

	for _, c := range []*cobra.Command{expenseDeleteCmd, expenseResetCmd} {
		c.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	}

	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd, expenseEditCmd, expenseDeleteCmd, expenseResetCmd)
}
