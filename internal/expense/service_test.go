package expense_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/query"
	"github.com/frahmantamala/expense-tracker/internal/slot"
)

type staticCatalog []string

func (c staticCatalog) Names() []string { return c }

var _ = Describe("Service", func() {
	var (
		ctx       context.Context
		logger    *slog.Logger
		bus       *events.EventBus
		published []string
		store     *expense.Store
		service   *expense.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		published = nil
		for _, eventType := range events.ExpenseEvents {
			bus.Subscribe(eventType, func(_ context.Context, e events.Event) error {
				published = append(published, e.EventType())
				return nil
			})
		}

		store = expense.NewStore(slot.NewMemoryStore(), logger, expense.WithIDGenerator(sequentialIDs()))
		service = expense.NewService(store, staticCatalog(catalog), bus, logger).
			WithClock(func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) })
	})

	Describe("CreateExpense", func() {
		It("stores a valid expense and announces it", func() {
			// When
			created, err := service.CreateExpense(ctx, validDTO())

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal("id-1"))
			Expect(store.List()).To(Equal([]expense.Expense{created}))
			Expect(published).To(Equal([]string{events.EventTypeExpenseCreated}))
		})

		It("never stores an invalid expense", func() {
			dto := validDTO()
			dto.Amount = "0"

			_, err := service.CreateExpense(ctx, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.Details.(internal.ValidationErrors).Fields()).
				To(HaveKeyWithValue("amount", "Please enter a valid amount"))
			Expect(store.Count()).To(Equal(0))
			Expect(published).To(BeEmpty())
		})
	})

	Describe("UpdateExpense", func() {
		It("reports a missing id without error or event", func() {
			_, found, err := service.UpdateExpense(ctx, "missing", validDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
			Expect(published).To(BeEmpty())
		})

		It("validates before touching the store", func() {
			created, err := service.CreateExpense(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			dto := validDTO()
			dto.Description = "ab"
			_, _, err = service.UpdateExpense(ctx, created.ID, dto)

			Expect(err).To(HaveOccurred())
			Expect(store.List()).To(Equal([]expense.Expense{created}))
		})
	})

	Describe("DeleteExpense and ResetExpenses", func() {
		It("removes, then resets, emitting events for effective changes only", func() {
			a, _ := service.CreateExpense(ctx, validDTO())
			_, _ = service.CreateExpense(ctx, validDTO())

			found, err := service.DeleteExpense(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())

			found, err = service.DeleteExpense(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())

			removed, err := service.ResetExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(1))

			Expect(published).To(Equal([]string{
				events.EventTypeExpenseCreated,
				events.EventTypeExpenseCreated,
				events.EventTypeExpenseDeleted,
				events.EventTypeExpenseReset,
			}))
		})
	})

	Describe("persistence failures", func() {
		It("reports STORAGE_FAILED and announces the failure", func() {
			// Given
			slots := &failingSlots{MemoryStore: slot.NewMemoryStore()}
			failing := expense.NewService(expense.NewStore(slots, logger), staticCatalog(catalog), bus, logger)
			var failures []string
			bus.Subscribe(events.EventTypeExpenseFailed, func(_ context.Context, e events.Event) error {
				failures = append(failures, e.(*events.ExpenseFailedEvent).Message)
				return nil
			})
			slots.failPut = true

			// When
			_, err := failing.CreateExpense(ctx, validDTO())

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStorageFailed))
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(failures).To(Equal([]string{"Failed to save expense"}))
			Expect(published).To(BeEmpty())
		})
	})

	Describe("GetExpense", func() {
		It("returns not found for unknown ids", func() {
			_, err := service.GetExpense("missing")
			Expect(errors.Is(err, internal.ErrExpenseNotFound)).To(BeTrue())
		})
	})

	Describe("ListExpenses", func() {
		It("filters the view but totals the whole set", func() {
			// Given
			for _, dto := range []expense.CreateExpenseDTO{
				{Amount: "10", Description: "Groceries", Date: "2024-03-02", Category: "Food"},
				{Amount: "25", Description: "Taxi ride", Date: "2024-03-10", Category: "Transport"},
				{Amount: "40", Description: "Restaurant", Date: "2024-01-15", Category: "Food"},
			} {
				_, err := service.CreateExpense(ctx, dto)
				Expect(err).NotTo(HaveOccurred())
			}

			// When
			result := service.ListExpenses(query.Criteria{
				Period:   query.PeriodMonth,
				Category: "Food",
				Sort:     query.SortDateDesc,
			})

			// Then
			Expect(result.Expenses).To(HaveLen(1))
			Expect(result.Expenses[0].Description).To(Equal("Groceries"))
			Expect(result.Count).To(Equal(3))
			Expect(result.Total).To(Equal(75.0))
		})
	})
})
