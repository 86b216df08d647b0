package confirm_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/confirm"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

func TestConfirm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Confirm Suite")
}

var _ = Describe("Registry", func() {
	var (
		registry *confirm.Registry
		now      time.Time
		runs     int
		action   confirm.Action
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		registry = confirm.NewRegistry(time.Minute, logger).WithClock(func() time.Time { return now })
		runs = 0
		action = func(context.Context) error {
			runs++
			return nil
		}
	})

	It("does not run the action until confirmed", func() {
		// Given
		req := registry.Request("Confirm Delete", "Are you sure?", action)

		// Then
		Expect(req.State).To(Equal(confirm.StatePending))
		Expect(runs).To(Equal(0))
		Expect(registry.Pending()).To(Equal(1))
	})

	It("runs the action exactly once on confirm", func() {
		req := registry.Request("Confirm Delete", "Are you sure?", action)

		confirmed, err := registry.Confirm(context.Background(), req.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(confirmed.State).To(Equal(confirm.StateConfirmed))
		Expect(confirmed.ResolvedAt).NotTo(BeNil())

		_, err = registry.Confirm(context.Background(), req.ID)
		Expect(errors.Is(err, confirm.ErrAlreadyResolved)).To(BeTrue())
		Expect(runs).To(Equal(1))
	})

	It("never runs a cancelled action", func() {
		req := registry.Request("Reset All Data", "Sure?", action)

		cancelled, err := registry.Cancel(req.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(cancelled.State).To(Equal(confirm.StateCancelled))

		_, err = registry.Confirm(context.Background(), req.ID)
		Expect(errors.Is(err, confirm.ErrAlreadyResolved)).To(BeTrue())
		Expect(runs).To(Equal(0))
	})

	It("forgets pending requests after the ttl", func() {
		req := registry.Request("Confirm Delete", "Sure?", action)

		now = now.Add(2 * time.Minute)

		_, err := registry.Confirm(context.Background(), req.ID)
		Expect(errors.Is(err, confirm.ErrNotFound)).To(BeTrue())
		Expect(runs).To(Equal(0))
	})

	It("records a failing action on the request", func() {
		req := registry.Request("Confirm Delete", "Sure?", func(context.Context) error {
			return errors.New("disk full")
		})

		_, err := registry.Confirm(context.Background(), req.ID)
		Expect(err).To(MatchError("disk full"))

		got, err := registry.Get(req.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Error).To(Equal("disk full"))
		Expect(got.State).To(Equal(confirm.StateConfirmed))
	})

	It("lets only one of many concurrent confirms through", func() {
		var mu sync.Mutex
		count := 0
		req := registry.Request("Confirm Delete", "Sure?", func(context.Context) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = registry.Confirm(context.Background(), req.ID)
			}()
		}
		wg.Wait()

		Expect(count).To(Equal(1))
	})
})

var _ = Describe("Handler", func() {
	var (
		registry *confirm.Registry
		router   *chi.Mux
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		registry = confirm.NewRegistry(time.Minute, logger)
		handler := confirm.NewHandler(transport.NewBaseHandler(logger), registry)

		router = chi.NewRouter()
		router.Get("/confirmations/{id}", handler.GetConfirmation)
		router.Post("/confirmations/{id}/confirm", handler.Confirm)
		router.Post("/confirmations/{id}/cancel", handler.Cancel)
	})

	It("returns 404 for unknown ids", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/confirmations/nope", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("confirms then conflicts on a second attempt", func() {
		req := registry.Request("Confirm Delete", "Sure?", func(context.Context) error { return nil })

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/confirmations/"+req.ID+"/confirm", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"state":"confirmed"`))

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/confirmations/"+req.ID+"/cancel", nil))
		Expect(rec.Code).To(Equal(http.StatusConflict))
	})
})
