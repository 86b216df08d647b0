package expense_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

var catalog = []string{"Food", "Transport", "Bills", "Entertainment", "Health", "Shopping", "Other"}

func validDTO() expense.CreateExpenseDTO {
	return expense.CreateExpenseDTO{
		Amount:      "12.50",
		Description: "Lunch",
		Date:        "2024-03-05",
		Category:    "Food",
	}
}

var _ = Describe("CreateExpenseDTO", func() {
	Describe("Validate", func() {
		It("accepts a valid candidate", func() {
			Expect(validDTO().Validate(catalog)).To(BeEmpty())
		})

		It("reports every failing field at once", func() {
			// Given
			dto := expense.CreateExpenseDTO{}

			// When
			errs := dto.Validate(catalog)

			// Then
			Expect(errs).To(Equal(expense.FieldErrors{
				"amount":      "Please enter a valid amount",
				"description": "Please enter a description",
				"date":        "Please select a date",
				"category":    "Please select a category",
			}))
		})

		DescribeTable("amount",
			func(amount string, valid bool) {
				dto := validDTO()
				dto.Amount = expense.FormValue(amount)
				errs := dto.Validate(catalog)
				if valid {
					Expect(errs).NotTo(HaveKey("amount"))
				} else {
					Expect(errs).To(HaveKeyWithValue("amount", "Please enter a valid amount"))
				}
			},
			Entry("positive", "0.01", true),
			Entry("zero", "0", false),
			Entry("negative", "-5", false),
			Entry("text", "ten", false),
		)

		DescribeTable("description",
			func(description string, message string) {
				dto := validDTO()
				dto.Description = expense.FormValue(description)
				errs := dto.Validate(catalog)
				if message == "" {
					Expect(errs).NotTo(HaveKey("description"))
				} else {
					Expect(errs).To(HaveKeyWithValue("description", message))
				}
			},
			Entry("blank", "   ", "Please enter a description"),
			Entry("short after trim", "  ab  ", "Description must be at least 3 characters"),
			Entry("exactly three", " abc ", ""),
		)

		It("rejects dates that are not YYYY-MM-DD", func() {
			dto := validDTO()
			dto.Date = "05/03/2024"
			Expect(dto.Validate(catalog)).To(HaveKeyWithValue("date", "Please enter a valid date"))
		})

		It("rejects categories outside the catalog", func() {
			dto := validDTO()
			dto.Category = "Pets"
			Expect(dto.Validate(catalog)).To(HaveKeyWithValue("category", "Please select a valid category"))
		})

		It("matches a padded category against the catalog", func() {
			dto := validDTO()
			dto.Category = "  Food "
			Expect(dto.Validate(catalog)).To(BeEmpty())
		})

		It("accepts any category when no catalog is configured", func() {
			dto := validDTO()
			dto.Category = "Pets"
			Expect(dto.Validate(nil)).To(BeEmpty())
		})
	})

	It("converts field errors into an ordered AppError", func() {
		appErr := expense.CreateExpenseDTO{}.Validate(catalog).AppError()

		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		details := appErr.Details.(internal.ValidationErrors)
		var order []string
		for _, e := range details.Errors {
			order = append(order, e.Field)
		}
		Expect(order).To(Equal([]string{"amount", "description", "date", "category"}))
	})

	It("decodes amounts sent as numbers or strings", func() {
		var fromNumber, fromString expense.CreateExpenseDTO
		Expect(json.Unmarshal([]byte(`{"amount":12.5,"description":"Lunch","date":"2024-03-05","category":"Food"}`), &fromNumber)).To(Succeed())
		Expect(json.Unmarshal([]byte(`{"amount":"12.5","description":"Lunch","date":"2024-03-05","category":"Food"}`), &fromString)).To(Succeed())

		Expect(fromNumber).To(Equal(fromString))
	})

	It("trims the description when converting to fields", func() {
		dto := validDTO()
		dto.Description = "  Lunch with team  "

		f, err := dto.ToFields()

		Expect(err).NotTo(HaveOccurred())
		Expect(f.Description).To(Equal("Lunch with team"))
		Expect(f.Amount).To(Equal(12.5))
		Expect(f.Date.String()).To(Equal("2024-03-05"))
	})

	It("trims the category when converting to fields", func() {
		dto := validDTO()
		dto.Category = " Food  "

		f, err := dto.ToFields()

		Expect(err).NotTo(HaveOccurred())
		Expect(f.Category).To(Equal("Food"))
	})
})
