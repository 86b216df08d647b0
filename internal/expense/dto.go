package expense

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
)

const (
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldCategory    = "category"

	MinDescriptionLength = 3
)

const (
	MsgInvalidAmount        = "Please enter a valid amount"
	MsgEmptyDescription     = "Please enter a description"
	MsgShortDescription     = "Description must be at least 3 characters"
	MsgEmptyDate            = "Please select a date"
	MsgInvalidDate          = "Please enter a valid date"
	MsgEmptyCategory        = "Please select a category"
	MsgUnrecognizedCategory = "Please select a valid category"
)

var fieldOrder = []string{FieldAmount, FieldDescription, FieldDate, FieldCategory}

// FormValue is a raw form input. It decodes from a JSON string or number so
// API clients may send amounts either way.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*v = FormValue(n.String())
	return nil
}

// CreateExpenseDTO carries candidate field values exactly as entered.
type CreateExpenseDTO struct {
	Amount      FormValue `json:"amount"`
	Description FormValue `json:"description"`
	Date        FormValue `json:"date"`
	Category    FormValue `json:"category"`
}

// UpdateExpenseDTO has the same shape; all four fields are replaced.
type UpdateExpenseDTO = CreateExpenseDTO

// FieldErrors maps a field name to its message. Empty means valid.
type FieldErrors map[string]string

func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// AppError converts the field errors into a validation AppError, or nil.
func (fe FieldErrors) AppError() *internal.AppError {
	if fe.Valid() {
		return nil
	}

	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return fieldRank(keys[i]) < fieldRank(keys[j])
	})

	details := internal.ValidationErrors{}
	for _, k := range keys {
		details.Errors = append(details.Errors, internal.ValidationError{
			Field:   k,
			Message: fe[k],
			Code:    string(fieldCode(k)),
		})
	}
	return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
		WithDetails(details)
}

func fieldRank(field string) int {
	for i, f := range fieldOrder {
		if f == field {
			return i
		}
	}
	return len(fieldOrder)
}

func fieldCode(field string) internal.ErrorCode {
	switch field {
	case FieldAmount:
		return internal.ErrCodeInvalidAmount
	case FieldDescription:
		return internal.ErrCodeInvalidDescription
	case FieldDate:
		return internal.ErrCodeInvalidDate
	case FieldCategory:
		return internal.ErrCodeInvalidCategory
	default:
		return internal.ErrCodeValidationFailed
	}
}

// Validate checks every field independently and returns all failures.
// categories is the configured catalog; when empty any non-blank category is
// accepted.
func (dto CreateExpenseDTO) Validate(categories []string) FieldErrors {
	v := validation.NewValidator()

	v.Field(FieldAmount, string(dto.Amount)).
		Required(MsgInvalidAmount, internal.ErrCodeInvalidAmount).
		PositiveNumber(MsgInvalidAmount, internal.ErrCodeInvalidAmount)

	v.Field(FieldDescription, string(dto.Description)).
		Required(MsgEmptyDescription, internal.ErrCodeInvalidDescription).
		MinTrimmedLength(MinDescriptionLength, MsgShortDescription, internal.ErrCodeInvalidDescription)

	v.Field(FieldDate, string(dto.Date)).
		Required(MsgEmptyDate, internal.ErrCodeInvalidDate).
		Custom(func(value string) bool {
			_, err := ParseDate(value)
			return err == nil
		}, MsgInvalidDate, internal.ErrCodeInvalidDate)

	v.Field(FieldCategory, strings.TrimSpace(string(dto.Category))).
		Required(MsgEmptyCategory, internal.ErrCodeInvalidCategory).
		OneOf(categories, MsgUnrecognizedCategory, internal.ErrCodeInvalidCategory)

	errs := FieldErrors{}
	for _, e := range v.Errors() {
		errs[e.Field] = e.Message
	}
	return errs
}

// ToFields converts a validated DTO into typed fields. Description and
// category are stored trimmed.
func (dto CreateExpenseDTO) ToFields() (Fields, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(string(dto.Amount)), 64)
	if err != nil {
		return Fields{}, fmt.Errorf("parse amount: %w", err)
	}
	date, err := ParseDate(string(dto.Date))
	if err != nil {
		return Fields{}, err
	}
	return Fields{
		Amount:      amount,
		Description: strings.TrimSpace(string(dto.Description)),
		Date:        date,
		Category:    strings.TrimSpace(string(dto.Category)),
	}, nil
}

// DTOFromFields renders typed fields back into form values, e.g. to prefill
// an edit form.
func DTOFromFields(f Fields) CreateExpenseDTO {
	return CreateExpenseDTO{
		Amount:      FormValue(strconv.FormatFloat(f.Amount, 'f', -1, 64)),
		Description: FormValue(f.Description),
		Date:        FormValue(f.Date.String()),
		Category:    FormValue(f.Category),
	}
}

type ListResponse struct {
	Expenses       []Expense `json:"expenses"`
	Count          int       `json:"count"`
	Total          float64   `json:"total"`
	TotalFormatted string    `json:"total_formatted"`
}
