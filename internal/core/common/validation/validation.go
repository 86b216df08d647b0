package validation

import (
	"math"
	"strconv"
	"strings"

	errors "github.com/frahmantamala/expense-tracker/internal"
)

// Rule reports whether value passes.
type Rule func(value string) bool

type check struct {
	rule    Rule
	message string
	code    errors.ErrorCode
}

type FieldValidator struct {
	FieldName string
	Value     string
	checks    []check
}

// ValidationBuilder collects per-field rules. Every field is checked; within a
// field the first failing rule wins.
type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0, 4),
	}
}

func (v *ValidationBuilder) Field(name string, value string) *FieldValidator {
	fv := &FieldValidator{
		FieldName: name,
		Value:     value,
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) add(rule Rule, message string, code errors.ErrorCode) *FieldValidator {
	fv.checks = append(fv.checks, check{rule: rule, message: message, code: code})
	return fv
}

func (fv *FieldValidator) Required(message string, code errors.ErrorCode) *FieldValidator {
	return fv.add(func(value string) bool {
		return strings.TrimSpace(value) != ""
	}, message, code)
}

// PositiveNumber requires a finite number strictly greater than zero.
func (fv *FieldValidator) PositiveNumber(message string, code errors.ErrorCode) *FieldValidator {
	return fv.add(func(value string) bool {
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return false
		}
		return n > 0
	}, message, code)
}

// MinTrimmedLength counts runes after trimming surrounding whitespace.
func (fv *FieldValidator) MinTrimmedLength(min int, message string, code errors.ErrorCode) *FieldValidator {
	return fv.add(func(value string) bool {
		return len([]rune(strings.TrimSpace(value))) >= min
	}, message, code)
}

// OneOf passes when allowed is empty or contains value.
func (fv *FieldValidator) OneOf(allowed []string, message string, code errors.ErrorCode) *FieldValidator {
	return fv.add(func(value string) bool {
		if len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == value {
				return true
			}
		}
		return false
	}, message, code)
}

func (fv *FieldValidator) Custom(rule Rule, message string, code errors.ErrorCode) *FieldValidator {
	return fv.add(rule, message, code)
}

// Errors returns one ValidationError per failing field, in declaration order.
func (v *ValidationBuilder) Errors() []errors.ValidationError {
	var out []errors.ValidationError
	for _, field := range v.fields {
		for _, c := range field.checks {
			if !c.rule(field.Value) {
				out = append(out, errors.ValidationError{
					Field:   field.FieldName,
					Message: c.message,
					Code:    string(c.code),
				})
				break
			}
		}
	}
	return out
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	validationErrors := v.Errors()
	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}
	return nil
}
