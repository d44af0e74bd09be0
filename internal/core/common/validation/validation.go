package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/common/dates"
	"github.com/shopspring/decimal"
)

const (
	DescriptionMinLength  = 3
	DescriptionMaxLength  = 200
	CategoryNameMinLength = 2
	CategoryNameMaxLength = 50
	AmountMaxDecimals     = 2
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

func (fv *FieldValidator) Required(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), code)
			}
		case time.Time:
			if v.IsZero() {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if utf8.RuneCountInString(v) < min {
				return fv.fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if utf8.RuneCountInString(v) > max {
				return fv.fail(fmt.Sprintf("%s must be at most %d characters", fv.FieldName, max), code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Positive(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(decimal.Decimal); ok {
			if !v.IsPositive() {
				return fv.fail(fmt.Sprintf("%s must be positive", fv.FieldName), code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxDecimals(places int32, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(decimal.Decimal); ok {
			if !v.Equal(v.Truncate(places)) {
				return fv.fail(fmt.Sprintf("%s must have at most %d decimal places", fv.FieldName, places), code)
			}
		}
		return nil
	})
	return fv
}

// NotFuture rejects calendar dates after the calendar date of now.
func (fv *FieldValidator) NotFuture(now time.Time) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(time.Time); ok {
			if dates.Day(v).After(dates.Today(now)) {
				return fv.fail(fmt.Sprintf("%s cannot be in the future", fv.FieldName), errors.ErrCodeInvalidDate)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) HexColor() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if !hexColorPattern.MatchString(v) {
				return fv.fail(fmt.Sprintf("%s must be a valid hex color", fv.FieldName), errors.ErrCodeInvalidColor)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every field and stops at the first failure per field, so the
// details list reads one problem per field.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			err := validator(field.Value)
			if err == nil {
				continue
			}
			if details, ok := err.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: err.Message,
					Code:    string(err.Code),
				})
			}
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

func (v *ValidationBuilder) ExpenseAmount(amount decimal.Decimal) *ValidationBuilder {
	v.Field("amount", amount).
		Positive(errors.ErrCodeInvalidAmount).
		MaxDecimals(AmountMaxDecimals, errors.ErrCodeInvalidAmount)
	return v
}

func (v *ValidationBuilder) ExpenseDescription(description string) *ValidationBuilder {
	v.Field("description", description).
		Required(errors.ErrCodeInvalidDescription).
		MinLength(DescriptionMinLength, errors.ErrCodeInvalidDescription).
		MaxLength(DescriptionMaxLength, errors.ErrCodeInvalidDescription)
	return v
}

func (v *ValidationBuilder) ExpenseCategory(category string) *ValidationBuilder {
	v.Field("category", category).
		Required(errors.ErrCodeInvalidCategory)
	return v
}

func (v *ValidationBuilder) ExpenseDate(date, now time.Time) *ValidationBuilder {
	v.Field("date", date).
		Required(errors.ErrCodeInvalidDate).
		NotFuture(now)
	return v
}

func (v *ValidationBuilder) CategoryName(name string) *ValidationBuilder {
	v.Field("name", name).
		Required(errors.ErrCodeInvalidName).
		MinLength(CategoryNameMinLength, errors.ErrCodeInvalidName).
		MaxLength(CategoryNameMaxLength, errors.ErrCodeInvalidName)
	return v
}

func (v *ValidationBuilder) CategoryColor(color string) *ValidationBuilder {
	v.Field("color", color).
		HexColor()
	return v
}
