package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeStorage    ErrorType = "STORAGE_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDescription ErrorCode = "INVALID_DESCRIPTION"
	ErrCodeInvalidCategory    ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidDate        ErrorCode = "INVALID_DATE"
	ErrCodeInvalidName        ErrorCode = "INVALID_NAME"
	ErrCodeInvalidColor       ErrorCode = "INVALID_COLOR"

	ErrCodeExpenseNotFound  ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeCategoryNotFound ErrorCode = "CATEGORY_NOT_FOUND"

	ErrCodeDuplicateName ErrorCode = "DUPLICATE_CATEGORY_NAME"
	ErrCodeCategoryInUse ErrorCode = "CATEGORY_IN_USE"

	ErrCodeStorageQuotaExceeded ErrorCode = "STORAGE_QUOTA_EXCEEDED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type    ErrorType   `json:"type"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Cause   error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports a match on Code, so errors.Is(err, ErrCategoryInUse) holds for
// every category-in-use error regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    code,
		Message: message,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

func NewStorageError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Code:    code,
		Message: message,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeInternal,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is. Services return fresh errors with descriptive
// messages; never mutate these.
var (
	ErrValidation           = NewValidationError("Validation failed", ErrCodeValidationFailed)
	ErrExpenseNotFound      = NewNotFoundError("Expense not found", ErrCodeExpenseNotFound)
	ErrCategoryNotFound     = NewNotFoundError("Category not found", ErrCodeCategoryNotFound)
	ErrDuplicateName        = NewConflictError("Category name must be unique", ErrCodeDuplicateName)
	ErrCategoryInUse        = NewConflictError("Category has associated expenses", ErrCodeCategoryInUse)
	ErrStorageQuotaExceeded = NewStorageError("Storage quota exceeded", ErrCodeStorageQuotaExceeded)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
