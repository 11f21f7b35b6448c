package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	// Retryable marks collaborator failures the operator may simply retry
	// (card terminal I/O), as opposed to validation or integrity errors.
	Retryable bool `json:"retryable,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Domain errors. These encode business invariants, not bugs: the operator
// corrects the input and retries.
var (
	ErrLimitExceeded      = &AppError{Code: http.StatusUnprocessableEntity, Message: "Müşteri limiti yetersiz"}
	ErrInsufficientAmount = &AppError{Code: http.StatusUnprocessableEntity, Message: "Alınan tutar yetersiz"}
	ErrHasOutstandingDebt = &AppError{Code: http.StatusConflict, Message: "Müşterinin ödenmemiş borcu var"}
	ErrSessionAlreadyOpen = &AppError{Code: http.StatusConflict, Message: "Zaten açık bir kasa oturumu var"}
	ErrNoOpenSession      = &AppError{Code: http.StatusUnprocessableEntity, Message: "Açık kasa oturumu yok"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewOverpayConfirmationRequired is returned when a split settlement collects
// more than the discounted total without the operator confirming the surplus.
func NewOverpayConfirmationRequired(surplus float64) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Fazla ödeme: %.2f ₺, onay gerekli", surplus),
	}
}

// NewTerminalError wraps a card-terminal failure. The settlement that hit it
// is aborted but may be retried by the operator as-is.
func NewTerminalError(message string) *AppError {
	return &AppError{
		Code:      http.StatusBadGateway,
		Message:   message,
		Retryable: true,
	}
}

// NewIntegrityError flags a violated precondition (mutating a closed session,
// a partially failed multi-record write). Fatal to the current operation.
func NewIntegrityError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsRetryable reports whether the error is a retryable collaborator failure.
func IsRetryable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Retryable
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
