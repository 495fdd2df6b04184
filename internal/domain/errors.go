package domain

import (
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeServer       ErrorType = "SERVER_ERROR"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the failure arm of every service result. Errors is only set for
// VALIDATION_ERROR, Message for the other kinds.
type APIError struct {
	Type    ErrorType    `json:"type"`
	Errors  []FieldError `json:"errors,omitempty"`
	Message string       `json:"message,omitempty"`
}

func NewValidationError(errs ...FieldError) *APIError {
	return &APIError{Type: ErrorTypeValidation, Errors: errs}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{Type: ErrorTypeNotFound, Message: message}
}

func NewUnauthorizedError(message string) *APIError {
	return &APIError{Type: ErrorTypeUnauthorized, Message: message}
}

func NewServerError(message string) *APIError {
	return &APIError{Type: ErrorTypeServer, Message: message}
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Type == ErrorTypeValidation && len(e.Errors) > 0 {
		messages := make([]string, 0, len(e.Errors))
		for _, fieldErr := range e.Errors {
			messages = append(messages, fieldErr.Message)
		}
		return strings.Join(messages, ", ")
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Type)
}

func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrValidation:
		return e.Type == ErrorTypeValidation
	case ErrNotFound:
		return e.Type == ErrorTypeNotFound
	case ErrUnauthorized:
		return e.Type == ErrorTypeUnauthorized
	case ErrServer:
		return e.Type == ErrorTypeServer
	default:
		return false
	}
}

// HasField reports whether a validation error names field.
func (e *APIError) HasField(field string) bool {
	if e == nil {
		return false
	}
	for _, fieldErr := range e.Errors {
		if fieldErr.Field == field {
			return true
		}
	}
	return false
}
