package service

import (
	"encoding/json"

	"orderdesk/backend/internal/domain"
)

const serverErrorMessage = "An unexpected error occurred"

type Metadata struct {
	Total int `json:"total"`
	Page  int `json:"page"`
}

// Result is the outcome of every operation. Exactly one of Data and Error is
// meaningful, selected by Success.
type Result[T any] struct {
	Success  bool
	Data     T
	Metadata *Metadata
	Error    *domain.APIError
}

func (r Result[T]) Unwrap() (T, error) {
	if r.Success {
		return r.Data, nil
	}
	if r.Error == nil {
		return r.Data, domain.NewServerError(serverErrorMessage)
	}
	return r.Data, r.Error
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	envelope := struct {
		Success  bool             `json:"success"`
		Data     any              `json:"data,omitempty"`
		Metadata *Metadata        `json:"metadata,omitempty"`
		Error    *domain.APIError `json:"error,omitempty"`
	}{
		Success:  r.Success,
		Metadata: r.Metadata,
		Error:    r.Error,
	}
	if r.Success {
		envelope.Data = r.Data
	}
	return json.Marshal(envelope)
}

func succeed[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](err *domain.APIError) Result[T] {
	return Result[T]{Error: err}
}

func invalid[T any](errs ...domain.FieldError) Result[T] {
	return fail[T](domain.NewValidationError(errs...))
}

func notFound[T any](message string) Result[T] {
	return fail[T](domain.NewNotFoundError(message))
}

func (s *Service) serverFailure(operation string, err error) *domain.APIError {
	s.logger.Error("service_operation_failed", "operation", operation, "error", err)
	return domain.NewServerError(serverErrorMessage)
}
