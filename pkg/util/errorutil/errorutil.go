package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/resolution-estimator/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

func NewUnavailable(message string, err error) error {
	return &DomainError{
		Code:       "UNAVAILABLE",
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// FromStageError maps a pipeline stage failure to its HTTP representation.
// The message is the full stage-prefixed cause so callers see "Encoding failed: ...".
func FromStageError(se *domain.StageError) *DomainError {
	de := &DomainError{Message: se.Error(), Err: se}
	switch se.Stage {
	case domain.StageEncoding:
		de.Code = "ENCODING_FAILED"
		de.HTTPStatus = http.StatusBadRequest
	case domain.StageDateParsing:
		de.Code = "DATE_PARSING_FAILED"
		de.HTTPStatus = http.StatusBadRequest
	default:
		de.Code = "PREDICTION_FAILED"
		de.HTTPStatus = http.StatusInternalServerError
	}
	return de
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		return FromStageError(stageErr)
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

