// Package errors carries machine-readable codes through forecastviz errors.
//
// Sources, the pipeline and the renderers return *Error values with a Code.
// The CLI prints "CODE: message" and the HTTP server maps the code to a
// status with [HTTPStatus]. Codes survive wrapping with fmt.Errorf("%w").
//
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // try the next source
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable identifier for a class of failure.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidTicker  Code = "INVALID_TICKER"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	ErrCodeNotFound Code = "NOT_FOUND"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeInvalidTicker:  http.StatusBadRequest,
	ErrCodeInvalidFormat:  http.StatusBadRequest,
	ErrCodeInvalidConfig:  http.StatusBadRequest,
	ErrCodeInvalidDataset: http.StatusBadRequest,
	ErrCodeInvalidPath:    http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeRateLimited:    http.StatusTooManyRequests,
	ErrCodeNetwork:        http.StatusBadGateway,
	ErrCodeTimeout:        http.StatusGatewayTimeout,
	ErrCodeUnsupported:    http.StatusNotImplemented,
}

// Error pairs a Code with a human message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the first code found in err's chain, or "".
// Besides *Error it recognises any error with a Code() Code method.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c interface{ Code() Code }
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage strips the code prefix and cause from coded errors.
func UserMessage(err error) string {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status. Uncoded errors are 500.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RateLimitedError is returned when an upstream answers 429.
type RateLimitedError struct {
	RetryAfter int // seconds; 0 when the upstream gave no hint
	Message    string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter <= 0 {
		return "rate limited"
	}
	return fmt.Sprintf("rate limited: retry after %ds", e.RetryAfter)
}

func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
