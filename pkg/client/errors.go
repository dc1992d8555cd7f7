package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrNoBody is returned when a successful response carries no decodable body.
	// It is classified as a 404-equivalent HTTP error.
	ErrNoBody = errors.New("no body transformation found")

	// ErrDecode is returned when a response body cannot be decoded into the target type.
	ErrDecode = errors.New("decode response body")
)

// ErrorKind is the closed set of transport-level failure kinds.
type ErrorKind int

const (
	// KindUnknown is anything the other kinds do not describe.
	KindUnknown ErrorKind = iota

	// KindNetwork represents I/O and connectivity failures.
	KindNetwork

	// KindHTTP represents non-2xx responses.
	KindHTTP

	// KindSerialization represents payload decode failures.
	KindSerialization
)

// String returns the metric/log label of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// APIError is the only error type that crosses the remote-access boundary.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // set for KindHTTP only
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("PokeAPI %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("PokeAPI %s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatusError carries a non-2xx response status.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// ToAPIError maps any error into exactly one APIError kind.
// An error that already is (or wraps) an APIError is returned unchanged.
func ToAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return &APIError{
			Kind:       KindHTTP,
			StatusCode: statusErr.StatusCode,
			Message:    httpMessage(statusErr),
			Err:        err,
		}
	}

	if errors.Is(err, ErrNoBody) {
		return &APIError{
			Kind:       KindHTTP,
			StatusCode: http.StatusNotFound,
			Message:    "Failed to transform response body: " + err.Error(),
			Err:        err,
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, ErrDecode) {
		return &APIError{
			Kind:    KindSerialization,
			Message: "Serialization error: " + err.Error(),
			Err:     err,
		}
	}

	if isNetworkError(err) {
		return &APIError{
			Kind:    KindNetwork,
			Message: "Network error: " + err.Error(),
			Err:     err,
		}
	}

	return &APIError{
		Kind:    KindUnknown,
		Message: "An unknown API error occurred: " + err.Error(),
		Err:     err,
	}
}

func httpMessage(e *HTTPStatusError) string {
	text := http.StatusText(e.StatusCode)
	switch {
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return "Client request failed: " + text
	case e.StatusCode >= 500:
		return "Server response error: " + text
	default:
		return "HTTP error: " + text
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	var urlErr *url.Error
	var opErr *net.OpError
	switch {
	case errors.As(err, &netErr), errors.As(err, &urlErr), errors.As(err, &opErr):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrContextCancelled):
		return true
	default:
		return false
	}
}

// retryable reports whether a request error is worth another attempt.
func retryable(err error) bool {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return true
		case statusErr.StatusCode >= 500:
			return true
		default:
			// 4xx will not change on retry
			return false
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return isNetworkError(err)
}

// kindOf labels a raw request error for metrics before it is mapped.
func kindOf(err error) ErrorKind {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return KindHTTP
	}
	if isNetworkError(err) {
		return KindNetwork
	}
	return KindUnknown
}
