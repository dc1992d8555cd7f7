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
	"testing"
)

func TestToAPIError(t *testing.T) {
	var syntaxErr error
	{
		var v map[string]any
		syntaxErr = json.Unmarshal([]byte(`{"id":`), &v)
	}
	var typeErr error
	{
		var v struct {
			ID int `json:"id"`
		}
		typeErr = json.Unmarshal([]byte(`{"id":"twenty-five"}`), &v)
	}

	tests := []struct {
		name       string
		err        error
		wantKind   ErrorKind
		wantStatus int
	}{
		{
			name:       "404 status",
			err:        &HTTPStatusError{StatusCode: 404, Status: "404 Not Found"},
			wantKind:   KindHTTP,
			wantStatus: 404,
		},
		{
			name:       "503 status after retries",
			err:        fmt.Errorf("%w after 4 attempts: %w", ErrRetryExhausted, &HTTPStatusError{StatusCode: 503, Status: "503 Service Unavailable"}),
			wantKind:   KindHTTP,
			wantStatus: 503,
		},
		{
			name:       "no body",
			err:        ErrNoBody,
			wantKind:   KindHTTP,
			wantStatus: 404,
		},
		{
			name:     "json syntax",
			err:      fmt.Errorf("%w: %w", ErrDecode, syntaxErr),
			wantKind: KindSerialization,
		},
		{
			name:     "json type mismatch",
			err:      typeErr,
			wantKind: KindSerialization,
		},
		{
			name:     "url error",
			err:      &url.Error{Op: "Get", URL: "https://pokeapi.co", Err: errors.New("dial tcp: no such host")},
			wantKind: KindNetwork,
		},
		{
			name:     "op error",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
			wantKind: KindNetwork,
		},
		{
			name:     "unexpected eof",
			err:      io.ErrUnexpectedEOF,
			wantKind: KindNetwork,
		},
		{
			name:     "context cancelled",
			err:      context.Canceled,
			wantKind: KindNetwork,
		},
		{
			name:     "anything else",
			err:      errors.New("boom"),
			wantKind: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAPIError(tt.err)
			if got == nil {
				t.Fatal("ToAPIError() = nil")
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.wantStatus)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("APIError does not wrap its cause %v", tt.err)
			}
		})
	}
}

func TestToAPIError_Nil(t *testing.T) {
	if got := ToAPIError(nil); got != nil {
		t.Errorf("ToAPIError(nil) = %v, want nil", got)
	}
}

func TestToAPIError_Idempotent(t *testing.T) {
	original := &APIError{Kind: KindHTTP, StatusCode: 500, Message: "Server response error"}

	if got := ToAPIError(original); got != original {
		t.Errorf("ToAPIError(APIError) = %p, want same pointer %p", got, original)
	}

	wrapped := fmt.Errorf("fetch form: %w", original)
	if got := ToAPIError(wrapped); got != original {
		t.Errorf("ToAPIError(wrapped APIError) = %v, want %v", got, original)
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "http",
			err:      &APIError{Kind: KindHTTP, StatusCode: 404, Message: "Client request failed: Not Found"},
			expected: "PokeAPI http error (status 404): Client request failed: Not Found",
		},
		{
			name:     "network",
			err:      &APIError{Kind: KindNetwork, Message: "Network error: timeout"},
			expected: "PokeAPI network error: Network error: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHTTPMessage(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusNotFound, "Client request failed: Not Found"},
		{http.StatusBadGateway, "Server response error: Bad Gateway"},
		{http.StatusMultipleChoices, "HTTP error: Multiple Choices"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := httpMessage(&HTTPStatusError{StatusCode: tt.status}); got != tt.want {
				t.Errorf("httpMessage(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"client error should not retry", &HTTPStatusError{StatusCode: 404}, false},
		{"bad request should not retry", &HTTPStatusError{StatusCode: 400}, false},
		{"server error should retry", &HTTPStatusError{StatusCode: 500}, true},
		{"too many requests should retry", &HTTPStatusError{StatusCode: 429}, true},
		{"network error should retry", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		{"cancelled context should not retry", context.Canceled, false},
		{"deadline should not retry", context.DeadlineExceeded, false},
		{"decode error should not retry", ErrDecode, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := retryable(tt.err); result != tt.expected {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindNetwork, "network"},
		{KindHTTP, "http"},
		{KindSerialization, "serialization"},
		{KindUnknown, "unknown"},
		{ErrorKind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
