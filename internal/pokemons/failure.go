package pokemons

import (
	"errors"
	"fmt"

	"github.com/alopesmendes/PokedexAI/pkg/client"
)

// FailureKind is the closed set of list failures.
type FailureKind int

const (
	UnknownFailure FailureKind = iota
	NetworkFailure
	HTTPFailure
	SerializationFailure

	// Validation failures, raised before any request is made.
	CountNegative
	OffsetNegative
	LimitNonPositive
	OffsetExceedsTotal
)

var failureKindNames = map[FailureKind]string{
	UnknownFailure:       "unknown",
	NetworkFailure:       "network",
	HTTPFailure:          "http",
	SerializationFailure: "serialization",
	CountNegative:        "count_negative",
	OffsetNegative:       "offset_negative",
	LimitNonPositive:     "limit_non_positive",
	OffsetExceedsTotal:   "offset_exceeds_total",
}

func (k FailureKind) String() string {
	if name, ok := failureKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ErrInvalidParams is the cause of every validation failure.
var ErrInvalidParams = errors.New("invalid pagination parameters")

// Failure is the error returned by the list repository.
type Failure struct {
	Kind       FailureKind
	StatusCode int // HTTPFailure only
	Message    string
	Cause      error
}

func (f *Failure) Error() string {
	if f.Kind == HTTPFailure {
		return fmt.Sprintf("%s (status %d)", f.Message, f.StatusCode)
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// IsValidation reports whether the failure was raised by parameter checks.
func (f *Failure) IsValidation() bool {
	switch f.Kind {
	case CountNegative, OffsetNegative, LimitNonPositive, OffsetExceedsTotal:
		return true
	default:
		return false
	}
}

func validationFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message, Cause: ErrInvalidParams}
}

// FailureFromAPIError maps a transport error into a list failure.
func FailureFromAPIError(err *client.APIError) *Failure {
	switch err.Kind {
	case client.KindNetwork:
		return &Failure{Kind: NetworkFailure, Message: err.Message, Cause: err}
	case client.KindHTTP:
		return &Failure{Kind: HTTPFailure, StatusCode: err.StatusCode, Message: err.Message, Cause: err}
	case client.KindSerialization:
		return &Failure{Kind: SerializationFailure, Message: err.Message, Cause: err}
	case client.KindUnknown:
		return &Failure{Kind: UnknownFailure, Message: err.Message, Cause: err}
	default:
		return &Failure{Kind: UnknownFailure, Message: err.Message, Cause: err}
	}
}

// toFailure maps any error into a list failure.
func toFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return FailureFromAPIError(client.ToAPIError(err))
}
