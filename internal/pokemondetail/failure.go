package pokemondetail

import (
	"errors"
	"fmt"

	"github.com/alopesmendes/PokedexAI/pkg/client"
)

// FailureKind is the closed set of detail failures.
type FailureKind int

const (
	UnknownFailure FailureKind = iota
	NetworkFailure
	HTTPFailure
	SerializationFailure
)

func (k FailureKind) String() string {
	switch k {
	case NetworkFailure:
		return "network"
	case HTTPFailure:
		return "http"
	case SerializationFailure:
		return "serialization"
	default:
		return "unknown"
	}
}

// Failure is the error returned by the detail repository.
type Failure struct {
	Kind       FailureKind
	StatusCode int
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

// NotFound reports whether the Pokémon does not exist.
func (f *Failure) NotFound() bool {
	return f.Kind == HTTPFailure && f.StatusCode == 404
}

// FailureFromAPIError maps a transport error one-to-one.
func FailureFromAPIError(err *client.APIError) *Failure {
	f := &Failure{Message: err.Message, Cause: err}
	switch err.Kind {
	case client.KindNetwork:
		f.Kind = NetworkFailure
	case client.KindHTTP:
		f.Kind = HTTPFailure
		f.StatusCode = err.StatusCode
	case client.KindSerialization:
		f.Kind = SerializationFailure
	default:
		f.Kind = UnknownFailure
	}
	return f
}

func toFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return FailureFromAPIError(client.ToAPIError(err))
}
