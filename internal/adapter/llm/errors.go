package llm

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a backend call produced no result.
type FailureKind string

const (
	// FailureTransport covers connection, DNS and timeout errors.
	FailureTransport FailureKind = "transport"
	// FailureProtocol covers non-2xx HTTP statuses.
	FailureProtocol FailureKind = "protocol"
	// FailureShape covers 2xx bodies that are not a usable completion.
	FailureShape FailureKind = "shape"
)

var (
	ErrEmptyChoices   = errors.New("missing or empty 'choices'")
	ErrMissingMessage = errors.New("missing 'message' in choice")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("LLM API error [%d]: %s", e.Code, e.Message)
}

// QueryError wraps a failed backend call with its classification.
type QueryError struct {
	Kind    FailureKind
	Backend string
	Model   string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s failure querying %s model %q: %v", e.Kind, e.Backend, e.Model, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err, or "" when err is not a QueryError.
func KindOf(err error) FailureKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}
