// Package llm provides the chat completion backends and the model router.
package llm

import (
	"context"
	"time"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// Backend is one chat completion endpoint.
type Backend interface {
	Name() string
	Kind() domain.BackendKind
	// Timeout is the default per-call timeout for this backend.
	Timeout() time.Duration
	// Query performs a single call. Failures are reported in the Outcome,
	// never as a panic or separate error value.
	Query(ctx context.Context, model string, messages []domain.Message, timeout time.Duration) domain.Outcome
}

// Ensure Client and MockClient implement Backend.
var (
	_ Backend = (*Client)(nil)
	_ Backend = (*MockClient)(nil)
)
