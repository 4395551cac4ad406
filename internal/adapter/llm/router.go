package llm

import (
	"context"
	"strings"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// LocalPrefix marks a model identifier for the local backend.
const LocalPrefix = "local/"

// Route picks the backend for identifier and returns the model name to put on
// the wire. Only the local prefix is stripped; an identifier that is just the
// prefix yields an empty wire name.
func Route(identifier string) (domain.BackendKind, string) {
	if strings.HasPrefix(identifier, LocalPrefix) {
		return domain.BackendLocal, strings.TrimPrefix(identifier, LocalPrefix)
	}
	return domain.BackendHosted, identifier
}

// Router dispatches a model identifier to the hosted or local backend.
type Router struct {
	hosted Backend
	local  Backend
}

// NewRouter creates a router over the two backends.
func NewRouter(hosted, local Backend) *Router {
	return &Router{hosted: hosted, local: local}
}

// Backend returns the backend serving kind.
func (r *Router) Backend(kind domain.BackendKind) Backend {
	if kind == domain.BackendLocal {
		return r.local
	}
	return r.hosted
}

// Query routes identifier and queries the chosen backend with its default
// timeout. The returned Outcome carries the original identifier.
func (r *Router) Query(ctx context.Context, identifier string, messages []domain.Message) domain.Outcome {
	kind, wire := Route(identifier)
	backend := r.Backend(kind)
	out := backend.Query(ctx, wire, messages, backend.Timeout())
	out.Model = identifier
	out.Backend = kind
	return out
}
