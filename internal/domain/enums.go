// Package domain defines the core domain models for the council service.
package domain

// Role is the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// BackendKind identifies which wire backend serves a model.
type BackendKind string

const (
	BackendHosted BackendKind = "hosted"
	BackendLocal  BackendKind = "local"
)

// ExecutionMode selects how council queries are scheduled.
type ExecutionMode string

const (
	// ExecutionSequential runs one query at a time, in request order.
	ExecutionSequential ExecutionMode = "sequential"
	// ExecutionParallel runs every query concurrently.
	ExecutionParallel ExecutionMode = "parallel"
)

// Valid reports whether m is a known execution mode.
func (m ExecutionMode) Valid() bool {
	return m == ExecutionSequential || m == ExecutionParallel
}
