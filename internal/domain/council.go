package domain

import (
	"encoding/json"
	"time"
)

// QueryResult is the normalized answer of one backend call.
type QueryResult struct {
	// Content is nil when the backend returned a null or missing content field.
	Content          *string         `json:"content"`
	ReasoningDetails json.RawMessage `json:"reasoning_details,omitempty"`
}

// Text returns the content, or "" when it is absent.
func (r *QueryResult) Text() string {
	if r == nil || r.Content == nil {
		return ""
	}
	return *r.Content
}

// Outcome is what a backend call produces: a result on success, or a nil
// result and the cause on failure.
type Outcome struct {
	Model   string
	Backend BackendKind
	Result  *QueryResult
	Err     error
	Latency time.Duration
}

// Succeeded reports whether the call yielded a well-formed result.
func (o Outcome) Succeeded() bool {
	return o.Result != nil
}

// CouncilEntry is the outcome for one requested model identifier.
type CouncilEntry struct {
	Index   int          `json:"index"`
	Model   string       `json:"model"`
	Backend BackendKind  `json:"backend"`
	Result  *QueryResult `json:"result"`
	Error   string       `json:"error,omitempty"`
}

// CouncilResponse holds one entry per requested identifier, in request order.
// Duplicate identifiers keep their own entries.
type CouncilResponse struct {
	Mode    ExecutionMode  `json:"mode"`
	Entries []CouncilEntry `json:"entries"`
}

// NewCouncilResponse builds a response from outcomes indexed like models.
func NewCouncilResponse(mode ExecutionMode, models []string, outcomes []Outcome) CouncilResponse {
	resp := CouncilResponse{
		Mode:    mode,
		Entries: make([]CouncilEntry, len(models)),
	}
	for i, model := range models {
		entry := CouncilEntry{Index: i, Model: model}
		if i < len(outcomes) {
			out := outcomes[i]
			entry.Backend = out.Backend
			entry.Result = out.Result
			if out.Result == nil && out.Err != nil {
				entry.Error = out.Err.Error()
			}
		}
		resp.Entries[i] = entry
	}
	return resp
}

// Map returns the identifier-keyed view. For duplicate identifiers the last
// entry wins.
func (r CouncilResponse) Map() map[string]*QueryResult {
	m := make(map[string]*QueryResult, len(r.Entries))
	for _, e := range r.Entries {
		m[e.Model] = e.Result
	}
	return m
}

// Get returns the result for model and whether model was requested at all.
func (r CouncilResponse) Get(model string) (*QueryResult, bool) {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Model == model {
			return r.Entries[i].Result, true
		}
	}
	return nil, false
}

// Models returns the distinct requested identifiers in first-seen order.
func (r CouncilResponse) Models() []string {
	seen := make(map[string]struct{}, len(r.Entries))
	models := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		if _, ok := seen[e.Model]; ok {
			continue
		}
		seen[e.Model] = struct{}{}
		models = append(models, e.Model)
	}
	return models
}

// Succeeded counts entries with a result.
func (r CouncilResponse) Succeeded() int {
	n := 0
	for _, e := range r.Entries {
		if e.Result != nil {
			n++
		}
	}
	return n
}

// Failed counts entries without a result.
func (r CouncilResponse) Failed() int {
	return len(r.Entries) - r.Succeeded()
}
