// Package policy decides which configured models are admitted to the council.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
)

// Decision is the result of a policy evaluation.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionBlock Decision = "block"
)

// Input is the document a council policy is evaluated against.
type Input struct {
	Model     string
	Backend   string
	WireModel string
}

func (in Input) toMap() map[string]interface{} {
	return map[string]interface{}{
		"model":      in.Model,
		"backend":    in.Backend,
		"wire_model": in.WireModel,
	}
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.council_policy.decision"),
		rego.Module("council_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewEngineFromFile loads the policy module at path, or DefaultPolicy when
// path is empty.
func NewEngineFromFile(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	return NewEngine(ctx, string(content))
}

// Evaluate checks whether a model may sit on the council.
// The rule may produce a bare decision string or an object
// {"decision": ..., "reason": ...}.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Decision, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input.toMap()))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, "default", nil
	}

	switch val := results[0].Expressions[0].Value.(type) {
	case string:
		return parseDecision(val)
	case map[string]interface{}:
		s, _ := val["decision"].(string)
		reason, _ := val["reason"].(string)
		d, _, err := parseDecision(s)
		return d, reason, err
	default:
		return "", "", fmt.Errorf("unexpected policy result type %T", val)
	}
}

func parseDecision(s string) (Decision, string, error) {
	switch Decision(s) {
	case DecisionAllow, DecisionBlock:
		return Decision(s), "", nil
	}
	return "", "", fmt.Errorf("unknown policy decision %q", s)
}

// DefaultPolicy admits every model with a non-empty identifier.
const DefaultPolicy = `
package council_policy

import rego.v1

default decision := "allow"

decision := {"decision": "block", "reason": "empty model identifier"} if {
	input.model == ""
}
`
