package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localOnlyPolicy = `
package council_policy

import rego.v1

default decision := "allow"

decision := "block" if {
	input.backend == "hosted"
}
`

func TestDefaultPolicy(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngineFromFile(ctx, "")
	require.NoError(t, err)

	decision, _, err := engine.Evaluate(ctx, Input{Model: "openai/gpt-4o", Backend: "hosted", WireModel: "openai/gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)

	decision, reason, err := engine.Evaluate(ctx, Input{Model: "", Backend: "hosted"})
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)
	assert.Equal(t, "empty model identifier", reason)
}

func TestPolicyFromFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local_only.rego")
	require.NoError(t, os.WriteFile(path, []byte(localOnlyPolicy), 0o600))

	engine, err := NewEngineFromFile(ctx, path)
	require.NoError(t, err)

	decision, _, err := engine.Evaluate(ctx, Input{Model: "openai/gpt-4o", Backend: "hosted"})
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)

	decision, _, err = engine.Evaluate(ctx, Input{Model: "local/qwen", Backend: "local", WireModel: "qwen"})
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestInvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package broken\n\ndecision := {")
	assert.Error(t, err)

	_, err = NewEngineFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.rego"))
	assert.Error(t, err)
}

func TestUnknownDecision(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, "package council_policy\n\ndecision := \"maybe\"\n")
	require.NoError(t, err)

	_, _, err = engine.Evaluate(ctx, Input{Model: "m"})
	assert.Error(t, err)
}
