package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/council"
	"github.com/xiaot623/gogo/council/internal/domain"
	"github.com/xiaot623/gogo/council/internal/repository"
	"github.com/xiaot623/gogo/council/policy"
)

const hostedBlockingPolicy = `
package council_policy

import rego.v1

default decision := "allow"

decision := {"decision": "block", "reason": "hosted models disabled"} if {
	input.backend == "hosted"
}
`

func TestNewAppliesPolicy(t *testing.T) {
	ctx := context.Background()
	store, err := repository.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	engine, err := policy.NewEngine(ctx, hostedBlockingPolicy)
	require.NoError(t, err)

	cfg := testConfig("openai/gpt-4o", "local/qwen", "anthropic/claude", "local/llama")
	orch := council.New(&scriptedQuerier{}, council.SequentialStrategy{}, zap.NewNop())
	svc, err := New(ctx, store, orch, cfg, engine, zap.NewNop())
	require.NoError(t, err)

	info := svc.CouncilInfo()
	assert.Equal(t, []string{"local/qwen", "local/llama"}, info.Models)
	assert.Equal(t, []string{"openai/gpt-4o", "anthropic/claude"}, info.Blocked)
	assert.Equal(t, domain.ExecutionSequential, info.Mode)
	assert.Equal(t, "local/titler", info.TitleModel)
}

func TestNewDefaultPolicyAdmitsAll(t *testing.T) {
	ctx := context.Background()
	engine, err := policy.NewEngineFromFile(ctx, "")
	require.NoError(t, err)

	cfg := testConfig("openai/gpt-4o", "local/qwen")
	orch := council.New(&scriptedQuerier{}, council.ParallelStrategy{}, zap.NewNop())
	svc, err := New(ctx, nil, orch, cfg, engine, nil)
	require.NoError(t, err)

	info := svc.CouncilInfo()
	assert.Equal(t, []string{"openai/gpt-4o", "local/qwen"}, info.Models)
	assert.Empty(t, info.Blocked)
	assert.Equal(t, domain.ExecutionParallel, info.Mode)
}

func TestQueryCouncil(t *testing.T) {
	env := newTestEnv(t, testConfig("openai/gpt-4o", "local/qwen", "local/down"), map[string]string{
		"openai/gpt-4o": "A",
		"local/qwen":    "B",
	})

	messages := []domain.Message{
		domain.NewMessage(domain.RoleSystem, "be brief"),
		domain.NewMessage(domain.RoleUser, "hello"),
	}
	resp, err := env.svc.QueryCouncil(context.Background(), domain.CouncilQueryRequest{Messages: messages})
	require.NoError(t, err)

	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "A", resp.Entries[0].Result.Text())
	assert.Equal(t, "B", resp.Entries[1].Result.Text())
	assert.Nil(t, resp.Entries[2].Result)
	assert.NotEmpty(t, resp.Entries[2].Error)
	assert.Equal(t, messages, env.querier.callsTo("local/qwen")[0])
}

func TestQueryCouncilRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t, testConfig("local/qwen"), nil)

	_, err := env.svc.QueryCouncil(context.Background(), domain.CouncilQueryRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.svc.QueryCouncil(context.Background(), domain.CouncilQueryRequest{
		Messages: []domain.Message{{Role: "tool", Content: "x"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, env.querier.callsTo("local/qwen"))
}
