package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/adapter/llm"
	"github.com/xiaot623/gogo/council/internal/config"
	"github.com/xiaot623/gogo/council/internal/council"
	"github.com/xiaot623/gogo/council/internal/domain"
	"github.com/xiaot623/gogo/council/internal/repository"
)

// scriptedQuerier answers from a fixed table; identifiers without an answer
// fail with a transport error.
type scriptedQuerier struct {
	answers map[string]string

	mu    sync.Mutex
	calls map[string][][]domain.Message
}

func (q *scriptedQuerier) Query(ctx context.Context, identifier string, messages []domain.Message) domain.Outcome {
	q.mu.Lock()
	if q.calls == nil {
		q.calls = map[string][][]domain.Message{}
	}
	q.calls[identifier] = append(q.calls[identifier], messages)
	q.mu.Unlock()

	kind, _ := llm.Route(identifier)
	out := domain.Outcome{Model: identifier, Backend: kind}
	answer, ok := q.answers[identifier]
	if !ok {
		out.Err = &llm.QueryError{Kind: llm.FailureTransport, Backend: string(kind), Model: identifier, Err: errors.New("connection refused")}
		return out
	}
	out.Result = &domain.QueryResult{Content: &answer}
	return out
}

func (q *scriptedQuerier) callsTo(identifier string) [][]domain.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls[identifier]
}

func testConfig(models ...string) *config.Config {
	cfg := config.Default()
	cfg.CouncilModels = models
	cfg.TitleModel = "local/titler"
	return cfg
}

type testEnv struct {
	svc     *Service
	store   *repository.SQLiteStore
	querier *scriptedQuerier
}

func newTestEnv(t *testing.T, cfg *config.Config, answers map[string]string) *testEnv {
	t.Helper()
	store, err := repository.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	q := &scriptedQuerier{answers: answers}
	orch := council.New(q, council.StrategyFor(cfg.ExecutionMode()), zap.NewNop())
	svc, err := New(context.Background(), store, orch, cfg, nil, zap.NewNop())
	require.NoError(t, err)
	return &testEnv{svc: svc, store: store, querier: q}
}

func firstContent(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}
	return strings.TrimSpace(messages[0].Content)
}
