package v1

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/adapter/llm"
	"github.com/xiaot623/gogo/council/internal/config"
	"github.com/xiaot623/gogo/council/internal/council"
	"github.com/xiaot623/gogo/council/internal/domain"
	"github.com/xiaot623/gogo/council/internal/repository"
	"github.com/xiaot623/gogo/council/internal/service"
	"github.com/xiaot623/gogo/council/policy"
)

func newTestHandler(t *testing.T) (*Handler, repository.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.Mode = config.ModeMock
	cfg.CouncilModels = []string{"openai/gpt-4o", "local/qwen"}

	db, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	router := llm.NewRouter(llm.NewMockClient(domain.BackendHosted), llm.NewMockClient(domain.BackendLocal))
	orch := council.New(router, council.StrategyFor(cfg.ExecutionMode()), zap.NewNop())
	svc, err := service.New(ctx, db, orch, cfg, policyEngine, zap.NewNop())
	if err != nil {
		t.Fatalf("service.New failed: %v", err)
	}
	return NewHandler(svc), db
}
