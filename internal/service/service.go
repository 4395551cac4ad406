// Package service implements the council use cases on top of the dispatch
// core and the conversation store.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/adapter/llm"
	"github.com/xiaot623/gogo/council/internal/config"
	"github.com/xiaot623/gogo/council/internal/domain"
	"github.com/xiaot623/gogo/council/internal/repository"
	"github.com/xiaot623/gogo/council/policy"
)

// Dispatcher sends one conversation to a list of models.
type Dispatcher interface {
	Dispatch(ctx context.Context, models []string, messages []domain.Message) domain.CouncilResponse
	Mode() domain.ExecutionMode
}

type Service struct {
	store      repository.Store
	dispatcher Dispatcher
	config     *config.Config
	logger     *zap.Logger

	models  []string
	blocked []string
}

// New builds the service and admits the configured council models through
// the policy engine. A nil engine admits every model.
func New(ctx context.Context, store repository.Store, dispatcher Dispatcher, cfg *config.Config, policyEngine *policy.Engine, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		config:     cfg,
		logger:     logger,
		models:     []string{},
	}

	for _, model := range cfg.Models() {
		if policyEngine == nil {
			s.models = append(s.models, model)
			continue
		}
		kind, wire := llm.Route(model)
		decision, reason, err := policyEngine.Evaluate(ctx, policy.Input{Model: model, Backend: string(kind), WireModel: wire})
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate policy for %q: %w", model, err)
		}
		if decision == policy.DecisionBlock {
			logger.Warn("council model blocked by policy", zap.String("model", model), zap.String("reason", reason))
			s.blocked = append(s.blocked, model)
			continue
		}
		s.models = append(s.models, model)
	}

	logger.Info("council configured",
		zap.Strings("models", s.models),
		zap.Int("blocked", len(s.blocked)),
		zap.String("mode", string(dispatcher.Mode())))
	return s, nil
}

// CouncilInfo describes the admitted council.
func (s *Service) CouncilInfo() domain.CouncilInfo {
	return domain.CouncilInfo{
		Models:     append([]string(nil), s.models...),
		Blocked:    append([]string(nil), s.blocked...),
		Mode:       s.dispatcher.Mode(),
		TitleModel: s.config.TitleModel,
	}
}
