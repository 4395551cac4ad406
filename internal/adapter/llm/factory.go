package llm

import (
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/config"
	"github.com/xiaot623/gogo/council/internal/domain"
)

// NewRouterFromConfig builds the hosted and local backends and the router
// over them. When cfg is in mock mode both backends are MockClients.
func NewRouterFromConfig(cfg *config.Config, logger *zap.Logger) *Router {
	if cfg.IsMock() {
		logger.Info("COUNCIL_MODE=MOCK detected, using mock LLM backends")
		return NewRouter(NewMockClient(domain.BackendHosted), NewMockClient(domain.BackendLocal))
	}

	hosted := NewHostedClient(cfg.Hosted.URL, cfg.Hosted.APIKey, cfg.Hosted.Timeout, WithLogger(logger))
	local := NewLocalClient(cfg.Local.URL, cfg.Local.APIKey, cfg.Local.Timeout, WithLogger(logger))
	return NewRouter(hosted, local)
}
