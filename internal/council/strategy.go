package council

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// QueryFunc performs the query for one model identifier.
type QueryFunc func(ctx context.Context, model string) domain.Outcome

// Strategy schedules the queries of one dispatch and assembles the response.
type Strategy interface {
	Mode() domain.ExecutionMode
	Run(ctx context.Context, models []string, query QueryFunc) domain.CouncilResponse
}

// StrategyFor returns the strategy implementing mode. Unknown modes fall back
// to sequential execution.
func StrategyFor(mode domain.ExecutionMode) Strategy {
	if mode == domain.ExecutionParallel {
		return ParallelStrategy{}
	}
	return SequentialStrategy{}
}

// SequentialStrategy runs one query at a time in request order. Query N+1
// starts only after query N has returned, so at most one request is in flight.
type SequentialStrategy struct{}

// Mode returns domain.ExecutionSequential.
func (SequentialStrategy) Mode() domain.ExecutionMode { return domain.ExecutionSequential }

// Run executes the queries one after another.
func (s SequentialStrategy) Run(ctx context.Context, models []string, query QueryFunc) domain.CouncilResponse {
	outcomes := make([]domain.Outcome, len(models))
	for i, model := range models {
		outcomes[i] = query(ctx, model)
	}
	return domain.NewCouncilResponse(s.Mode(), models, outcomes)
}

// ParallelStrategy starts every query at once and waits for all of them.
// Each goroutine owns one slot of the outcome slice; the response is built
// after the join. A failing query never cancels its siblings.
type ParallelStrategy struct{}

// Mode returns domain.ExecutionParallel.
func (ParallelStrategy) Mode() domain.ExecutionMode { return domain.ExecutionParallel }

// Run executes the queries concurrently.
func (s ParallelStrategy) Run(ctx context.Context, models []string, query QueryFunc) domain.CouncilResponse {
	outcomes := make([]domain.Outcome, len(models))

	var g errgroup.Group
	for i, model := range models {
		i, model := i, model
		g.Go(func() error {
			outcomes[i] = query(ctx, model)
			return nil // failures live in the outcome
		})
	}
	_ = g.Wait()

	return domain.NewCouncilResponse(s.Mode(), models, outcomes)
}
