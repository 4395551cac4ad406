// Package council fans a conversation out to a panel of models and collects
// one outcome per requested model.
package council

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/domain"
)

const tracerName = "github.com/xiaot623/gogo/council/internal/council"

// Querier queries one model identifier. llm.Router implements it.
type Querier interface {
	Query(ctx context.Context, identifier string, messages []domain.Message) domain.Outcome
}

// Orchestrator dispatches a conversation to every requested model.
type Orchestrator struct {
	querier  Querier
	strategy Strategy
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New creates an orchestrator. A nil strategy means sequential execution.
func New(querier Querier, strategy Strategy, logger *zap.Logger) *Orchestrator {
	if strategy == nil {
		strategy = SequentialStrategy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		querier:  querier,
		strategy: strategy,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// Mode returns the configured execution mode.
func (o *Orchestrator) Mode() domain.ExecutionMode {
	return o.strategy.Mode()
}

// Dispatch sends messages to every model and returns one entry per requested
// identifier, in request order. It never fails: a model whose query failed
// has an entry with a nil result.
func (o *Orchestrator) Dispatch(ctx context.Context, models []string, messages []domain.Message) domain.CouncilResponse {
	dispatchID := "council_" + uuid.New().String()[:8]
	msgs := append([]domain.Message(nil), messages...)
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "council.dispatch", trace.WithAttributes(
		attribute.String("council.dispatch_id", dispatchID),
		attribute.String("council.mode", string(o.Mode())),
		attribute.Int("council.models", len(models)),
	))
	defer span.End()

	resp := o.strategy.Run(ctx, models, func(ctx context.Context, model string) domain.Outcome {
		return o.query(ctx, dispatchID, model, msgs)
	})

	elapsed := time.Since(start)
	recordDispatch(resp.Mode, elapsed)
	span.SetAttributes(
		attribute.Int("council.succeeded", resp.Succeeded()),
		attribute.Int("council.failed", resp.Failed()),
	)
	o.logger.Info("council dispatch finished",
		zap.String("dispatch_id", dispatchID),
		zap.String("mode", string(resp.Mode)),
		zap.Int("models", len(models)),
		zap.Int("succeeded", resp.Succeeded()),
		zap.Int("failed", resp.Failed()),
		zap.Duration("elapsed", elapsed))
	return resp
}

func (o *Orchestrator) query(ctx context.Context, dispatchID, model string, messages []domain.Message) domain.Outcome {
	ctx, span := o.tracer.Start(ctx, "council.query", trace.WithAttributes(
		attribute.String("council.dispatch_id", dispatchID),
		attribute.String("council.model", model),
	))
	defer span.End()

	start := time.Now()
	out := o.querier.Query(ctx, model, messages)
	out.Model = model
	recordQuery(out, time.Since(start))

	span.SetAttributes(attribute.String("council.backend", string(out.Backend)))
	if !out.Succeeded() {
		msg := "no result"
		if out.Err != nil {
			msg = out.Err.Error()
		}
		span.SetStatus(codes.Error, msg)
	}
	return out
}
