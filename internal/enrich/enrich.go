package enrich

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/status"
	"github.com/commerce-ops/opsboard/internal/telemetry"
)

var pipelineTracer = otel.Tracer("github.com/commerce-ops/opsboard/enrich")

// DetailFetcher fetches the secondary per-order record. Implemented by the
// backend client; faked in tests.
type DetailFetcher interface {
	OrderDetail(ctx context.Context, orderID string) (*entity.OrderDetail, error)
}

// Pipeline fans out one detail fetch per order summary and fans the results
// back in. Concurrency is capped so large batches cannot exhaust backend
// connections; each result lands in the slot matching its input index, so
// output order always equals input order no matter which fetches finish
// first.
type Pipeline struct {
	fetcher     DetailFetcher
	logger      *zap.Logger
	concurrency int
}

// Params defines dependencies for constructing the Pipeline.
type Params struct {
	fx.In

	Fetcher DetailFetcher
	Logger  *zap.Logger
	Config  config.Config
}

// Module provides the Pipeline to the Fx graph.
var Module = fx.Provide(NewPipeline)

// NewPipeline wires a Pipeline instance.
func NewPipeline(p Params) *Pipeline {
	return New(p.Fetcher, p.Logger, p.Config.Enrichment.Concurrency)
}

// New builds a Pipeline with an explicit concurrency cap.
func New(fetcher DetailFetcher, logger *zap.Logger, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Pipeline{fetcher: fetcher, logger: logger, concurrency: concurrency}
}

// Enrich merges every summary with its detail record. A failed detail fetch
// never fails the batch: the affected order keeps an absent detail and a zero
// amount, and the failure is logged and counted. Enrich returns only after
// every fetch has settled.
func (p *Pipeline) Enrich(ctx context.Context, summaries []entity.OrderSummary) []entity.EnrichedOrder {
	ctx, span := pipelineTracer.Start(ctx, "enrich.Batch", trace.WithAttributes(
		attribute.Int("batch.size", len(summaries)),
	))
	defer span.End()

	enriched := make([]entity.EnrichedOrder, len(summaries))
	if len(summaries) == 0 {
		return enriched
	}

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	var failed atomic.Int64

	for i, summary := range summaries {
		g.Go(func() error {
			derived := status.Derive(summary)
			out := entity.EnrichedOrder{
				OrderSummary: summary,
				ActualAmount: decimal.Zero,
				Status:       string(derived.Status),
				StatusText:   derived.Label,
			}

			detail, err := p.fetcher.OrderDetail(ctx, summary.OrderID)
			if err != nil {
				failed.Add(1)
				telemetry.DetailFetchFailuresTotal.Inc()
				p.logger.Warn("order detail fetch failed",
					zap.String("order_id", summary.OrderID),
					zap.Error(err),
				)
			} else {
				out.Detail = detail
				out.ActualAmount = detail.SubOrderCost
			}

			enriched[i] = out
			return nil
		})
	}

	// Goroutines never return an error; Wait only fences completion.
	_ = g.Wait()

	outcome := "ok"
	if failed.Load() > 0 {
		outcome = "degraded"
	}
	telemetry.EnrichmentBatchesTotal.WithLabelValues(outcome).Inc()
	return enriched
}
