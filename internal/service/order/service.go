package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/commerce-ops/opsboard/internal/cache"
	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/enrich"
	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/stats"
	"github.com/commerce-ops/opsboard/internal/status"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/commerce-ops/opsboard/service/order")

const enrichedBatchKey = "orders:enriched"

// SummaryFetcher pulls the primary order feed from the commerce backend.
type SummaryFetcher interface {
	OrderSummaries(ctx context.Context) ([]entity.OrderSummary, error)
}

// Service orchestrates the order pages: summary fetch, enrichment, caching,
// and aggregate metrics. Successive refreshes are independent passes; the
// cache only shortcuts reads between them.
type Service struct {
	backend  SummaryFetcher
	pipeline *enrich.Pipeline
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Backend  SummaryFetcher
	Pipeline *enrich.Pipeline
	Cache    cache.Store
	Config   config.Config
	Logger   *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return New(p.Backend, p.Pipeline, p.Cache, p.Config.Enrichment.CacheTTL, p.Logger)
}

// New builds a Service with explicit collaborators.
func New(backend SummaryFetcher, pipeline *enrich.Pipeline, store cache.Store, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		backend:  backend,
		pipeline: pipeline,
		cache:    store,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// List returns the enriched order batch. With refresh set, the cache is
// bypassed and a fresh enrichment pass runs. A summary-feed failure is fatal
// and surfaces as an upstream error with no partial data; individual detail
// failures are already absorbed inside the pipeline.
func (s *Service) List(ctx context.Context, refresh bool) ([]entity.EnrichedOrder, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List", trace.WithAttributes(attribute.Bool("refresh", refresh)))
	defer span.End()

	if !refresh {
		if cached, err := s.getCachedBatch(ctx); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("orders cache read failed", zap.Error(err))
		}
	}

	summaries, err := s.backend.OrderSummaries(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summary fetch failed")
		return nil, errorbank.Upstream("failed to load orders", errorbank.WithCause(err))
	}

	enriched := s.pipeline.Enrich(ctx, summaries)

	if err := s.storeCachedBatch(ctx, enriched); err != nil {
		s.logger.Warn("orders cache write failed", zap.Error(err))
	}

	return enriched, nil
}

// Overview reduces the current batch into dashboard metrics.
func (s *Service) Overview(ctx context.Context, refresh bool) (stats.Metrics, error) {
	orders, err := s.List(ctx, refresh)
	if err != nil {
		return stats.Metrics{}, err
	}
	return stats.Aggregate(orders), nil
}

// Get returns one enriched order plus its progress trail.
func (s *Service) Get(ctx context.Context, orderID string) (*entity.EnrichedOrder, []status.Step, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	orders, err := s.List(ctx, false)
	if err != nil {
		return nil, nil, err
	}

	for i := range orders {
		if orders[i].OrderID == orderID {
			return &orders[i], status.DeriveProgress(orders[i].OrderSummary), nil
		}
	}

	span.SetStatus(codes.Error, "not found")
	return nil, nil, errorbank.NotFound("order not found")
}

// Invalidate drops the cached enriched batch so the next read re-enriches.
// Called by the worker when the backend reports an order update.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, enrichedBatchKey)
}

func (s *Service) getCachedBatch(ctx context.Context) ([]entity.EnrichedOrder, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	raw, err := s.cache.Get(ctx, enrichedBatchKey)
	if err != nil {
		return nil, err
	}
	var batch []entity.EnrichedOrder
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *Service) storeCachedBatch(ctx context.Context, batch []entity.EnrichedOrder) error {
	if s.cache == nil {
		return nil
	}
	raw, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, enrichedBatchKey, raw, s.cacheTTL)
}

// OrderUpdatedEvent is the payload the backend publishes when an order's
// progress flags change.
type OrderUpdatedEvent struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}
