package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/messaging"
	ordersvc "github.com/commerce-ops/opsboard/internal/service/order"
	"github.com/commerce-ops/opsboard/internal/worker"
)

var workerTracer = otel.Tracer("github.com/commerce-ops/opsboard/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderUpdatedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderUpdatedHandler invalidates the enriched order cache whenever the
// backend reports a status change, so the next dashboard read re-enriches.
func NewOrderUpdatedHandler(svc *ordersvc.Service, logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.updated", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.OrderUpdatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order update", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		if err := svc.Invalidate(ctx); err != nil {
			logger.Error("failed to invalidate order cache", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "cache error")
			return err
		}

		logger.Info("order cache invalidated",
			zap.String("order_id", event.OrderID),
			zap.String("status", event.Status),
		)

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
