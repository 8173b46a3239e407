package app

import (
	"go.uber.org/fx"

	"github.com/commerce-ops/opsboard/internal/auth"
	"github.com/commerce-ops/opsboard/internal/backend"
	"github.com/commerce-ops/opsboard/internal/cache"
	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/enrich"
	"github.com/commerce-ops/opsboard/internal/logger"
	"github.com/commerce-ops/opsboard/internal/messaging"
	"github.com/commerce-ops/opsboard/internal/observability"
	httpserver "github.com/commerce-ops/opsboard/internal/server/http"
	servicecatalog "github.com/commerce-ops/opsboard/internal/service/catalog"
	servicecoupon "github.com/commerce-ops/opsboard/internal/service/coupon"
	serviceorder "github.com/commerce-ops/opsboard/internal/service/order"
	transporthttp "github.com/commerce-ops/opsboard/internal/transport/http"
	"github.com/commerce-ops/opsboard/internal/worker"
	workerorder "github.com/commerce-ops/opsboard/internal/worker/order"
)

// adapters binds the backend client to the consumer-side interfaces each
// service declares for itself.
var adapters = fx.Provide(
	func(c *backend.Client) enrich.DetailFetcher { return c },
	func(c *backend.Client) serviceorder.SummaryFetcher { return c },
	func(c *backend.Client) servicecatalog.Backend { return c },
	func(c *backend.Client) servicecoupon.Backend { return c },
	func(c *backend.Client) auth.OTPVerifier { return c },
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	logger.Module,
	observability.Module,
	cache.Module,
	messaging.Module,
	backend.Module,
	adapters,
	enrich.Module,
	auth.Module,
	serviceorder.Module,
	servicecatalog.Module,
	servicecoupon.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background event processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
