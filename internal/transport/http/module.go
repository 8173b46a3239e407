package http

import (
	"go.uber.org/fx"

	authtransport "github.com/commerce-ops/opsboard/internal/transport/http/auth"
	catalogtransport "github.com/commerce-ops/opsboard/internal/transport/http/catalog"
	coupontransport "github.com/commerce-ops/opsboard/internal/transport/http/coupon"
	ordertransport "github.com/commerce-ops/opsboard/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	authtransport.Module,
	ordertransport.Module,
	catalogtransport.Module,
	coupontransport.Module,
)
