package catalog

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	"github.com/commerce-ops/opsboard/internal/auth"
)

// Module wires HTTP catalog handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(func(e *echo.Echo, h *Handler, guard *auth.Guard) {
		Register(e, h, guard)
	}),
)
