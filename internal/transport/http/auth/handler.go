package auth

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	service "github.com/commerce-ops/opsboard/internal/auth"
	"github.com/commerce-ops/opsboard/internal/presentation/http/response"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/commerce-ops/opsboard/transport/http/auth")

// Handler exposes the admin login flow over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance. Login endpoints stay
// outside the session guard.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/auth")
	g.POST("/otp", h.requestOTP)
	g.POST("/login", h.login)
}

func (h *Handler) requestOTP(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.requestOTP")
	defer span.End()

	if err := h.svc.RequestOTP(ctx); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]string{"status": "otp sent"}).Build()
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.login")
	defer span.End()

	session, err := h.svc.Login(ctx, payload.Email, payload.OTP)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(session).Build()
}
