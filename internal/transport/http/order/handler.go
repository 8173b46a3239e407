package order

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/commerce-ops/opsboard/internal/auth"
	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/presentation/http/response"
	service "github.com/commerce-ops/opsboard/internal/service/order"
	"github.com/commerce-ops/opsboard/internal/status"
	"github.com/commerce-ops/opsboard/internal/table"
)

var httpTracer = otel.Tracer("github.com/commerce-ops/opsboard/transport/http/order")

// Handler exposes the order dashboard endpoints over HTTP.
type Handler struct {
	svc      *service.Service
	pageSize int
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return &Handler{svc: svc, pageSize: cfg.Enrichment.DefaultPageSize}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, guard *auth.Guard) {
	g := e.Group("/api/orders", guard.Require())
	g.GET("", h.list)
	g.GET("/metrics", h.metrics)
	g.GET("/:id", h.get)
}

// columns mirrors the order table shown on the dashboard.
func (h *Handler) columns() []table.Column[entity.EnrichedOrder] {
	return []table.Column[entity.EnrichedOrder]{
		{Key: "orderId", Label: "Order ID", Value: func(o entity.EnrichedOrder) any { return o.OrderID }},
		{Key: "customer", Label: "Customer", Value: func(o entity.EnrichedOrder) any { return o.CustomerUID }},
		{Key: "payment", Label: "Payment", Value: func(o entity.EnrichedOrder) any { return o.PaymentStatus }},
		{
			Key:   "amount",
			Label: "Amount",
			Value: func(o entity.EnrichedOrder) any { return o.ActualAmount },
			Render: func(value any, o entity.EnrichedOrder) string {
				return "₹" + o.ActualAmount.StringFixed(2)
			},
		},
		{Key: "date", Label: "Date", Value: func(o entity.EnrichedOrder) any { return o.CreatedAt }},
		{Key: "status", Label: "Status", Value: func(o entity.EnrichedOrder) any { return o.StatusText }},
	}
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	search := c.QueryParam("search")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	refresh, _ := strconv.ParseBool(c.QueryParam("refresh"))
	if size <= 0 {
		size = h.pageSize
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list", trace.WithAttributes(
		attribute.Bool("refresh", refresh),
		attribute.Int("page", page),
	))
	defer span.End()

	orders, err := h.svc.List(ctx, refresh)
	if err != nil {
		return b.WithError(err).Build()
	}

	engine := table.NewEngine(h.columns(),
		table.WithSearchKey(func(o entity.EnrichedOrder) any { return o.OrderID }),
		table.WithPageSize[entity.EnrichedOrder](size),
	)
	engine.SetRecords(orders)
	engine.Search(search)
	engine.SetPage(page)

	view := engine.View()
	return b.
		WithData(view).
		WithPaging(view.PageIndex, view.PageCount, view.TotalFiltered).
		Build()
}

func (h *Handler) metrics(c echo.Context) error {
	b := response.New(c)

	refresh, _ := strconv.ParseBool(c.QueryParam("refresh"))

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.metrics")
	defer span.End()

	m, err := h.svc.Overview(ctx, refresh)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(m).Build()
}

func (h *Handler) get(c echo.Context) error {
	b := response.New(c)

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	o, steps, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(struct {
		Order    *entity.EnrichedOrder `json:"order"`
		Progress []status.Step         `json:"progress"`
	}{Order: o, Progress: steps}).Build()
}
