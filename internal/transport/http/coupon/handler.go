package coupon

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/commerce-ops/opsboard/internal/auth"
	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/presentation/http/response"
	service "github.com/commerce-ops/opsboard/internal/service/coupon"
	"github.com/commerce-ops/opsboard/internal/table"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/commerce-ops/opsboard/transport/http/coupon")

// Handler exposes coupon endpoints over HTTP.
type Handler struct {
	svc      *service.Service
	pageSize int
}

// NewHandler constructs a coupon Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return &Handler{svc: svc, pageSize: cfg.Enrichment.DefaultPageSize}
}

// columns mirrors the coupon management table.
func columns() []table.Column[entity.Coupon] {
	return []table.Column[entity.Coupon]{
		{Key: "couponCode", Label: "Code", Value: func(c entity.Coupon) any { return c.CouponCode }},
		{
			Key:   "discount",
			Label: "Discount",
			Value: func(c entity.Coupon) any { return c.DiscountAmount },
			Render: func(value any, c entity.Coupon) string {
				return "₹" + c.DiscountAmount.StringFixed(2)
			},
		},
		{
			Key:   "status",
			Label: "Status",
			Value: func(c entity.Coupon) any { return c.Active },
			Render: func(value any, c entity.Coupon) string {
				if c.Active {
					return "Active"
				}
				return "Inactive"
			},
		},
		{Key: "created", Label: "Created", Value: func(c entity.Coupon) any { return c.CreatedAt }},
	}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, guard *auth.Guard) {
	g := e.Group("/api/coupons", guard.Require())
	g.GET("", h.list)
	g.POST("", h.create)
	g.PATCH("/:id/deactivate", h.deactivate)
	g.GET("/history/:userId", h.history)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	search := c.QueryParam("search")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = h.pageSize
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "coupons.list")
	defer span.End()

	coupons, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	engine := table.NewEngine(columns(),
		table.WithSearchKey(func(c entity.Coupon) any { return c.CouponCode }),
		table.WithPageSize[entity.Coupon](size),
	)
	engine.SetRecords(coupons)
	engine.Search(search)
	engine.SetPage(page)

	view := engine.View()
	return b.
		WithData(view).
		WithPaging(view.PageIndex, view.PageCount, view.TotalFiltered).
		Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload entity.Coupon
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "coupons.create", trace.WithAttributes(attribute.String("coupon.code", payload.CouponCode)))
	defer span.End()

	created, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(created).Build()
}

func (h *Handler) deactivate(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "coupons.deactivate", trace.WithAttributes(attribute.Int64("coupon.id", id)))
	defer span.End()

	coupon, err := h.svc.Deactivate(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(coupon).Build()
}

func (h *Handler) history(c echo.Context) error {
	b := response.New(c)

	userID := c.Param("userId")
	ctx, span := httpTracer.Start(c.Request().Context(), "coupons.history", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	history, err := h.svc.History(ctx, userID)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(history).Build()
}
