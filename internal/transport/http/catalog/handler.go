package catalog

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/commerce-ops/opsboard/internal/auth"
	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/presentation/http/response"
	service "github.com/commerce-ops/opsboard/internal/service/catalog"
	"github.com/commerce-ops/opsboard/internal/table"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/commerce-ops/opsboard/transport/http/catalog")

// Handler exposes shop and product endpoints over HTTP.
type Handler struct {
	svc      *service.Service
	pageSize int
}

// NewHandler constructs a catalog Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return &Handler{svc: svc, pageSize: cfg.Enrichment.DefaultPageSize}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler, guard *auth.Guard) {
	g := e.Group("/api", guard.Require())
	g.GET("/shops/:category", h.shops)
	g.PATCH("/shops/:uid/status", h.setShopStatus)
	g.GET("/products/:category", h.products)
	g.GET("/recommendations", h.recommendations)
	g.DELETE("/recommendations/:id", h.removeRecommendation)
	g.GET("/locations/:id", h.location)
}

// shopColumns mirrors the shop management table.
func shopColumns() []table.Column[entity.Shop] {
	return []table.Column[entity.Shop]{
		{Key: "shopName", Label: "Shop", Value: func(s entity.Shop) any { return s.ShopName }},
		{Key: "owner", Label: "Owner", Value: func(s entity.Shop) any { return s.Name }},
		{Key: "phone", Label: "Phone", Value: func(s entity.Shop) any { return s.PhoneNumber }},
		{
			Key:   "rating",
			Label: "Rating",
			Value: func(s entity.Shop) any { return s.Rating },
			Render: func(value any, s entity.Shop) string {
				return fmt.Sprintf("%.1f", s.Rating)
			},
		},
		{Key: "city", Label: "City", Value: func(s entity.Shop) any { return s.City }},
		{
			Key:   "status",
			Label: "Status",
			Value: func(s entity.Shop) any { return s.IsOpen },
			Render: func(value any, s entity.Shop) string {
				if s.IsOpen {
					return "Open"
				}
				return "Closed"
			},
		},
	}
}

// productColumns mirrors the product listings table.
func productColumns() []table.Column[entity.ProductListing] {
	return []table.Column[entity.ProductListing]{
		{Key: "itemName", Label: "Item", Value: func(p entity.ProductListing) any { return p.ItemName }},
		{Key: "shopName", Label: "Shop", Value: func(p entity.ProductListing) any { return p.ShopName }},
		{Key: "category", Label: "Category", Value: func(p entity.ProductListing) any { return p.SubCategory }},
		{
			Key:   "price",
			Label: "Price",
			Value: func(p entity.ProductListing) any { return p.FinalPrice },
			Render: func(value any, p entity.ProductListing) string {
				return "₹" + p.FinalPrice.StringFixed(2)
			},
		},
		{Key: "discount", Label: "Discount", Value: func(p entity.ProductListing) any { return p.Discount }},
	}
}

func (h *Handler) shops(c echo.Context) error {
	b := response.New(c)

	category := c.Param("category")
	search := c.QueryParam("search")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = h.pageSize
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "catalog.shops", trace.WithAttributes(attribute.String("category", category)))
	defer span.End()

	shops, err := h.svc.Shops(ctx, category)
	if err != nil {
		return b.WithError(err).Build()
	}

	engine := table.NewEngine(shopColumns(),
		table.WithSearchKey(func(s entity.Shop) any { return s.ShopName }),
		table.WithPageSize[entity.Shop](size),
	)
	engine.SetRecords(shops)
	engine.Search(search)
	engine.SetPage(page)

	view := engine.View()
	return b.
		WithData(view).
		WithPaging(view.PageIndex, view.PageCount, view.TotalFiltered).
		Build()
}

func (h *Handler) setShopStatus(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Open *bool `json:"open"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Open == nil {
		return b.WithError(errorbank.BadRequest("open is required")).Build()
	}

	uid := c.Param("uid")
	ctx, span := httpTracer.Start(c.Request().Context(), "catalog.setShopStatus", trace.WithAttributes(attribute.String("shop.uid", uid)))
	defer span.End()

	if err := h.svc.SetShopStatus(ctx, uid, *payload.Open); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]bool{"open": *payload.Open}).Build()
}

// products fetches one remotely-paged slice and filters it client-side, the
// way the listings page searches within the loaded page.
func (h *Handler) products(c echo.Context) error {
	b := response.New(c)

	category := c.Param("category")
	search := c.QueryParam("search")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = h.pageSize
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "catalog.products", trace.WithAttributes(attribute.String("category", category)))
	defer span.End()

	products, err := h.svc.Products(ctx, category, page, size)
	if err != nil {
		return b.WithError(err).Build()
	}

	engine := table.NewEngine(productColumns(),
		table.WithSearchKey(func(p entity.ProductListing) any { return p.ItemName }),
		table.WithPageSize[entity.ProductListing](size),
	)
	engine.SetRecords(products)
	engine.Search(search)

	view := engine.View()
	return b.
		WithData(view).
		WithPaging(page, view.PageCount, view.TotalFiltered).
		Build()
}

func (h *Handler) recommendations(c echo.Context) error {
	b := response.New(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	ctx, span := httpTracer.Start(c.Request().Context(), "catalog.recommendations")
	defer span.End()

	products, err := h.svc.Recommendations(ctx, page, size)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(products).Build()
}

func (h *Handler) removeRecommendation(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "catalog.removeRecommendation", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := h.svc.RemoveRecommendation(ctx, id); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(map[string]int64{"removed": id}).Build()
}

func (h *Handler) location(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "catalog.location", trace.WithAttributes(attribute.Int64("location.id", id)))
	defer span.End()

	location, err := h.svc.Location(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(location).Build()
}
