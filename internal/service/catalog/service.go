package catalog

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/commerce-ops/opsboard/service/catalog")

// Backend covers the shop and product operations of the commerce API.
type Backend interface {
	ShopsByCategory(ctx context.Context, category string) ([]entity.Shop, error)
	UpdateShopStatus(ctx context.Context, uid string, isOpen bool) error
	ProductsByCategory(ctx context.Context, category string, page, size int) ([]entity.ProductListing, error)
	Recommendations(ctx context.Context, page, size int) ([]entity.ProductListing, error)
	RemoveRecommendation(ctx context.Context, productID int64) error
	UserLocation(ctx context.Context, locationID int64) (*entity.UserLocation, error)
}

// Service exposes shop and product management to the dashboard pages.
type Service struct {
	backend Backend
	logger  *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Backend Backend
	Logger  *zap.Logger
}

// Module provides the catalog service to Fx.
var Module = fx.Provide(NewService)

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{backend: p.Backend, logger: p.Logger}
}

// Shops lists seller profiles for one category.
func (s *Service) Shops(ctx context.Context, category string) ([]entity.Shop, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errorbank.BadRequest("category is required")
	}

	ctx, span := serviceTracer.Start(ctx, "CatalogService.Shops", trace.WithAttributes(attribute.String("category", category)))
	defer span.End()

	shops, err := s.backend.ShopsByCategory(ctx, category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to load shops", errorbank.WithCause(err))
	}
	return shops, nil
}

// SetShopStatus opens or closes a shop.
func (s *Service) SetShopStatus(ctx context.Context, uid string, isOpen bool) error {
	if strings.TrimSpace(uid) == "" {
		return errorbank.BadRequest("shop uid is required")
	}

	ctx, span := serviceTracer.Start(ctx, "CatalogService.SetShopStatus", trace.WithAttributes(
		attribute.String("shop.uid", uid),
		attribute.Bool("shop.open", isOpen),
	))
	defer span.End()

	if err := s.backend.UpdateShopStatus(ctx, uid, isOpen); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return errorbank.Upstream("failed to update shop status", errorbank.WithCause(err))
	}

	s.logger.Info("shop status updated", zap.String("uid", uid), zap.Bool("open", isOpen))
	return nil
}

// Products lists catalog entries for one category; page/size are forwarded
// to the backend, which owns product paging.
func (s *Service) Products(ctx context.Context, category string, page, size int) ([]entity.ProductListing, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errorbank.BadRequest("category is required")
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	ctx, span := serviceTracer.Start(ctx, "CatalogService.Products", trace.WithAttributes(attribute.String("category", category)))
	defer span.End()

	products, err := s.backend.ProductsByCategory(ctx, category, page, size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to load products", errorbank.WithCause(err))
	}
	return products, nil
}

// Recommendations lists currently recommended products.
func (s *Service) Recommendations(ctx context.Context, page, size int) ([]entity.ProductListing, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 5
	}

	ctx, span := serviceTracer.Start(ctx, "CatalogService.Recommendations")
	defer span.End()

	products, err := s.backend.Recommendations(ctx, page, size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to load recommendations", errorbank.WithCause(err))
	}
	return products, nil
}

// Location resolves a delivery address by id, as shown on the order detail
// and address review pages.
func (s *Service) Location(ctx context.Context, locationID int64) (*entity.UserLocation, error) {
	if locationID <= 0 {
		return nil, errorbank.BadRequest("invalid location id")
	}

	ctx, span := serviceTracer.Start(ctx, "CatalogService.Location", trace.WithAttributes(attribute.Int64("location.id", locationID)))
	defer span.End()

	location, err := s.backend.UserLocation(ctx, locationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to load location", errorbank.WithCause(err))
	}
	return location, nil
}

// RemoveRecommendation drops one product from the recommendation rotation.
func (s *Service) RemoveRecommendation(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return errorbank.BadRequest("invalid product id")
	}

	ctx, span := serviceTracer.Start(ctx, "CatalogService.RemoveRecommendation", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	if err := s.backend.RemoveRecommendation(ctx, productID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return errorbank.Upstream("failed to update recommendation", errorbank.WithCause(err))
	}
	return nil
}
