package coupon

import (
	"context"
	"encoding/json"
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

var serviceTracer = otel.Tracer("github.com/commerce-ops/opsboard/service/coupon")

// Backend covers the coupon operations of the commerce API.
type Backend interface {
	Coupons(ctx context.Context) ([]entity.Coupon, error)
	CreateCoupon(ctx context.Context, req entity.Coupon) (*entity.Coupon, error)
	DeactivateCoupon(ctx context.Context, couponID int64) (*entity.Coupon, error)
	CouponHistory(ctx context.Context, userID string) (json.RawMessage, error)
}

// Service exposes coupon management to the dashboard pages.
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

// Module provides the coupon service to Fx.
var Module = fx.Provide(NewService)

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{backend: p.Backend, logger: p.Logger}
}

// List returns every coupon.
func (s *Service) List(ctx context.Context) ([]entity.Coupon, error) {
	ctx, span := serviceTracer.Start(ctx, "CouponService.List")
	defer span.End()

	coupons, err := s.backend.Coupons(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to load coupons", errorbank.WithCause(err))
	}
	return coupons, nil
}

// Create registers a new coupon code.
func (s *Service) Create(ctx context.Context, req entity.Coupon) (*entity.Coupon, error) {
	req.CouponCode = strings.ToUpper(strings.TrimSpace(req.CouponCode))
	if req.CouponCode == "" {
		return nil, errorbank.BadRequest("coupon code is required")
	}
	if !req.DiscountAmount.IsPositive() {
		return nil, errorbank.BadRequest("discount amount must be positive")
	}

	ctx, span := serviceTracer.Start(ctx, "CouponService.Create", trace.WithAttributes(attribute.String("coupon.code", req.CouponCode)))
	defer span.End()

	created, err := s.backend.CreateCoupon(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to create coupon", errorbank.WithCause(err))
	}

	s.logger.Info("coupon created", zap.String("code", created.CouponCode))
	return created, nil
}

// Deactivate disables a coupon.
func (s *Service) Deactivate(ctx context.Context, couponID int64) (*entity.Coupon, error) {
	if couponID <= 0 {
		return nil, errorbank.BadRequest("invalid coupon id")
	}

	ctx, span := serviceTracer.Start(ctx, "CouponService.Deactivate", trace.WithAttributes(attribute.Int64("coupon.id", couponID)))
	defer span.End()

	coupon, err := s.backend.DeactivateCoupon(ctx, couponID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to deactivate coupon", errorbank.WithCause(err))
	}
	return coupon, nil
}

// History passes a user's coupon usage history through untouched.
func (s *Service) History(ctx context.Context, userID string) (json.RawMessage, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errorbank.BadRequest("user id is required")
	}

	ctx, span := serviceTracer.Start(ctx, "CouponService.History", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	history, err := s.backend.CouponHistory(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to load coupon history", errorbank.WithCause(err))
	}
	return history, nil
}
