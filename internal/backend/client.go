package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/telemetry"
)

var clientTracer = otel.Tracer("github.com/commerce-ops/opsboard/backend")

// Error is a transport-level failure talking to the commerce backend. A
// missing record is indistinguishable from any other failure at this layer
// and is reported the same way.
type Error struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend request %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend request %s: %v", e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client is a thin typed wrapper over the commerce backend REST API. It does
// not retry; callers own failure policy.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	headerName  string
	headerValue string
	logger      *zap.Logger
}

// Module provides the backend client to the Fx graph.
var Module = fx.Provide(NewClient)

// NewClient builds a Client from configuration.
func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Backend.RequestTimeout},
		baseURL:     cfg.Backend.BaseURL,
		headerName:  cfg.Backend.ExtraHeaderName,
		headerValue: cfg.Backend.ExtraHeaderValue,
		logger:      logger,
	}
}

// OrderSummaries fetches the primary order feed.
func (c *Client) OrderSummaries(ctx context.Context) ([]entity.OrderSummary, error) {
	var out []entity.OrderSummary
	if err := c.do(ctx, http.MethodGet, "/api/owner/orders/get", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderDetail fetches the sub-order record for a single order.
func (c *Client) OrderDetail(ctx context.Context, orderID string) (*entity.OrderDetail, error) {
	out := new(entity.OrderDetail)
	endpoint := "/api/order_status/get/subOrders/" + url.PathEscape(orderID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ShopsByCategory lists seller profiles for a category.
func (c *Client) ShopsByCategory(ctx context.Context, category string) ([]entity.Shop, error) {
	var out []entity.Shop
	endpoint := "/Api/v3/get/shops/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateShopStatus toggles a shop open or closed.
func (c *Client) UpdateShopStatus(ctx context.Context, uid string, isOpen bool) error {
	endpoint := fmt.Sprintf("/Api/v1/update/shopStatus/%s/%t", url.PathEscape(uid), isOpen)
	return c.do(ctx, http.MethodPut, endpoint, nil, nil)
}

// ProductsByCategory lists catalog entries; paging happens on the backend.
func (c *Client) ProductsByCategory(ctx context.Context, category string, page, size int) ([]entity.ProductListing, error) {
	var out []entity.ProductListing
	endpoint := fmt.Sprintf("/Api/v3/get/posts/data/%s?page=%d&size=%d", url.PathEscape(category), page, size)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendations lists currently recommended products.
func (c *Client) Recommendations(ctx context.Context, page, size int) ([]entity.ProductListing, error) {
	var out []entity.ProductListing
	endpoint := fmt.Sprintf("/Api/v3/get/recommendation?page=%d&size=%d", page, size)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveRecommendation drops a product from the recommendation list.
func (c *Client) RemoveRecommendation(ctx context.Context, productID int64) error {
	endpoint := "/Api/v3/delete/recommend/" + strconv.FormatInt(productID, 10)
	return c.do(ctx, http.MethodPut, endpoint, nil, nil)
}

// Coupons lists every coupon.
func (c *Client) Coupons(ctx context.Context) ([]entity.Coupon, error) {
	var out []entity.Coupon
	if err := c.do(ctx, http.MethodGet, "/api/coupons", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCoupon registers a new coupon code.
func (c *Client) CreateCoupon(ctx context.Context, req entity.Coupon) (*entity.Coupon, error) {
	body, err := json.Marshal(struct {
		CouponCode     string `json:"couponCode"`
		DiscountAmount string `json:"discountAmount"`
	}{
		CouponCode:     req.CouponCode,
		DiscountAmount: req.DiscountAmount.String(),
	})
	if err != nil {
		return nil, err
	}
	out := new(entity.Coupon)
	if err := c.do(ctx, http.MethodPost, "/api/coupons", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeactivateCoupon disables a coupon.
func (c *Client) DeactivateCoupon(ctx context.Context, couponID int64) (*entity.Coupon, error) {
	out := new(entity.Coupon)
	endpoint := fmt.Sprintf("/api/coupons/%d/deactivate", couponID)
	if err := c.do(ctx, http.MethodPatch, endpoint, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CouponHistory returns the raw usage history for a user; the payload shape
// is owned by the backend and passed through untouched.
func (c *Client) CouponHistory(ctx context.Context, userID string) (json.RawMessage, error) {
	var out json.RawMessage
	endpoint := "/api/coupons/history/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserLocation resolves a delivery address by id.
func (c *Client) UserLocation(ctx context.Context, locationID int64) (*entity.UserLocation, error) {
	out := new(entity.UserLocation)
	endpoint := "/Api/location/idd/" + strconv.FormatInt(locationID, 10)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendOTP asks the backend to mail a one-time admin login code.
func (c *Client) SendOTP(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/Api/v1/otp_send", nil, nil)
}

// OTPResult is the backend's answer to an OTP verification attempt.
type OTPResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// VerifyOTP submits the admin email/OTP pair as a form post.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*OTPResult, error) {
	form := url.Values{"email": {email}, "otp": {otp}}
	out := new(OTPResult)
	err := c.doForm(ctx, "/Api/v1/otp_verify", form, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return &Error{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, endpoint, out)
}

func (c *Client) doForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, endpoint, out)
}

func (c *Client) send(req *http.Request, endpoint string, out any) error {
	ctx, span := clientTracer.Start(req.Context(), "backend.request", trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("backend.endpoint", endpoint),
	))
	defer span.End()
	req = req.WithContext(ctx)

	if c.headerName != "" {
		req.Header.Set(c.headerName, c.headerValue)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		telemetry.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return &Error{Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		span.SetStatus(codes.Error, "unexpected status")
		span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
		telemetry.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("backend returned unexpected status",
			zap.String("endpoint", endpoint),
			zap.Int("status", res.StatusCode),
		)
		return &Error{Endpoint: endpoint, StatusCode: res.StatusCode}
	}

	telemetry.BackendRequestsTotal.WithLabelValues(endpoint, "ok").Inc()

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return &Error{Endpoint: endpoint, Err: err}
	}
	return nil
}
