package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/commerce-ops/opsboard/internal/backend"
	"github.com/commerce-ops/opsboard/internal/config"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/commerce-ops/opsboard/auth")

// OTPVerifier covers the one-time-password endpoints of the commerce API.
type OTPVerifier interface {
	SendOTP(ctx context.Context) error
	VerifyOTP(ctx context.Context, email, otp string) (*backend.OTPResult, error)
}

// Session is an issued admin session.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service issues and verifies admin sessions. Login is a two-step flow:
// the backend mails an OTP to the admin inbox, then a verified email/OTP
// pair is exchanged for a signed session token.
type Service struct {
	backend OTPVerifier
	secret  []byte
	ttl     time.Duration
	allowed map[string]struct{}
	logger  *zap.Logger
	now     func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Backend OTPVerifier
	Config  config.Config
	Logger  *zap.Logger
}

// Module provides the auth service and route guard to Fx.
var Module = fx.Provide(NewService, NewGuard)

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return New(p.Backend, p.Config.Session, p.Logger)
}

// New builds a Service with explicit collaborators.
func New(verifier OTPVerifier, cfg config.Session, logger *zap.Logger) *Service {
	allowed := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowed[email] = struct{}{}
		}
	}
	return &Service{
		backend: verifier,
		secret:  []byte(cfg.JWTSecret),
		ttl:     cfg.TTL,
		allowed: allowed,
		logger:  logger,
		now:     time.Now,
	}
}

// RequestOTP triggers an OTP email for the admin account.
func (s *Service) RequestOTP(ctx context.Context) error {
	ctx, span := serviceTracer.Start(ctx, "AuthService.RequestOTP")
	defer span.End()

	if err := s.backend.SendOTP(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return errorbank.Upstream("failed to send otp", errorbank.WithCause(err))
	}
	return nil
}

// Login checks the email against the admin allowlist, verifies the OTP with
// the backend, and issues a session token. An allowlist of zero emails means
// nobody can log in; that is a deployment error, not an open door.
func (s *Service) Login(ctx context.Context, email, otp string) (*Session, error) {
	ctx, span := serviceTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	otp = strings.TrimSpace(otp)
	if email == "" || otp == "" {
		return nil, errorbank.BadRequest("email and otp are required")
	}

	if _, ok := s.allowed[email]; !ok {
		s.logger.Warn("login attempt from non-admin email", zap.String("email", email))
		span.SetStatus(codes.Error, "not an admin")
		return nil, errorbank.Forbidden("email is not an admin account")
	}

	result, err := s.backend.VerifyOTP(ctx, email, otp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend error")
		return nil, errorbank.Upstream("failed to verify otp", errorbank.WithCause(err))
	}
	if !strings.EqualFold(result.Status, "success") {
		span.SetStatus(codes.Error, "otp rejected")
		return nil, errorbank.Unauthorized("invalid otp")
	}

	expiresAt := s.now().Add(s.ttl)
	claims := jwt.MapClaims{
		"email": email,
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to sign session token", errorbank.WithCause(err))
	}

	s.logger.Info("admin session issued", zap.String("email", email), zap.Time("expires_at", expiresAt))
	return &Session{Token: token, Email: email, ExpiresAt: expiresAt}, nil
}

// Verify parses and validates a session token, returning the admin email.
func (s *Service) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errorbank.Unauthorized("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", errorbank.Unauthorized("invalid session token", errorbank.WithCause(err))
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errorbank.Unauthorized("invalid session claims")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", errorbank.Unauthorized("invalid session claims")
	}
	if _, allowed := s.allowed[email]; !allowed {
		return "", errorbank.Forbidden("email is no longer an admin account")
	}
	return email, nil
}
