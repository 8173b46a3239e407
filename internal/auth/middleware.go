package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/commerce-ops/opsboard/internal/presentation/http/response"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

// ContextKeyEmail is the echo context key holding the verified admin email.
const ContextKeyEmail = "admin.email"

// Guard protects admin routes with session token checks.
type Guard struct {
	svc *Service
}

// NewGuard constructs a Guard around the auth service.
func NewGuard(svc *Service) *Guard {
	return &Guard{svc: svc}
}

// Require returns middleware that rejects requests without a valid
// Bearer session token.
func (g *Guard) Require() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return response.New(c).WithError(errorbank.Unauthorized("missing session token")).Build()
			}
			email, err := g.svc.Verify(token)
			if err != nil {
				return response.New(c).WithError(err).Build()
			}
			c.Set(ContextKeyEmail, email)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
