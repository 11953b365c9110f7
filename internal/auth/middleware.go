package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/one-blood/donation-service/pkg/util"
)

const claimsKey = "auth_claims"

// Middleware verifies bearer tokens and attaches claims to the request
// context. It performs authentication only; role checks live in the guards.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware around a token manager.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle verifies the Authorization header when present. A missing header is
// not an error here: public routes share the chain, and the guards decide
// whether anonymous access is acceptable.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the verified identity, if any.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
