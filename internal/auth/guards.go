package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/one-blood/donation-service/internal/domain"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

// Guards bundles the reusable authorization predicates. Authentication is
// always checked before any role comparison, and roles are resolved fresh
// from the store on every request.
type Guards struct {
	roles RoleResolver
}

// NewGuards constructs the guard set.
func NewGuards(roles RoleResolver) *Guards {
	return &Guards{roles: roles}
}

// RequireAuthenticated rejects callers without a verified token.
func (g *Guards) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ClaimsFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin rejects any caller whose resolved role is not admin.
func (g *Guards) RequireAdmin() fiber.Handler {
	return g.requireRoles(domain.RoleAdmin)
}

// RequireAdminOrVolunteer admits moderators of either role.
func (g *Guards) RequireAdminOrVolunteer() fiber.Handler {
	return g.requireRoles(domain.RoleAdmin, domain.RoleVolunteer)
}

func (g *Guards) requireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}

		role, err := g.roles.Resolve(c.Context(), claims.Email)
		if err != nil {
			return apperrors.MapError(err)
		}
		// A valid token for a since-deleted account resolves to no role.
		if role == nil {
			return apperrors.NewForbidden("insufficient role")
		}
		if _, exists := allowedSet[*role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
