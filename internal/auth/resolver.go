package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/repository"
)

// RoleResolver looks up the role attached to an email claim.
type RoleResolver interface {
	// Resolve returns nil (and no error) when no such user exists; a token
	// can outlive its account, and absence must satisfy no role guard.
	Resolve(ctx context.Context, email string) (*domain.Role, error)
}

type storeRoleResolver struct {
	users repository.UserRepository
}

// NewRoleResolver resolves roles against the user store. Every call hits the
// store so a role change takes effect on the very next request; tokens carry
// identity only, never authority.
func NewRoleResolver(users repository.UserRepository) RoleResolver {
	return &storeRoleResolver{users: users}
}

func (r *storeRoleResolver) Resolve(ctx context.Context, email string) (*domain.Role, error) {
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	role := user.Role
	return &role, nil
}
