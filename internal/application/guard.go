package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

// Identity is the minimal view of an authenticated caller.
type Identity struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

// Guard resolves bearer tokens to live identities.
type Guard struct {
	Tokens TokenService
	Users  repo.UserRepository
}

func NewGuard(tokens TokenService, users repo.UserRepository) *Guard {
	return &Guard{Tokens: tokens, Users: users}
}

// Authenticate verifies token and re-reads its subject, so a removed account
// is locked out immediately.
func (g *Guard) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	uid, err := g.Tokens.Verify(token)
	if err != nil {
		return nil, apperror.Unauthenticated("Invalid or expired token")
	}
	u, err := g.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Unauthenticated("Invalid or expired token")
		}
		return nil, apperror.Infrastructure("failed to load user", err)
	}
	return &Identity{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

// RequireRole fails with Unauthenticated when no identity is attached and with
// Forbidden when the identity's role is below min.
func RequireRole(id *Identity, min entity.Role) error {
	if id == nil {
		return apperror.Unauthenticated("Authentication required")
	}
	if !id.Role.Satisfies(min) {
		return apperror.Forbidden("Insufficient permissions")
	}
	return nil
}
