package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// ChangePasswordInput carries the old and new plaintext passwords.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// AuthService covers login, password change and profile lookup.
type AuthService interface {
	LoginAdmin(ctx context.Context, email, password string) (string, error)
	LoginUser(ctx context.Context, email, password string) (string, error)
	ChangePasswordOfAdmin(ctx context.Context, claims domain.Claims, in ChangePasswordInput) error
	ChangePasswordOfUser(ctx context.Context, claims domain.Claims, in ChangePasswordInput) error
	GetMe(ctx context.Context, claims domain.Claims) (*domain.User, error)
}
