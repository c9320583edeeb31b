package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CreateUserInput carries a new user's registration data.
type CreateUserInput struct {
	Name         string
	Email        string
	Password     string
	MobileNumber string
}

// UserService covers user accounts and their carts.
type UserService interface {
	CreateUserIntoDB(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetAllUsersFromDB(ctx context.Context) ([]*domain.User, error)
	GetSingleUserFromDB(ctx context.Context, id string) (*domain.User, error)
	UpdateUserIntoDB(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)

	// Cart operations act on the caller named by claims, re-loaded first.
	AddProductToCart(ctx context.Context, claims domain.Claims, productID string, quantity int) (*domain.User, error)
	RemoveProductFromCart(ctx context.Context, claims domain.Claims, productID string) (*domain.User, error)
	ManipulateQuantityInCart(ctx context.Context, claims domain.Claims, productID string, quantity int) (*domain.User, error)
}
