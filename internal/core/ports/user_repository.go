package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// UserRepository persists users. Reads never include the password hash.
//
// Cart methods are single atomic updates on the user document and return the
// user as it is after the update.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDAndEmail(ctx context.Context, id, email string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)

	// ReplaceCartItem overwrites the product's line only while its quantity is
	// still expectedQty. Returns domain.ErrCartItemChanged when the line moved
	// on or disappeared.
	ReplaceCartItem(ctx context.Context, userID string, expectedQty int, item domain.CartItem) (*domain.User, error)
	// PushCartItem appends a line unless one already exists for the product,
	// in which case it returns domain.ErrCartItemExists.
	PushCartItem(ctx context.Context, userID string, item domain.CartItem) (*domain.User, error)
	// PullCartItem removes the product's line; absence is not an error.
	PullCartItem(ctx context.Context, userID, productID string) (*domain.User, error)
	// SetCartItem overwrites quantity and total of an existing line.
	// Returns domain.ErrCartItemNotFound when the product has no line.
	SetCartItem(ctx context.Context, userID, productID string, qty int, total float64) (*domain.User, error)
}
