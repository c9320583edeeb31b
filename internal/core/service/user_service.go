package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// UserService implements user accounts and cart manipulation.
type UserService struct {
	users    ports.UserRepository
	products ports.ProductRepository
	hasher   ports.PasswordHasher
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, products ports.ProductRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, products: products, hasher: hasher, log: log}
}

// CreateUserIntoDB registers an active user with an empty cart.
func (s *UserService) CreateUserIntoDB(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || in.Password == "" {
		return nil, domain.NewError(domain.ErrValidation, "name, email and password are required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		MobileNumber: in.MobileNumber,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		Cart:         []domain.CartItem{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user created")
	return created, nil
}

func (s *UserService) GetAllUsersFromDB(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetSingleUserFromDB(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateUserIntoDB applies an administrative patch to a user.
func (s *UserService) UpdateUserIntoDB(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.NewError(domain.ErrValidation, "status must be one of: active blocked")
	}
	if patch.Empty() {
		return s.users.FindByID(ctx, id)
	}
	return s.users.Update(ctx, id, patch)
}

// maxCartAttempts bounds the read-modify-write retries of AddProductToCart.
const maxCartAttempts = 5

// AddProductToCart adds quantity to the product's line, creating the line if
// needed. The line total is recomputed from the current price and the new
// quantity, and written with a conditional update that retries when another
// request changed the line in between.
func (s *UserService) AddProductToCart(ctx context.Context, claims domain.Claims, productID string, quantity int) (*domain.User, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	user, err := activeUser(ctx, s.users, claims)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		var updated *domain.User
		line, ok := user.CartLine(productID)
		if ok {
			next := line.Quantity + quantity
			updated, err = s.users.ReplaceCartItem(ctx, user.ID, line.Quantity, domain.CartItem{
				ProductID:  productID,
				Quantity:   next,
				TotalPrice: product.LineTotal(next),
			})
		} else {
			updated, err = s.users.PushCartItem(ctx, user.ID, domain.CartItem{
				ProductID:  productID,
				Quantity:   quantity,
				TotalPrice: product.LineTotal(quantity),
			})
		}

		if !errors.Is(err, domain.ErrCartItemChanged) && !errors.Is(err, domain.ErrCartItemExists) {
			return updated, err
		}
		if attempt == maxCartAttempts {
			s.log.Warn().Str("user_id", user.ID).Str("product_id", productID).Msg("cart update kept conflicting")
			return nil, domain.ErrCartItemChanged
		}

		if user, err = activeUser(ctx, s.users, claims); err != nil {
			return nil, err
		}
	}
}

// RemoveProductFromCart drops the product's line. Removing an absent product is a no-op.
func (s *UserService) RemoveProductFromCart(ctx context.Context, claims domain.Claims, productID string) (*domain.User, error) {
	user, err := activeUser(ctx, s.users, claims)
	if err != nil {
		return nil, err
	}
	return s.users.PullCartItem(ctx, user.ID, productID)
}

// ManipulateQuantityInCart sets the line's quantity. Zero removes the line,
// negative quantities are rejected.
func (s *UserService) ManipulateQuantityInCart(ctx context.Context, claims domain.Claims, productID string, quantity int) (*domain.User, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	user, err := activeUser(ctx, s.users, claims)
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		return s.users.PullCartItem(ctx, user.ID, productID)
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.users.SetCartItem(ctx, user.ID, productID, quantity, product.LineTotal(quantity))
}

// activeUser re-loads the caller named by claims. Claims only identify the
// caller; blocking or deletion after the token was issued still applies.
func activeUser(ctx context.Context, users ports.UserRepository, claims domain.Claims) (*domain.User, error) {
	user, err := users.FindByIDAndEmail(ctx, claims.ID, claims.Email)
	if err != nil {
		return nil, err
	}
	if user.Status == domain.StatusBlocked {
		return nil, domain.ErrAccountBlocked
	}
	if user.IsDeleted {
		return nil, domain.ErrAccountDeleted
	}
	return user, nil
}

// populateCart attaches product details to each cart line. Lines whose
// product no longer exists are kept with a nil Product.
func populateCart(ctx context.Context, products ports.ProductRepository, user *domain.User) error {
	if len(user.Cart) == 0 {
		return nil
	}

	ids := make([]string, 0, len(user.Cart))
	for _, item := range user.Cart {
		ids = append(ids, item.ProductID)
	}

	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("populate cart: %w", err)
	}

	for i := range user.Cart {
		user.Cart[i].Product = found[user.Cart[i].ProductID]
	}
	return nil
}
