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

// SeedAdminInput names the bootstrap admin account.
type SeedAdminInput struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates the bootstrap admin when it does not exist yet.
// It reports whether an admin was created. An empty email or password skips seeding.
func EnsureAdmin(ctx context.Context, admins ports.AdminRepository, hasher ports.PasswordHasher, in SeedAdminInput, log zerolog.Logger) (bool, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		log.Debug().Msg("admin seed skipped: no credentials configured")
		return false, nil
	}

	_, err := admins.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Administrator"
	}

	now := time.Now().UTC()
	_, err = admins.Create(ctx, &domain.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrAdminExists) {
		// another instance seeded it first
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log.Info().Str("email", email).Msg("admin account seeded")
	return true, nil
}
