package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// AuthDeps wires the collaborators of AuthService. Throttle and Audit are optional.
type AuthDeps struct {
	Admins   ports.AccountRepository
	Users    ports.AccountRepository
	Profiles ports.UserRepository
	Products ports.ProductRepository
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenIssuer

	Throttle         ports.LoginThrottle
	LoginMaxAttempts int
	Audit            ports.AuditRecorder
}

// AuthService implements login, password change and the "me" lookup.
//
// Token claims only name the caller. Every operation past login re-loads the
// account so blocking or deletion after issuance takes effect immediately.
type AuthService struct {
	deps AuthDeps
	log  zerolog.Logger
}

func NewAuthService(deps AuthDeps, log zerolog.Logger) *AuthService {
	return &AuthService{deps: deps, log: log}
}

// LoginAdmin verifies admin credentials and returns a signed access token.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (string, error) {
	return s.login(ctx, domain.RoleAdmin, s.deps.Admins, email, password, nil)
}

// LoginUser verifies user credentials and returns a signed access token.
// Blocked and deleted accounts are rejected before the password is checked.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	return s.login(ctx, domain.RoleUser, s.deps.Users, email, password, func(acc *domain.Account) error {
		if acc.Status == domain.StatusBlocked {
			return domain.ErrAccountBlocked
		}
		if acc.IsDeleted {
			return domain.ErrAccountDeleted
		}
		return nil
	})
}

func (s *AuthService) login(
	ctx context.Context,
	role string,
	repo ports.AccountRepository,
	email, password string,
	gate func(*domain.Account) error,
) (token string, err error) {
	email = normalizeEmail(email)
	defer func() { s.record(email, role, domain.ActionLogin, err) }()

	key := role + ":" + email
	if s.throttled(ctx, key) {
		return "", domain.ErrLoginThrottled
	}

	acc, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordFailure(ctx, key)
		}
		return "", err
	}

	if gate != nil {
		if err := gate(acc); err != nil {
			return "", err
		}
	}

	if !s.deps.Hasher.Compare(acc.PasswordHash, password) {
		s.recordFailure(ctx, key)
		return "", domain.ErrInvalidCredentials
	}

	token, err = s.deps.Tokens.Issue(domain.Claims{ID: acc.ID, Email: acc.Email, Role: role})
	if err != nil {
		return "", err
	}

	s.resetFailures(ctx, key)
	s.log.Info().Str("email", email).Str("role", role).Msg("login succeeded")
	return token, nil
}

// ChangePasswordOfAdmin replaces the calling admin's password.
func (s *AuthService) ChangePasswordOfAdmin(ctx context.Context, claims domain.Claims, in ports.ChangePasswordInput) error {
	return s.changePassword(ctx, domain.RoleAdmin, s.deps.Admins, claims, in, nil)
}

// ChangePasswordOfUser replaces the calling user's password. Blocked users are rejected.
func (s *AuthService) ChangePasswordOfUser(ctx context.Context, claims domain.Claims, in ports.ChangePasswordInput) error {
	return s.changePassword(ctx, domain.RoleUser, s.deps.Users, claims, in, func(acc *domain.Account) error {
		if acc.Status == domain.StatusBlocked {
			return domain.ErrAccountBlocked
		}
		return nil
	})
}

func (s *AuthService) changePassword(
	ctx context.Context,
	role string,
	repo ports.AccountRepository,
	claims domain.Claims,
	in ports.ChangePasswordInput,
	gate func(*domain.Account) error,
) (err error) {
	defer func() { s.record(claims.Email, role, domain.ActionChangePassword, err) }()

	acc, err := repo.FindByIDAndEmail(ctx, claims.ID, claims.Email)
	if err != nil {
		return err
	}

	if gate != nil {
		if err := gate(acc); err != nil {
			return err
		}
	}

	if !s.deps.Hasher.Compare(acc.PasswordHash, in.OldPassword) {
		return domain.ErrPasswordMismatch
	}

	hash, err := s.deps.Hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}

	if err := repo.UpdatePassword(ctx, acc.ID, acc.Email, hash); err != nil {
		return err
	}

	s.log.Info().Str("id", acc.ID).Str("role", role).Msg("password changed")
	return nil
}

// GetMe returns the calling user's current profile with cart products resolved.
func (s *AuthService) GetMe(ctx context.Context, claims domain.Claims) (*domain.User, error) {
	user, err := s.deps.Profiles.FindByIDAndEmail(ctx, claims.ID, claims.Email)
	if err != nil {
		return nil, err
	}
	if err := populateCart(ctx, s.deps.Products, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) throttled(ctx context.Context, key string) bool {
	if s.deps.Throttle == nil || s.deps.LoginMaxAttempts <= 0 {
		return false
	}
	n, err := s.deps.Throttle.Failures(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return n >= int64(s.deps.LoginMaxAttempts)
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.deps.Throttle == nil || s.deps.LoginMaxAttempts <= 0 {
		return
	}
	if err := s.deps.Throttle.RecordFailure(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to record login failure")
	}
}

func (s *AuthService) resetFailures(ctx context.Context, key string) {
	if s.deps.Throttle == nil || s.deps.LoginMaxAttempts <= 0 {
		return
	}
	if err := s.deps.Throttle.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to reset login failures")
	}
}

func (s *AuthService) record(email, role string, action domain.AuthAction, err error) {
	if s.deps.Audit == nil {
		return
	}
	ev := domain.AuthEvent{
		Email:      email,
		Role:       role,
		Action:     action,
		Success:    err == nil,
		OccurredAt: time.Now().UTC(),
	}
	if err != nil {
		ev.Reason = err.Error()
	}
	s.deps.Audit.Enqueue(ev)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
