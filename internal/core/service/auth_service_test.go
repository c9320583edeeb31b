package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/infrastructure/security"
	"github.com/storefront/commerce-api/internal/infrastructure/token"
)

type authFixture struct {
	svc      *AuthService
	admins   *stubAccountRepo
	users    *stubAccountRepo
	profiles *stubUserRepo
	throttle *stubThrottle
	audit    *stubAudit
	tokens   *token.JWTIssuer
	hasher   *security.BcryptHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash := func(pw string) string {
		h, err := hasher.Hash(pw)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		return h
	}

	f := &authFixture{
		admins: newStubAccountRepo(domain.ErrAdminNotFound, &domain.Account{
			ID: "admin-1", Email: "admin@example.com", PasswordHash: hash("admin-pass"), Role: domain.RoleAdmin,
		}),
		users: newStubAccountRepo(domain.ErrUserNotFound,
			&domain.Account{ID: "user-1", Email: "alice@example.com", PasswordHash: hash("alice-pass"), Role: domain.RoleUser, Status: domain.StatusActive},
			&domain.Account{ID: "user-2", Email: "bob@example.com", PasswordHash: hash("bob-pass"), Role: domain.RoleUser, Status: domain.StatusBlocked},
			&domain.Account{ID: "user-3", Email: "carol@example.com", PasswordHash: hash("carol-pass"), Role: domain.RoleUser, Status: domain.StatusActive, IsDeleted: true},
		),
		profiles: newStubUserRepo(&domain.User{
			ID: "user-1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser, Status: domain.StatusActive,
			Cart: []domain.CartItem{
				{ProductID: "p1", Quantity: 2, TotalPrice: 20},
				{ProductID: "gone", Quantity: 1, TotalPrice: 5},
			},
		}),
		throttle: newStubThrottle(),
		audit:    &stubAudit{},
		tokens:   token.NewJWTIssuer("secret", time.Hour),
		hasher:   hasher,
	}

	f.svc = NewAuthService(AuthDeps{
		Admins:           f.admins,
		Users:            f.users,
		Profiles:         f.profiles,
		Products:         newStubProductRepo(&domain.Product{ID: "p1", Name: "Mug", Price: 10}),
		Hasher:           hasher,
		Tokens:           f.tokens,
		Throttle:         f.throttle,
		LoginMaxAttempts: 3,
		Audit:            f.audit,
	}, zerolog.Nop())
	return f
}

func TestAuthService_LoginAdmin_Success(t *testing.T) {
	f := newAuthFixture(t)

	tok, err := f.svc.LoginAdmin(context.Background(), "admin@example.com", "admin-pass")
	if err != nil {
		t.Fatalf("LoginAdmin returned error: %v", err)
	}

	claims, err := f.tokens.Parse(tok)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	want := domain.Claims{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
	if claims != want {
		t.Fatalf("unexpected claims: want %+v, got %+v", want, claims)
	}
}

func TestAuthService_LoginAdmin_NormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.LoginAdmin(context.Background(), "  Admin@Example.COM ", "admin-pass"); err != nil {
		t.Fatalf("expected login with mixed-case email to succeed, got %v", err)
	}
}

func TestAuthService_LoginAdmin_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.LoginAdmin(context.Background(), "nobody@example.com", "x")
	if !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound kind, got %v", err)
	}
}

func TestAuthService_LoginAdmin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.LoginAdmin(context.Background(), "admin@example.com", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected Forbidden kind, got %v", err)
	}
}

func TestAuthService_LoginUser_Success(t *testing.T) {
	f := newAuthFixture(t)

	tok, err := f.svc.LoginUser(context.Background(), "alice@example.com", "alice-pass")
	if err != nil {
		t.Fatalf("LoginUser returned error: %v", err)
	}
	claims, err := f.tokens.Parse(tok)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	want := domain.Claims{ID: "user-1", Email: "alice@example.com", Role: domain.RoleUser}
	if claims != want {
		t.Fatalf("unexpected claims: want %+v, got %+v", want, claims)
	}
}

func TestAuthService_LoginUser_BlockedOrDeletedIsForbidden(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name  string
		email string
		pass  string
		want  error
	}{
		{"blocked", "bob@example.com", "bob-pass", domain.ErrAccountBlocked},
		{"deleted", "carol@example.com", "carol-pass", domain.ErrAccountDeleted},
		{"blocked with wrong password", "bob@example.com", "nope", domain.ErrAccountBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.LoginUser(context.Background(), tt.email, tt.pass)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected Forbidden kind, got %v", err)
			}
		})
	}
}

func TestAuthService_LoginUser_AdminCredentialsRejected(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.LoginUser(context.Background(), "admin@example.com", "admin-pass")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_ThrottlesAfterMaxFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.LoginUser(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	_, err := f.svc.LoginUser(ctx, "alice@example.com", "alice-pass")
	if !errors.Is(err, domain.ErrLoginThrottled) {
		t.Fatalf("expected ErrLoginThrottled, got %v", err)
	}

	// Admin logins are counted separately.
	if _, err := f.svc.LoginAdmin(ctx, "admin@example.com", "admin-pass"); err != nil {
		t.Fatalf("admin login should not be throttled, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _ = f.svc.LoginUser(ctx, "alice@example.com", "wrong")
	}
	if _, err := f.svc.LoginUser(ctx, "alice@example.com", "alice-pass"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if n := f.throttle.counts["user:alice@example.com"]; n != 0 {
		t.Fatalf("expected failures reset, got %d", n)
	}
}

func TestAuthService_Login_ThrottleErrorAllowsAttempt(t *testing.T) {
	f := newAuthFixture(t)
	f.throttle.err = errStoreDown

	if _, err := f.svc.LoginUser(context.Background(), "alice@example.com", "alice-pass"); err != nil {
		t.Fatalf("expected login to proceed when throttle store fails, got %v", err)
	}
}

func TestAuthService_Login_RecordsAuditEvents(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _ = f.svc.LoginUser(ctx, "alice@example.com", "alice-pass")
	_, _ = f.svc.LoginUser(ctx, "bob@example.com", "bob-pass")

	if len(f.audit.events) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(f.audit.events))
	}
	ok, blocked := f.audit.events[0], f.audit.events[1]
	if !ok.Success || ok.Action != domain.ActionLogin || ok.Role != domain.RoleUser {
		t.Errorf("unexpected success event: %+v", ok)
	}
	if blocked.Success || blocked.Reason != domain.ErrAccountBlocked.Error() {
		t.Errorf("unexpected failure event: %+v", blocked)
	}
}

func TestAuthService_ChangePasswordOfUser_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	claims := domain.Claims{ID: "user-1", Email: "alice@example.com", Role: domain.RoleUser}

	err := f.svc.ChangePasswordOfUser(ctx, claims, ports.ChangePasswordInput{OldPassword: "alice-pass", NewPassword: "new-pass"})
	if err != nil {
		t.Fatalf("ChangePasswordOfUser returned error: %v", err)
	}

	if _, err := f.svc.LoginUser(ctx, "alice@example.com", "new-pass"); err != nil {
		t.Fatalf("expected new password to log in, got %v", err)
	}
	if _, err := f.svc.LoginUser(ctx, "alice@example.com", "alice-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected old password to fail, got %v", err)
	}
}

func TestAuthService_ChangePasswordOfUser_WrongOldPasswordKeepsHash(t *testing.T) {
	f := newAuthFixture(t)
	before := f.users.accounts["alice@example.com"].PasswordHash
	claims := domain.Claims{ID: "user-1", Email: "alice@example.com", Role: domain.RoleUser}

	err := f.svc.ChangePasswordOfUser(context.Background(), claims, ports.ChangePasswordInput{OldPassword: "nope", NewPassword: "new-pass"})
	if !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if f.users.accounts["alice@example.com"].PasswordHash != before {
		t.Fatal("expected stored hash to be unchanged")
	}
	if f.users.updates != 0 {
		t.Fatalf("expected no password writes, got %d", f.users.updates)
	}
}

func TestAuthService_ChangePasswordOfUser_Blocked(t *testing.T) {
	f := newAuthFixture(t)
	claims := domain.Claims{ID: "user-2", Email: "bob@example.com", Role: domain.RoleUser}

	err := f.svc.ChangePasswordOfUser(context.Background(), claims, ports.ChangePasswordInput{OldPassword: "bob-pass", NewPassword: "x"})
	if !errors.Is(err, domain.ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestAuthService_ChangePasswordOfUser_StaleClaims(t *testing.T) {
	f := newAuthFixture(t)
	claims := domain.Claims{ID: "user-1", Email: "someone-else@example.com", Role: domain.RoleUser}

	err := f.svc.ChangePasswordOfUser(context.Background(), claims, ports.ChangePasswordInput{OldPassword: "alice-pass", NewPassword: "x"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ChangePasswordOfAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	claims := domain.Claims{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}

	if err := f.svc.ChangePasswordOfAdmin(ctx, claims, ports.ChangePasswordInput{OldPassword: "bad", NewPassword: "x"}); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := f.svc.ChangePasswordOfAdmin(ctx, claims, ports.ChangePasswordInput{OldPassword: "admin-pass", NewPassword: "rotated"}); err != nil {
		t.Fatalf("ChangePasswordOfAdmin returned error: %v", err)
	}
	if _, err := f.svc.LoginAdmin(ctx, "admin@example.com", "rotated"); err != nil {
		t.Fatalf("expected rotated password to log in, got %v", err)
	}
}

func TestAuthService_GetMe_PopulatesCart(t *testing.T) {
	f := newAuthFixture(t)

	me, err := f.svc.GetMe(context.Background(), domain.Claims{ID: "user-1", Email: "alice@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("GetMe returned error: %v", err)
	}
	if me.PasswordHash != "" {
		t.Fatal("expected password hash to be omitted")
	}
	if len(me.Cart) != 2 {
		t.Fatalf("expected 2 cart lines, got %d", len(me.Cart))
	}
	if me.Cart[0].Product == nil || me.Cart[0].Product.Name != "Mug" {
		t.Errorf("expected first line populated with product, got %+v", me.Cart[0].Product)
	}
	if me.Cart[1].Product != nil {
		t.Errorf("expected missing product to stay nil, got %+v", me.Cart[1].Product)
	}
}

func TestAuthService_GetMe_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.GetMe(context.Background(), domain.Claims{ID: "ghost", Email: "ghost@example.com", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
