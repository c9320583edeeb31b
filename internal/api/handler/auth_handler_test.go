package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type stubAuthService struct {
	loginAdminFn func(ctx context.Context, email, password string) (string, error)
	loginUserFn  func(ctx context.Context, email, password string) (string, error)
	changeFn     func(ctx context.Context, claims domain.Claims, in ports.ChangePasswordInput) error
	meFn         func(ctx context.Context, claims domain.Claims) (*domain.User, error)
}

func (s *stubAuthService) LoginAdmin(ctx context.Context, email, password string) (string, error) {
	return s.loginAdminFn(ctx, email, password)
}

func (s *stubAuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	return s.loginUserFn(ctx, email, password)
}

func (s *stubAuthService) ChangePasswordOfAdmin(ctx context.Context, claims domain.Claims, in ports.ChangePasswordInput) error {
	return s.changeFn(ctx, claims, in)
}

func (s *stubAuthService) ChangePasswordOfUser(ctx context.Context, claims domain.Claims, in ports.ChangePasswordInput) error {
	return s.changeFn(ctx, claims, in)
}

func (s *stubAuthService) GetMe(ctx context.Context, claims domain.Claims) (*domain.User, error) {
	return s.meFn(ctx, claims)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_LoginAdmin_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginAdminFn: func(_ context.Context, email, password string) (string, error) {
			if email != "admin@example.com" || password != "pw" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "signed-token", nil
		},
	}
	c, rec := jsonContext(e, http.MethodPost, "/auth/admin/login", `{"email":"admin@example.com","password":"pw"}`)

	if err := NewAuthHandler(stub).LoginAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["accessToken"] != "signed-token" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_LoginUser_ValidationFails(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginUserFn: func(context.Context, string, string) (string, error) {
			t.Fatal("service must not be called on invalid input")
			return "", nil
		},
	}
	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"not-an-email"}`)

	err := NewAuthHandler(stub).LoginUser(c)
	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_LoginUser_PropagatesDomainError(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginUserFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrAccountBlocked
		},
	}
	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"bob@example.com","password":"pw"}`)

	err := NewAuthHandler(stub).LoginUser(c)
	if !errors.Is(err, domain.ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestAuthHandler_ChangePasswordOfUser_UsesClaims(t *testing.T) {
	e := newTestEcho()
	claims := domain.Claims{ID: "u1", Email: "alice@example.com", Role: domain.RoleUser}
	stub := &stubAuthService{
		changeFn: func(_ context.Context, got domain.Claims, in ports.ChangePasswordInput) error {
			if got != claims {
				t.Fatalf("unexpected claims: %+v", got)
			}
			if in.OldPassword != "old-pass" || in.NewPassword != "new-pass" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	c, rec := jsonContext(e, http.MethodPost, "/auth/change-password", `{"oldPassword":"old-pass","newPassword":"new-pass"}`)
	c.Set(ClaimsKey, claims)

	if err := NewAuthHandler(stub).ChangePasswordOfUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_MissingClaims(t *testing.T) {
	e := newTestEcho()
	c, _ := jsonContext(e, http.MethodPost, "/auth/admin/change-password", `{"oldPassword":"a","newPassword":"bbbbbb"}`)

	err := NewAuthHandler(&stubAuthService{}).ChangePasswordOfAdmin(c)
	if code := httpCode(t, err); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthHandler_GetMe_OmitsPasswordHash(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		meFn: func(_ context.Context, claims domain.Claims) (*domain.User, error) {
			return &domain.User{ID: claims.ID, Email: claims.Email, PasswordHash: "secret-hash"}, nil
		},
	}
	c, rec := jsonContext(e, http.MethodGet, "/auth/me", "")
	c.Set(ClaimsKey, domain.Claims{ID: "u1", Email: "alice@example.com", Role: domain.RoleUser})

	if err := NewAuthHandler(stub).GetMe(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}
