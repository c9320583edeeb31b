package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
)

func TestHTTPErrorHandler_MapsDomainKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrProductNotFound), http.StatusNotFound, "product not found"},
		{"blocked", domain.ErrAccountBlocked, http.StatusForbidden, domain.ErrAccountBlocked.Msg},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusForbidden, "invalid credentials"},
		{"conflict", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"validation", domain.ErrInvalidQuantity, http.StatusBadRequest, domain.ErrInvalidQuantity.Msg},
		{"throttled", domain.ErrLoginThrottled, http.StatusTooManyRequests, domain.ErrLoginThrottled.Msg},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "missing token"), http.StatusUnauthorized, "missing token"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tt.msg {
				t.Fatalf("expected message %q, got %q", tt.msg, body["error"])
			}
		})
	}
}
