package handler

import (
	"strings"
	"testing"
)

func TestValidator_MessagesUseJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createOrderRequest{District: "Gulshan"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"products is required", "city is required", "payment_method is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message %q does not mention %q", err.Error(), want)
		}
	}
}

func TestValidator_FieldRules(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		req  any
		want string
	}{
		{"malformed product id", &addToCartRequest{Product: "nope", Quantity: 1}, "product must be a valid id"},
		{"empty product list", &createOrderRequest{Products: []orderLineRequest{}, District: "d", City: "c", PaymentMethod: "cod", ShippingMethod: "std"}, "products must contain at least 1 item(s)"},
		{"blank name in patch", &updateUserRequest{Name: new(string)}, "name must be at least 1 characters"},
		{"bad email", &loginRequest{Email: "not-an-email", Password: "x"}, "email must be a valid email"},
		{"unknown status", &updateOrderStatusRequest{Status: "lost"}, "status must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}

	if err := v.Validate(&addToCartRequest{Product: "64b7f0c2e4b0a1a2b3c4d5e6", Quantity: 2}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestValidator_AcceptsAnyNonEmptyNewPassword(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&changePasswordRequest{OldPassword: "old", NewPassword: "a"}); err != nil {
		t.Fatalf("one-character password rejected: %v", err)
	}
	if err := v.Validate(&changePasswordRequest{OldPassword: "old"}); err == nil || !strings.Contains(err.Error(), "newPassword is required") {
		t.Fatalf("expected missing newPassword to be rejected, got %v", err)
	}
}
