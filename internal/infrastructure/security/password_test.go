package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Compare(hash, "s3cret") {
		t.Fatalf("expected matching password to compare true")
	}
	if h.Compare(hash, "wrong") {
		t.Fatalf("expected wrong password to compare false")
	}
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	h := NewBcryptHasher(5)

	hash, err := h.Hash("pwd")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != 5 {
		t.Fatalf("expected cost 5, got %d", cost)
	}
}

func TestNewBcryptHasher_OutOfRangeFallsBackToDefault(t *testing.T) {
	for _, c := range []int{0, 1, 99} {
		if got := NewBcryptHasher(c).Cost(); got != bcrypt.DefaultCost {
			t.Errorf("cost %d: expected default %d, got %d", c, bcrypt.DefaultCost, got)
		}
	}
}
