package ports

import "github.com/storefront/commerce-api/internal/core/domain"

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(claims domain.Claims) (string, error)
	Parse(token string) (domain.Claims, error)
}
