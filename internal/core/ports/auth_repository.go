package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// AccountRepository reads and writes credentials for one account collection
// (admins or users). It is the only repository that loads password hashes.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// FindByIDAndEmail re-loads the account named by a token's claims.
	FindByIDAndEmail(ctx context.Context, id, email string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, email, passwordHash string) error
}

// AdminRepository persists admin profiles.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// LoginThrottle counts failed logins per key inside a rolling window.
type LoginThrottle interface {
	Failures(ctx context.Context, key string) (int64, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// AuditRecorder accepts authentication events for asynchronous persistence.
type AuditRecorder interface {
	Enqueue(event domain.AuthEvent)
}

// AuditRepository persists authentication events.
type AuditRepository interface {
	InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error
}
