package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AccountStatus is the lifecycle flag of a user account.
type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusBlocked AccountStatus = "blocked"
)

// Valid reports whether s is a known account status.
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusBlocked
}

// Account is the credential view of an admin or a user. It is the only
// type that carries the password hash out of the store.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	Status       AccountStatus // users only
	IsDeleted    bool          // users only
}

// Claims is the identity embedded in a signed access token. It identifies
// the caller but is not proof of the account's current state.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Admin is a back-office operator.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
