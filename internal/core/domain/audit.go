package domain

import "time"

// AuthAction names an auditable authentication step.
type AuthAction string

const (
	ActionLogin          AuthAction = "login"
	ActionChangePassword AuthAction = "change_password"
)

// AuthEvent records the outcome of an authentication step.
type AuthEvent struct {
	Email      string
	Role       string
	Action     AuthAction
	Success    bool
	Reason     string // failure message, empty on success
	OccurredAt time.Time
}
