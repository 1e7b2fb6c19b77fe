package domain

import "time"

// AuthEventKind names the operation an AuthEvent records.
type AuthEventKind string

const (
	AuthEventRegister AuthEventKind = "register"
	AuthEventLogin    AuthEventKind = "login"
	AuthEventLogout   AuthEventKind = "logout"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	Kind      AuthEventKind
	LoginID   string
	SessionID string
	Outcome   string // "ok" or the error kind, e.g. "invalid_password"
	At        time.Time
}
