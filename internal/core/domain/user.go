package domain

import "time"

// User is the persisted account record. PasswordHash never leaves the
// user store adapter in a response body.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Ref returns the lightweight reference held by an authenticated session.
func (u *User) Ref() UserRef {
	return UserRef{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// UserRef points at a User without carrying its credentials.
type UserRef struct {
	UserID   string `json:"user_id"  bson:"user_id"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email"    bson:"email"`
}
