package service

import "github.com/profileapp/profile-service/internal/core/domain"

// AuthGate admits only authenticated sessions.
type AuthGate struct{}

func NewAuthGate() AuthGate { return AuthGate{} }

// Admit returns domain.ErrUnauthenticated unless s is authenticated.
func (AuthGate) Admit(s *domain.Session) error {
	if CurrentUser(s) == nil {
		return domain.ErrUnauthenticated
	}
	return nil
}
