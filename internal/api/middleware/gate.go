package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/profileapp/profile-service/internal/api/metrics"
	"github.com/profileapp/profile-service/internal/core/domain"
)

// Gate decides whether a session may reach a protected route.
type Gate interface {
	Admit(s *domain.Session) error
}

// RequireAuth rejects requests whose session is not authenticated.
func RequireAuth(gate Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := gate.Admit(SessionFrom(c)); err != nil {
				metrics.AuthGateDenialsTotal.Inc()
				return err
			}
			return next(c)
		}
	}
}
