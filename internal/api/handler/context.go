package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/profileapp/profile-service/internal/api/middleware"
	"github.com/profileapp/profile-service/internal/core/domain"
)

// ctxSession returns the session resolved by the Session middleware. Its
// absence means the route was mounted without session transport, which the
// client sees the same way as a lost session.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.SessionFrom(c)
	if s == nil || s.ID == "" {
		return nil, domain.ErrInvalidSession
	}
	return s, nil
}
