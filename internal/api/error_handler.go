package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/pkg/observability"
)

const internalErrorMessage = "Internal server error, Please try again"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and client message.
//   - Logs and reports infrastructure failures without leaking details.
//   - Renders a consistent JSON envelope: {"status": <code>, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Status: code, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Registration rule violations carry their own message.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		log.Debug().Str("field", ve.Field).Msg(ve.Message)
		return http.StatusBadRequest, ve.Message
	}

	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, "User not found, Please register first"
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusBadRequest, "Invalid password"
	case errors.Is(err, domain.ErrInvalidLogin):
		return http.StatusBadRequest, "Invalid data"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Session expired, Please login again"
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, "Too many request. Please try after some time"
	case errors.Is(err, domain.ErrInvalidSession):
		return http.StatusBadRequest, "Invalid session, Please Login again"
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Store, hashing and unexpected errors: log the real cause, return a
	// generic message.
	reqID := c.Response().Header().Get(echo.HeaderXRequestID)
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", reqID).
		Bool("store_unavailable", errors.Is(err, domain.ErrStoreUnavailable)).
		Msg("unhandled error")
	observability.CaptureError(err, map[string]string{
		"method":     c.Request().Method,
		"path":       c.Path(),
		"request_id": reqID,
	})

	return http.StatusInternalServerError, internalErrorMessage
}
