package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/profileapp/profile-service/internal/api/metrics"
	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

const (
	// SessionCookieName is the cookie carrying the signed session id.
	SessionCookieName = "sid"
	// ContextKeySession is the echo context key holding the *domain.Session.
	ContextKeySession = "session"
)

var errMalformedCookie = errors.New("malformed session cookie")

// SessionConfig controls how the session id travels between requests.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionCodec signs and verifies the opaque session id carried in the cookie.
type SessionCodec struct {
	secret []byte
}

func NewSessionCodec(secret string) SessionCodec {
	return SessionCodec{secret: []byte(secret)}
}

// Encode returns an HS256 token binding sessionID to the server secret.
func (sc SessionCodec) Encode(sessionID string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(sc.secret)
}

// Decode returns the session id of a token produced by Encode. Tampered,
// foreign or empty tokens are rejected.
func (sc SessionCodec) Decode(raw string) (string, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return sc.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return "", errMalformedCookie
	}
	if claims.SessionID == "" {
		return "", errMalformedCookie
	}
	return claims.SessionID, nil
}

// Session resolves the request's session and stores it on the echo context.
// A missing or invalid cookie is treated as no identifier: a fresh anonymous
// session is persisted and its cookie issued.
func Session(mgr ports.SessionManager, cfg SessionConfig) echo.MiddlewareFunc {
	codec := NewSessionCodec(cfg.Secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			var id string
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				id, _ = codec.Decode(ck.Value)
			}

			s, err := mgr.Resolve(ctx, id)
			if err != nil {
				return err
			}

			if s.IsNew {
				if err := mgr.Persist(ctx, s); err != nil {
					return err
				}
				token, err := codec.Encode(s.ID, s.CreatedAt)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL / time.Second),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				metrics.SessionsResolvedTotal.WithLabelValues("anonymous_new").Inc()
			} else if s.Authenticated {
				metrics.SessionsResolvedTotal.WithLabelValues("authenticated").Inc()
			} else {
				metrics.SessionsResolvedTotal.WithLabelValues("anonymous").Inc()
			}

			c.Set(ContextKeySession, s)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by the Session middleware, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(ContextKeySession).(*domain.Session)
	return s
}

// ClearSessionCookie instructs the client to drop its session cookie.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
