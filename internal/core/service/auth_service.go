package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/profileapp/profile-service/internal/api/metrics"
	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

// AuthService implements registration, login, logout and profile lookup.
type AuthService struct {
	users     ports.UserRepository
	sessions  ports.SessionManager
	validator *CredentialValidator
	hasher    *PasswordHasher
	audit     ports.AuditSink
	log       zerolog.Logger
}

// NewAuthService wires the auth use cases. audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionManager,
	validator *CredentialValidator,
	hasher *PasswordHasher,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		validator: validator,
		hasher:    hasher,
		audit:     audit,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email, _ := in.Email.(string)
	user, err := s.register(ctx, in)
	s.emit(domain.AuthEventRegister, email, "", err)
	return user, err
}

func (s *AuthService) register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	// Validate guarantees all four are strings.
	name, username := in.Name.(string), in.Username.(string)
	email, password := in.Email.(string), in.Password.(string)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login authenticates sessionID when loginID (email or username) and
// password match a stored user. On failure the session is left as it was.
func (s *AuthService) Login(ctx context.Context, sessionID, loginID, password string) (*domain.Session, error) {
	sess, err := s.login(ctx, sessionID, loginID, password)
	s.emit(domain.AuthEventLogin, loginID, sessionID, err)
	return sess, err
}

func (s *AuthService) login(ctx context.Context, sessionID, loginID, password string) (*domain.Session, error) {
	if loginID == "" || password == "" {
		return nil, domain.ErrInvalidLogin
	}

	var (
		user *domain.User
		err  error
	)
	if s.validator.IsEmail(loginID) {
		user, err = s.users.FindByEmail(ctx, loginID)
	} else {
		user, err = s.users.FindByUsername(ctx, loginID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("login_id", loginID).Msg("login failed: user not found")
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Warn().Str("login_id", loginID).Str("user_id", user.ID).Msg("login failed: invalid password")
		return nil, domain.ErrWrongPassword
	}

	sess, err := s.sessions.Authenticate(ctx, sessionID, user.Ref())
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.Terminate(ctx, sessionID)
	s.emit(domain.AuthEventLogout, "", sessionID, err)
	return err
}

// Profile loads the user behind an authenticated session. A reference to a
// user that no longer exists is reported as domain.ErrUnauthenticated.
func (s *AuthService) Profile(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	ref := CurrentUser(sess)
	if ref == nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByUsername(ctx, ref.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("session_id", sess.ID).Str("username", ref.Username).Msg("session references missing user")
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) emit(kind domain.AuthEventKind, loginID, sessionID string, err error) {
	label := outcome(err)
	switch kind {
	case domain.AuthEventRegister:
		metrics.RegistrationsTotal.WithLabelValues(label).Inc()
	case domain.AuthEventLogin:
		metrics.LoginAttemptsTotal.WithLabelValues(label).Inc()
	}

	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuthEvent{
		Kind:      kind,
		LoginID:   loginID,
		SessionID: sessionID,
		Outcome:   label,
		At:        time.Now().UTC(),
	})
}

// outcome turns an error into the short label stored in the audit trail.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "invalid_input"
	case errors.Is(err, domain.ErrUserExists):
		return "user_exists"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrWrongPassword):
		return "invalid_password"
	case errors.Is(err, domain.ErrInvalidLogin):
		return "invalid_login"
	default:
		return "error"
	}
}
