package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

type authFixture struct {
	svc      *AuthService
	users    *stubUserRepo
	store    *stubSessionStore
	sessions *SessionManager
	audit    *stubAuditSink
}

func newAuthFixture() *authFixture {
	users := newStubUserRepo()
	store := newStubSessionStore()
	sessions := NewSessionManager(store, time.Hour, zerolog.Nop())
	audit := &stubAuditSink{}
	svc := NewAuthService(users, sessions, NewCredentialValidator(), NewPasswordHasher(bcrypt.MinCost), audit, zerolog.Nop())
	return &authFixture{svc: svc, users: users, store: store, sessions: sessions, audit: audit}
}

func (f *authFixture) anonymousSession(t *testing.T) *domain.Session {
	t.Helper()
	s, err := f.sessions.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := f.sessions.Persist(context.Background(), s); err != nil {
		t.Fatalf("persist: %v", err)
	}
	return s
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" || user.Name != "Ann" || user.Username != "ann01" || user.Email != "ann@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "abc123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("abc123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if ev := f.audit.last(); ev.Kind != domain.AuthEventRegister || ev.Outcome != "ok" || ev.LoginID != "ann@x.com" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture()

	in := validInput()
	in.Username = "ab"
	_, err := f.svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
	if _, err := f.users.FindByUsername(context.Background(), "ab"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("invalid input must not be persisted")
	}
	if ev := f.audit.last(); ev.Outcome != "invalid_input" {
		t.Fatalf("unexpected audit outcome: %s", ev.Outcome)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	sameEmail := validInput()
	sameEmail.Username = "ann02"
	if _, err := f.svc.Register(ctx, sameEmail); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for same email, got %v", err)
	}

	sameUsername := validInput()
	sameUsername.Email = "ann2@x.com"
	if _, err := f.svc.Register(ctx, sameUsername); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for same username, got %v", err)
	}
}

func TestAuthService_Register_StoreUnavailable(t *testing.T) {
	f := newAuthFixture()
	f.users.err = domain.ErrStoreUnavailable

	if _, err := f.svc.Register(context.Background(), validInput()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestAuthService_Login_ByEmailAndUsername(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, loginID := range []string{"ann@x.com", "ann01"} {
		anon := f.anonymousSession(t)

		sess, err := f.svc.Login(ctx, anon.ID, loginID, "abc123")
		if err != nil {
			t.Fatalf("login with %q: %v", loginID, err)
		}
		if sess.ID != anon.ID || !sess.Authenticated || sess.User.Username != "ann01" || sess.User.Email != "ann@x.com" {
			t.Fatalf("unexpected session: %+v", sess)
		}

		resolved, _ := f.sessions.Resolve(ctx, anon.ID)
		if !resolved.Authenticated {
			t.Fatalf("login not persisted for %q", loginID)
		}
	}
}

func TestAuthService_Login_WrongPasswordLeavesSession(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, _ = f.svc.Register(ctx, validInput())
	anon := f.anonymousSession(t)

	if _, err := f.svc.Login(ctx, anon.ID, "ann01", "wrong1"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	resolved, _ := f.sessions.Resolve(ctx, anon.ID)
	if resolved.Authenticated || resolved.User != nil {
		t.Fatalf("session authenticated after failed login: %+v", resolved)
	}
	if ev := f.audit.last(); ev.Kind != domain.AuthEventLogin || ev.Outcome != "invalid_password" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Login(context.Background(), "sid", "ghost@x.com", "abc123"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_InvalidData(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Login(context.Background(), "sid", "", "abc123"); !errors.Is(err, domain.ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "sid", "ann01", ""); !errors.Is(err, domain.ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got %v", err)
	}
}

func TestAuthService_Login_CorruptHash(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.users.Create(context.Background(), &domain.User{Username: "ann01", Email: "ann@x.com", PasswordHash: "garbage"})

	if _, err := f.svc.Login(context.Background(), "sid", "ann01", "abc123"); !errors.Is(err, domain.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, _ = f.svc.Register(ctx, validInput())
	anon := f.anonymousSession(t)

	if _, err := f.svc.Profile(ctx, anon); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("anonymous profile: expected ErrUnauthenticated, got %v", err)
	}

	sess, err := f.svc.Login(ctx, anon.ID, "ann01", "abc123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	user, err := f.svc.Profile(ctx, sess)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.Username != "ann01" || user.Name != "Ann" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	// A session pointing at a deleted user is treated as anonymous.
	f.users.delete("ann01")
	if _, err := f.svc.Profile(ctx, sess); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("dangling ref: expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, _ = f.svc.Register(ctx, validInput())
	anon := f.anonymousSession(t)
	_, _ = f.svc.Login(ctx, anon.ID, "ann01", "abc123")

	if err := f.svc.Logout(ctx, anon.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	resolved, _ := f.sessions.Resolve(ctx, anon.ID)
	if resolved.Authenticated || resolved.ID == anon.ID {
		t.Fatalf("session survived logout: %+v", resolved)
	}
}

type stubAuditRepo struct {
	events []*domain.AuthEvent
	err    error
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func TestAuditService_Record(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	ev := domain.AuthEvent{Kind: domain.AuthEventLogin, LoginID: "ann01", Outcome: "ok", At: time.Now()}
	if err := svc.Record(context.Background(), ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].LoginID != "ann01" {
		t.Fatalf("unexpected events: %+v", repo.events)
	}

	repo.err = domain.ErrStoreUnavailable
	if err := svc.Record(context.Background(), ev); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

var _ ports.AuthService = (*AuthService)(nil)
var _ ports.SessionManager = (*SessionManager)(nil)
var _ ports.RateLimiter = (*RateLimiter)(nil)
