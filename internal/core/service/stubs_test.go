package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/profileapp/profile-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub stores
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User // keyed by username
	nextID int
	err    error // if set, every call returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = "u" + strconv.Itoa(r.nextID)
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) delete(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, username)
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	saves    int
	err      error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saves++
	stored := *sess
	stored.IsNew = false
	s.sessions[sess.ID] = stored
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.sessions, id)
	return nil
}

// stubAccessStore serialises CheckAndSet with a mutex, mirroring the
// atomicity the Mongo and Redis stores provide.
type stubAccessStore struct {
	mu      sync.Mutex
	records map[string]time.Time
	err     error
}

func newStubAccessStore() *stubAccessStore {
	return &stubAccessStore{records: make(map[string]time.Time)}
}

func (s *stubAccessStore) CheckAndSet(_ context.Context, sessionID string, now time.Time, minInterval time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	last, ok := s.records[sessionID]
	if ok && now.Sub(last) < minInterval {
		return false, nil
	}
	s.records[sessionID] = now
	return true, nil
}

func (s *stubAccessStore) Find(_ context.Context, sessionID string) (*domain.AccessRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.records[sessionID]
	if !ok {
		return nil, nil
	}
	return &domain.AccessRecord{SessionID: sessionID, LastAccessTime: last}, nil
}

type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *stubAuditSink) Enqueue(e domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *stubAuditSink) last() domain.AuthEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}
