package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/profileapp/profile-service/internal/core/domain"
)

func TestRateLimiter_Sequence(t *testing.T) {
	store := newStubAccessStore()
	l := NewRateLimiter(store, 0)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if l.MinInterval() != domain.DefaultMinInterval {
		t.Fatalf("expected default interval, got %v", l.MinInterval())
	}

	if err := l.Admit(ctx, "sid", t0); err != nil {
		t.Fatalf("first request denied: %v", err)
	}
	if err := l.Admit(ctx, "sid", t0.Add(100*time.Millisecond)); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected deny at +100ms, got %v", err)
	}

	// The rejected attempt must not have moved the clock.
	rec, _ := store.Find(ctx, "sid")
	if rec == nil || !rec.LastAccessTime.Equal(t0) {
		t.Fatalf("record mutated by denied request: %+v", rec)
	}
	if err := l.Admit(ctx, "sid", t0.Add(450*time.Millisecond)); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected deny at +450ms, got %v", err)
	}

	if err := l.Admit(ctx, "sid", t0.Add(600*time.Millisecond)); err != nil {
		t.Fatalf("expected allow at +600ms, got %v", err)
	}
	rec, _ = store.Find(ctx, "sid")
	if !rec.LastAccessTime.Equal(t0.Add(600 * time.Millisecond)) {
		t.Fatalf("timestamp not updated: %+v", rec)
	}
	if err := l.Admit(ctx, "sid", t0.Add(700*time.Millisecond)); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected deny at +700ms, got %v", err)
	}
}

func TestRateLimiter_BoundaryIsAdmitted(t *testing.T) {
	l := NewRateLimiter(newStubAccessStore(), 500*time.Millisecond)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	_ = l.Admit(context.Background(), "sid", t0)
	if err := l.Admit(context.Background(), "sid", t0.Add(500*time.Millisecond)); err != nil {
		t.Fatalf("elapsed == interval should be admitted, got %v", err)
	}
}

func TestRateLimiter_SessionsAreIndependent(t *testing.T) {
	l := NewRateLimiter(newStubAccessStore(), 0)
	t0 := time.Now()

	if err := l.Admit(context.Background(), "a", t0); err != nil {
		t.Fatalf("a: %v", err)
	}
	if err := l.Admit(context.Background(), "b", t0); err != nil {
		t.Fatalf("b: %v", err)
	}
}

func TestRateLimiter_EmptySession(t *testing.T) {
	store := newStubAccessStore()
	store.err = errors.New("must not be called")
	l := NewRateLimiter(store, 0)

	if err := l.Admit(context.Background(), "", time.Now()); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestRateLimiter_StoreFailureIsExplicit(t *testing.T) {
	store := newStubAccessStore()
	store.err = domain.ErrStoreUnavailable
	l := NewRateLimiter(store, 0)

	err := l.Admit(context.Background(), "sid", time.Now())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("store failure must not look like a deny")
	}
}

func TestRateLimiter_ConcurrentFreshSession(t *testing.T) {
	const n = 64
	l := NewRateLimiter(newStubAccessStore(), 0)
	t0 := time.Now()

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
		denied  atomic.Int32
		start   = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			switch err := l.Admit(context.Background(), "sid", t0); {
			case err == nil:
				allowed.Add(1)
			case errors.Is(err, domain.ErrTooManyRequests):
				denied.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if allowed.Load() != 1 || denied.Load() != n-1 {
		t.Fatalf("expected 1 allow and %d denies, got %d/%d", n-1, allowed.Load(), denied.Load())
	}
}
