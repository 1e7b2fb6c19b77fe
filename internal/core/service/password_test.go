package service

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/profileapp/profile-service/internal/core/domain"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash1, err := h.Hash("abc123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	hash2, err := h.Hash("abc123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash1 == hash2 {
		t.Fatalf("expected salted hashes to differ")
	}
	if hash1 == "abc123" {
		t.Fatalf("expected password to be hashed")
	}

	for _, hash := range []string{hash1, hash2} {
		ok, err := h.Verify("abc123", hash)
		if err != nil || !ok {
			t.Fatalf("verify(p, hash(p)) = %v, %v", ok, err)
		}
	}

	ok, err := h.Verify("abc124", hash1)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatalf("wrong password verified")
	}
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	ok, err := h.Verify("abc123", "not-a-bcrypt-hash")
	if !errors.Is(err, domain.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
	if ok {
		t.Fatalf("malformed hash must not match")
	}
}

func TestPasswordHasher_CostFallback(t *testing.T) {
	if got := NewPasswordHasher(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewPasswordHasher(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewPasswordHasher(12).cost; got != 12 {
		t.Fatalf("expected cost 12, got %d", got)
	}
}
