package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting events through repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	s.log.Debug().
		Str("kind", string(event.Kind)).
		Str("outcome", event.Outcome).
		Msg("auth event recorded")
	return nil
}
