package ports

import (
	"context"

	"github.com/profileapp/profile-service/internal/core/domain"
)

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService records a single audit event.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// AuditSink accepts audit events without blocking the request path.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}
