package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/profileapp/profile-service/internal/core/domain"
	"github.com/profileapp/profile-service/internal/core/ports"
)

const collectionAuthEvents = "auth_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database, timeout time.Duration) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(collectionAuthEvents), timeout: opTimeout(timeout)}
}

// InsertEvent appends an event to the auth_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := bson.M{
		"kind":        string(event.Kind),
		"outcome":     event.Outcome,
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.LoginID != "" {
		doc["login_id"] = event.LoginID
	}
	if event.SessionID != "" {
		doc["session_id"] = event.SessionID
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return storeErr("insert auth event", err)
	}
	return nil
}
