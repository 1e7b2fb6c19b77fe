package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/profileapp/profile-service/internal/core/domain"
)

const collectionSessions = "sessions"

// SessionStore implements ports.SessionStore using MongoDB. Expired
// documents are removed by a TTL index and filtered out on read until then.
type SessionStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewSessionStore(db *mongo.Database, timeout time.Duration) *SessionStore {
	return &SessionStore{coll: db.Collection(collectionSessions), timeout: opTimeout(timeout)}
}

type mongoSession struct {
	ID            string          `bson:"_id"`
	Authenticated bool            `bson:"is_auth"`
	User          *domain.UserRef `bson:"user,omitempty"`
	CreatedAt     time.Time       `bson:"created_at"`
	ExpiresAt     time.Time       `bson:"expires"`
}

func (r *SessionStore) Find(ctx context.Context, id string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"_id": id, "expires": bson.M{"$gt": time.Now().UTC()}}

	var ms mongoSession
	if err := r.coll.FindOne(ctx, filter).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, storeErr("find session", err)
	}

	return &domain.Session{
		ID:            ms.ID,
		Authenticated: ms.Authenticated,
		User:          ms.User,
		CreatedAt:     ms.CreatedAt.UTC(),
		ExpiresAt:     ms.ExpiresAt.UTC(),
	}, nil
}

// Save replaces the session document, creating it if needed.
func (r *SessionStore) Save(ctx context.Context, s *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoSession{
		ID:            s.ID,
		Authenticated: s.Authenticated,
		User:          s.User,
		CreatedAt:     s.CreatedAt.UTC(),
		ExpiresAt:     s.ExpiresAt.UTC(),
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return storeErr("save session", err)
	}
	return nil
}

func (r *SessionStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}

// EnsureIndexes creates the TTL index on the expiry field.
func (r *SessionStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}
