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

const collectionAccess = "access"

// AccessStore implements ports.AccessStore using MongoDB.
//
// CheckAndSet is a single conditional upsert: it matches the session's
// record only when it is old enough and otherwise tries to insert a new
// one. The unique index on session_id rejects that insert when a recent
// record exists, so concurrent callers observe one winner.
type AccessStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewAccessStore(db *mongo.Database, timeout time.Duration) *AccessStore {
	return &AccessStore{coll: db.Collection(collectionAccess), timeout: opTimeout(timeout)}
}

type mongoAccess struct {
	SessionID string    `bson:"session_id"`
	Time      time.Time `bson:"time"`
}

func (r *AccessStore) CheckAndSet(ctx context.Context, sessionID string, now time.Time, minInterval time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// BSON dates carry milliseconds.
	now = now.UTC().Truncate(time.Millisecond)

	filter := bson.M{
		"session_id": sessionID,
		"time":       bson.M{"$lte": now.Add(-minInterval)},
	}
	update := bson.M{"$set": bson.M{"time": now}}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	switch {
	case err == nil:
		return true, nil
	case mongo.IsDuplicateKeyError(err):
		return false, nil
	default:
		return false, storeErr("check access record", err)
	}
}

func (r *AccessStore) Find(ctx context.Context, sessionID string) (*domain.AccessRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var ma mongoAccess
	if err := r.coll.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, storeErr("find access record", err)
	}
	return &domain.AccessRecord{SessionID: ma.SessionID, LastAccessTime: ma.Time.UTC()}, nil
}

// EnsureIndexes creates the unique session_id index.
func (r *AccessStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
