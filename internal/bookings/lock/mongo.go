package lock

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Slot_locks"

// MongoStore implements Store on a collection keyed by lock name. A TTL index
// on expires_at reaps abandoned documents; expiry is also checked on every
// operation since the TTL monitor only runs about once a minute.
type MongoStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection(CollectionName),
		now:        time.Now,
	}
}

// SetIfAbsent upserts over an expired document. A live document makes the
// upsert collide on _id, which is reported as not acquired.
func (s *MongoStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	now := s.now().UTC()
	filter := bson.M{"_id": key, "expires_at": bson.M{"$lte": now}}
	update := bson.M{"$set": bson.M{
		"token":      value,
		"expires_at": now.Add(ttl),
		"created_at": now,
	}}

	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *MongoStore) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	filter := bson.M{
		"_id":        key,
		"token":      expected,
		"expires_at": bson.M{"$gt": s.now().UTC()},
	}
	res, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
