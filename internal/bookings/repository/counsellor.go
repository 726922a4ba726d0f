package repository

import (
	"context"
	bookingserrors "counsel/internal/bookings/errors"
	"counsel/pkg/config"
	mongodb "counsel/pkg/db/mongo"
	"counsel/pkg/model"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CounsellorsCollectionName = "Counsellors"
)

type CounsellorRepository interface {
	FindByID(ctx context.Context, id string) (*model.Counsellor, error)
}

type mongoCounsellorRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCounsellorRepository(cfg *config.Config) CounsellorRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCounsellorRepository{
		cfg:        cfg,
		collection: db.Collection(CounsellorsCollectionName),
	}
}

func (r *mongoCounsellorRepository) FindByID(ctx context.Context, id string) (*model.Counsellor, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", bookingserrors.ErrInvalidID)
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var counsellor model.Counsellor
	err := r.collection.FindOne(ctx, idFilter(id)).Decode(&counsellor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrCounsellorNotFound
		}
		return nil, fmt.Errorf("failed to find counsellor: %w", err)
	}

	return &counsellor, nil
}

// idFilter matches ObjectID keys when id is a hex ObjectID and falls back to
// the raw string for counsellors imported with external identifiers.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}
