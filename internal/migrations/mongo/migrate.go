package mongo

import (
	"context"
	"counsel/internal/bookings/lock"
	"counsel/internal/bookings/repository"
	"counsel/internal/migrations/mongo/validators"
	"counsel/pkg/logger"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	CounsellorsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	AppointmentsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "counsellor_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_at", Value: 1},
			{Key: "end_at", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "start_at", Value: 1},
			{Key: "reminder_sent_at", Value: 1},
		}},
		{Keys: bson.D{{Key: "student_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	// Expired locks are reaped by the TTL monitor; correctness does not
	// depend on it since MongoStore checks expires_at itself.
	SlotLocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		repository.CounsellorsCollectionName: {
			Indexes:   CounsellorsIndexes,
			Validator: validators.CounsellorValidator,
		},
		repository.AppointmentsCollectionName: {
			Indexes:   AppointmentsIndexes,
			Validator: validators.AppointmentValidator,
		},
		lock.CollectionName: {
			Indexes:   SlotLocksIndexes,
			Validator: validators.SlotLockValidator,
		},
	}
}

// RunMigration creates or updates every collection with its validator and
// indexes. It is safe to run repeatedly.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	names, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", names)
	return nil
}
