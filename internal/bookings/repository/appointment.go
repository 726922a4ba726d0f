package repository

import (
	"context"
	bookingserrors "counsel/internal/bookings/errors"
	"counsel/pkg/config"
	mongodb "counsel/pkg/db/mongo"
	"counsel/pkg/model"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AppointmentsCollectionName = "Appointments"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	List(ctx context.Context, counsellorID string, filter model.AppointmentFilter) ([]*model.Appointment, error)
	ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*model.Appointment, error)
	Update(ctx context.Context, id string, patch model.AppointmentPatch) error
}

type mongoAppointmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAppointmentRepository(cfg *config.Config) AppointmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentRepository{
		cfg:        cfg,
		collection: db.Collection(AppointmentsCollectionName),
	}
}

func (r *mongoAppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, appointment)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		appointment.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var appointment model.Appointment
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}

	return &appointment, nil
}

func (r *mongoAppointmentRepository) List(ctx context.Context, counsellorID string, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, buildListFilter(counsellorID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}

	return appointments, nil
}

// ListUpcoming returns scheduled appointments starting in [from, to) that
// have not had a reminder sent yet.
func (r *mongoAppointmentRepository) ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*model.Appointment, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":           config.StatusScheduled,
		"start_at":         bson.M{"$gte": from, "$lt": to},
		"reminder_sent_at": bson.M{"$exists": false},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find upcoming appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode upcoming appointments: %w", err)
	}

	return appointments, nil
}

func (r *mongoAppointmentRepository) Update(ctx context.Context, id string, patch model.AppointmentPatch) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": buildPatch(patch)})
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrAppointmentNotFound
	}

	return nil
}

// buildListFilter matches appointments overlapping [RangeStart, RangeEnd).
// Either bound may be zero to leave that side open.
func buildListFilter(counsellorID string, f model.AppointmentFilter) bson.M {
	filter := bson.M{"counsellor_id": counsellorID}

	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.RangeEnd.IsZero() {
		filter["start_at"] = bson.M{"$lt": f.RangeEnd}
	}
	if !f.RangeStart.IsZero() {
		filter["end_at"] = bson.M{"$gt": f.RangeStart}
	}

	return filter
}

func buildPatch(p model.AppointmentPatch) bson.M {
	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}

	if p.ICSLink != nil {
		set["ics_link"] = *p.ICSLink
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.ReminderSentAt != nil {
		set["reminder_sent_at"] = *p.ReminderSentAt
	}

	return set
}
