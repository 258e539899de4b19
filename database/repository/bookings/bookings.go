package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"beautybook/database"
	"beautybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo stores confirmed bookings and keeps the per-day
// analytics rows of the booked professional in step with them.
type MongoBookingRepo struct {
	coll          *mongo.Collection
	analyticsColl *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.Database()
	return &MongoBookingRepo{
		coll:          db.Collection("bookings"),
		analyticsColl: db.Collection("analytics"),
	}
}

func (r *MongoBookingRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("slot %s %s is already booked: %w", b.Date, b.Time, err)
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	filter := bson.M{"professional_id": b.ProfessionalID, "date": b.Date}
	update := bson.M{"$inc": bson.M{"revenue": b.TotalAmount, "bookings": 1}}
	if _, err := r.analyticsColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to update analytics for %s: %w", b.Date, err)
	}
	return nil
}

// ListBookingsByProfessional returns bookings dated on or after from, newest first.
func (r *MongoBookingRepo) ListBookingsByProfessional(ctx context.Context, professionalID, from string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": professionalID}
	if from != "" {
		filter["date"] = bson.M{"$gte": from}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// EnsureIndexes creates the unique booking id and the one-live-booking-per-slot index.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{
				{Key: "professional_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_confirmed_slot").
				SetPartialFilterExpression(bson.M{"status": models.BookingStatusConfirmed}),
		},
		{
			Keys:    bson.D{{Key: "professional_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("professional_recent_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	_, err = r.analyticsColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "professional_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_professional_day"),
	})
	if err != nil {
		return fmt.Errorf("failed to create analytics indexes: %w", err)
	}
	return nil
}
