package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"beautybook/database"
	"beautybook/models"
	"beautybook/services/booking"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogRepo serves services and professionals from MongoDB. Slots
// already held by a live booking are removed from a professional's offer.
type MongoCatalogRepo struct {
	serviceColl      *mongo.Collection
	professionalColl *mongo.Collection
	bookingColl      *mongo.Collection
}

func NewMongoCatalogRepo() *MongoCatalogRepo {
	db := database.Database()
	return &MongoCatalogRepo{
		serviceColl:      db.Collection("services"),
		professionalColl: db.Collection("professionals"),
		bookingColl:      db.Collection("bookings"),
	}
}

func (r *MongoCatalogRepo) GetService(ctx context.Context, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	filter := bson.M{"id": serviceID, "active": true}
	if err := r.serviceColl.FindOne(ctx, filter).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, booking.ErrServiceNotFound
		}
		return nil, fmt.Errorf("error fetching service with id %s: %w", serviceID, err)
	}
	return &svc, nil
}

func (r *MongoCatalogRepo) GetProfessional(ctx context.Context, professionalID string) (*models.Professional, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Professional
	if err := r.professionalColl.FindOne(ctx, bson.M{"id": professionalID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, booking.ErrServiceNotFound
		}
		return nil, fmt.Errorf("error fetching professional with id %s: %w", professionalID, err)
	}
	return &p, nil
}

func (r *MongoCatalogRepo) ListServices(ctx context.Context, professionalID string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.serviceColl.Find(ctx, bson.M{"professional_id": professionalID, "active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}

func (r *MongoCatalogRepo) AvailableSlots(ctx context.Context, professionalID, date string) ([]string, error) {
	p, err := r.GetProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	slots := booking.SlotsFor(p)
	if date == "" || len(slots) == 0 {
		return slots, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{
		"professional_id": professionalID,
		"date":            date,
		"status":          bson.M{"$ne": models.BookingStatusCancelled},
	}
	taken, err := r.bookingColl.Distinct(ctx, "time", filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching booked times: %w", err)
	}
	return slices.DeleteFunc(slots, func(s string) bool {
		return slices.Contains(taken, any(s))
	}), nil
}

// UpdateProfessionalRating stores a refreshed review aggregate.
func (r *MongoCatalogRepo) UpdateProfessionalRating(ctx context.Context, professionalID string, rating float64, reviewCount int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"rating": rating, "review_count": reviewCount}}
	res, err := r.professionalColl.UpdateOne(ctx, bson.M{"id": professionalID}, update)
	if err != nil {
		return fmt.Errorf("failed to update professional with id %s: %w", professionalID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("professional with id %s not found", professionalID)
	}
	return nil
}

// Seed inserts the given services and professionals that are not stored yet.
func (r *MongoCatalogRepo) Seed(ctx context.Context, services []models.Service, professionals []models.Professional) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	upsert := options.Update().SetUpsert(true)
	for _, p := range professionals {
		if _, err := r.professionalColl.UpdateOne(ctx, bson.M{"id": p.ID}, bson.M{"$setOnInsert": p}, upsert); err != nil {
			return fmt.Errorf("failed to seed professional %s: %w", p.ID, err)
		}
	}
	for _, s := range services {
		if _, err := r.serviceColl.UpdateOne(ctx, bson.M{"id": s.ID}, bson.M{"$setOnInsert": s}, upsert); err != nil {
			return fmt.Errorf("failed to seed service %s: %w", s.ID, err)
		}
	}
	return nil
}
