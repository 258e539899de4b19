package analyticsRepo

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

type MongoAnalyticsRepo struct {
	coll *mongo.Collection
}

func NewMongoAnalyticsRepo() *MongoAnalyticsRepo {
	return &MongoAnalyticsRepo{coll: database.Database().Collection("analytics")}
}

// ListAnalytics returns the daily rows in [from, to], oldest first. Dates
// are YYYY-MM-DD so string order is calendar order.
func (r *MongoAnalyticsRepo) ListAnalytics(ctx context.Context, professionalID, from, to string) ([]models.Analytics, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"professional_id": professionalID,
		"date":            bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching analytics: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.Analytics
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding analytics: %w", err)
	}
	return rows, nil
}
