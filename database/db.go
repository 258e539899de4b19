package database

import (
	"context"
	"fmt"
	"time"

	"beautybook/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const defaultDatabaseName = "beautybook"

// MongoClient is shared by every repository. It is nil until InitDB succeeds.
var MongoClient *mongo.Client

// InitDB connects to DATABASE_URL and verifies the server answers a ping
// within ten seconds.
func InitDB(ctx context.Context, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(config.AppConfig.DatabaseURL).
		SetAppName("beautybook"))
	if err != nil {
		return fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongo: %w", err)
	}
	MongoClient = client
	logger.Info("Connected to MongoDB", zap.String("database", databaseName()))
	return nil
}

// Database returns the application database on MongoClient.
func Database() *mongo.Database {
	return MongoClient.Database(databaseName())
}

func databaseName() string {
	if name := config.AppConfig.DatabaseName; name != "" {
		return name
	}
	return defaultDatabaseName
}

// Disconnect closes MongoClient. It is a no-op before InitDB.
func Disconnect(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
