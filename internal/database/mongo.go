package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongo opens a MongoDB client, verifies it with a ping and returns the configured database.
// It retries with the same backoff as InitDatabase.
func ConnectMongo(ctx context.Context, cfg DatabaseConfig) (*mongo.Database, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}

	log.WithField("db_name", cfg.MongoDatabase).Info("Initializing MongoDB connection")

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	retryDelays := cfg.retryDelays()
	maxRetries := len(retryDelays) + 1

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		var client *mongo.Client
		client, err = mongo.Connect(ctx, clientOpts)
		if err == nil {
			err = client.Ping(ctx, readpref.Primary())
			if err == nil {
				log.WithFields(logrus.Fields{
					"db_driver": "mongo",
					"attempt":   attempt,
				}).Info("Database initialized successfully")
				return client.Database(cfg.MongoDatabase), nil
			}
			_ = client.Disconnect(ctx)
		}

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("MongoDB connection attempt failed")

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelays[attempt-1]):
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to mongodb after %d attempts: %w", maxRetries, err)
}
