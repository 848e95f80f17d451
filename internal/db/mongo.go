package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func NewMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// mongoIndexes lists the indexes per collection. The unique ones back the
// duplicate-email and duplicate-review checks.
func mongoIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_key")},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		"cars": {
			{Keys: bson.D{{Key: "is_available", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		"rentals": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_date", Value: -1}}},
			{Keys: bson.D{{Key: "car_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"reviews": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "car_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("reviews_user_car_key")},
			{Keys: bson.D{{Key: "car_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"audit_logs": {
			{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}}},
		},
	}
}

// EnsureIndexes is the document-store counterpart of RunMigrations. It is
// idempotent and runs on every boot.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for coll, models := range mongoIndexes() {
		if _, err := database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes on %s: %w", coll, err)
		}
	}
	return nil
}
