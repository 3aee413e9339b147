package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database wraps the MongoDB client so callers get an explicit handle with a
// documented connect/close lifecycle instead of a package-level singleton.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// InitDatabase connects to MongoDB, pings it, and ensures the unique indexes
// the user collection relies on. Call Close on shutdown.
func InitDatabase(cfg AppConfig) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	d := &Database{client: client, db: client.Database(cfg.MongoDBName)}
	if err := d.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return d, nil
}

// Handle returns the underlying database for store constructors.
func (d *Database) Handle() *mongo.Database {
	return d.db
}

// Close disconnects the client. Safe to call once during shutdown.
func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *Database) ensureIndexes(ctx context.Context) error {
	users := d.db.Collection("users")
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo ensure user indexes: %w", err)
	}

	comments := d.db.Collection("comments")
	if _, err := comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post", Value: 1}},
	}); err != nil {
		return fmt.Errorf("mongo ensure comment indexes: %w", err)
	}
	return nil
}
