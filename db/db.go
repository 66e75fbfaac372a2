package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections used by the service.
type Collections struct {
	Products *mongo.Collection
	Carts    *mongo.Collection
	Drawers  *mongo.Collection
	Cashiers *mongo.Collection
}

// DB wraps the client so callers can disconnect it on shutdown.
type DB struct {
	Client *mongo.Client
	Collections
}

// Connect dials MongoDB and pings it.
func Connect(ctx context.Context, uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := client.Database(database)
	return &DB{
		Client: client,
		Collections: Collections{
			Products: d.Collection("products"),
			Carts:    d.Collection("carts"),
			Drawers:  d.Collection("drawers"),
			Cashiers: d.Collection("cashiers"),
		},
	}, nil
}

// CreateIndexes sets up lookups the handlers rely on.
func (db *DB) CreateIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{db.Products, mongo.IndexModel{Keys: bson.D{{Key: "sku", Value: 1}}}},
		{db.Products, mongo.IndexModel{Keys: bson.D{{Key: "variations.sku", Value: 1}}}},
		{db.Products, mongo.IndexModel{Keys: bson.D{{Key: "variations.barcode", Value: 1}}}},
		{db.Carts, mongo.IndexModel{
			Keys:    bson.D{{Key: "register", Value: 1}, {Key: "variation_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{db.Drawers, mongo.IndexModel{
			Keys:    bson.D{{Key: "register", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"status": "open"}),
		}},
		{db.Cashiers, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}
	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
			return fmt.Errorf("create index on %s: %w", ix.coll.Name(), err)
		}
	}
	return nil
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
