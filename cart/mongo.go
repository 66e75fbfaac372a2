package cart

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jpos/models"
)

// MongoStore keeps one document per register and variation.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Add increments the quantity if the variation is already in the register's
// cart, or inserts it.
func (m *MongoStore) Add(ctx context.Context, item models.CartItem, qty int) error {
	if err := validate(item, qty); err != nil {
		return err
	}

	filter := bson.M{"register": item.Register, "variation_id": item.VariationID}
	update := bson.M{
		"$inc": bson.M{"quantity": qty},
		"$setOnInsert": bson.M{
			"product_id": item.ProductID,
			"name":       item.Name,
			"sku":        item.SKU,
			"barcode":    item.Barcode,
			"price":      item.Price,
			"attributes": item.Attributes,
			"added_at":   time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

func (m *MongoStore) Items(ctx context.Context, register string) ([]models.CartItem, error) {
	if register == "" {
		return nil, ErrNoRegister
	}
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})
	cursor, err := m.coll.Find(ctx, bson.M{"register": register}, opts)
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

func (m *MongoStore) Clear(ctx context.Context, register string) error {
	if register == "" {
		return ErrNoRegister
	}
	if _, err := m.coll.DeleteMany(ctx, bson.M{"register": register}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
