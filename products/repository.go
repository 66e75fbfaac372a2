package products

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jpos/models"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrVariationNotFound = errors.New("variation not found")
	ErrInvalidStock      = errors.New("stock quantity cannot be negative")
)

// Repository is the product store behind the product API.
type Repository interface {
	Product(ctx context.Context, id int64) (models.Product, error)
	ProductByCode(ctx context.Context, code string) (models.Product, error)
	SetVariationStock(ctx context.Context, productID, variationID int64, change StockChange) (models.Variation, error)
	SetImage(ctx context.Context, productID int64, image, thumb string) error
}

// StockChange is a stock edit for one variation.
type StockChange struct {
	ManagesStock  bool   `json:"manages_stock"`
	StockQuantity *int   `json:"stock_quantity"`
	StockStatus   string `json:"stock_status"`
}

// Normalize validates the change and derives the stock status. Tracked stock
// decides the status from the quantity; untracked stock keeps the requested
// status, defaulting to instock.
func (c StockChange) Normalize() (StockChange, error) {
	if c.StockQuantity != nil && *c.StockQuantity < 0 {
		return c, ErrInvalidStock
	}
	if !c.ManagesStock {
		c.StockQuantity = nil
	}
	switch {
	case c.ManagesStock && c.StockQuantity != nil:
		if *c.StockQuantity > 0 {
			c.StockStatus = models.StockInStock
		} else {
			c.StockStatus = models.StockOutOfStock
		}
	case c.StockStatus != models.StockOutOfStock:
		c.StockStatus = models.StockInStock
	}
	return c, nil
}

// Apply writes the change onto a variation.
func (c StockChange) Apply(v models.Variation) models.Variation {
	v.ManagesStock = c.ManagesStock
	v.StockQuantity = c.StockQuantity
	v.StockStatus = c.StockStatus
	return v
}

// MongoRepository stores products as documents with embedded variations.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (m *MongoRepository) Product(ctx context.Context, id int64) (models.Product, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

// ProductByCode finds the product whose own SKU or barcode, or any of whose
// variations' SKU or barcode, equals code.
func (m *MongoRepository) ProductByCode(ctx context.Context, code string) (models.Product, error) {
	return m.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"sku": code},
		bson.M{"barcode": code},
		bson.M{"variations.sku": code},
		bson.M{"variations.barcode": code},
	}})
}

func (m *MongoRepository) findOne(ctx context.Context, filter bson.M) (models.Product, error) {
	var p models.Product
	err := m.coll.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (m *MongoRepository) SetVariationStock(ctx context.Context, productID, variationID int64, change StockChange) (models.Variation, error) {
	change, err := change.Normalize()
	if err != nil {
		return models.Variation{}, err
	}

	filter := bson.M{"_id": productID, "variations.id": variationID}
	update := bson.M{"$set": bson.M{
		"variations.$.manages_stock":  change.ManagesStock,
		"variations.$.stock_quantity": change.StockQuantity,
		"variations.$.stock_status":   change.StockStatus,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err = m.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, perr := m.Product(ctx, productID); perr != nil {
			return models.Variation{}, perr
		}
		return models.Variation{}, ErrVariationNotFound
	}
	if err != nil {
		return models.Variation{}, fmt.Errorf("update stock: %w", err)
	}

	v, ok := p.Variation(variationID)
	if !ok {
		return models.Variation{}, ErrVariationNotFound
	}
	return v, nil
}

func (m *MongoRepository) SetImage(ctx context.Context, productID int64, image, thumb string) error {
	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": bson.M{"image": image, "thumb": thumb}})
	if err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
