package drawer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jpos/models"
	"jpos/utils"
	"jpos/variants"
)

var (
	ErrAlreadyOpen   = errors.New("drawer already open")
	ErrNotOpen       = errors.New("no open drawer")
	ErrNoRegister    = errors.New("register is required")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Store tracks drawer sessions. A register has at most one open drawer.
type Store interface {
	Open(ctx context.Context, register, cashierID, float string) (models.Drawer, error)
	Close(ctx context.Context, register, count string) (models.Drawer, error)
	Current(ctx context.Context, register string) (models.Drawer, error)
}

// IsOpen reports whether register has an open drawer.
func IsOpen(ctx context.Context, store Store, register string) (bool, error) {
	_, err := store.Current(ctx, register)
	if errors.Is(err, ErrNotOpen) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// For adapts the store to the drawer check a selection session makes before
// adding to the cart.
func For(store Store, register string) variants.Drawer {
	return variants.DrawerFunc(func(ctx context.Context) (bool, error) {
		return IsOpen(ctx, store, register)
	})
}

// amount normalises a cash amount to two decimals. Empty means zero.
func amount(s string) (string, error) {
	if s == "" {
		return "0.00", nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return "", ErrInvalidAmount
	}
	return d.StringFixed(2), nil
}

// MongoStore keeps drawer sessions in a collection with a partial unique
// index on open drawers per register.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, now: time.Now}
}

func (m *MongoStore) Open(ctx context.Context, register, cashierID, float string) (models.Drawer, error) {
	if register == "" {
		return models.Drawer{}, ErrNoRegister
	}
	opening, err := amount(float)
	if err != nil {
		return models.Drawer{}, err
	}

	d := models.Drawer{
		ID:           utils.GetUUID(),
		Register:     register,
		CashierID:    cashierID,
		OpeningFloat: opening,
		Status:       models.DrawerOpen,
		OpenedAt:     m.now().UTC(),
	}
	if _, err := m.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Drawer{}, ErrAlreadyOpen
		}
		return models.Drawer{}, fmt.Errorf("open drawer: %w", err)
	}
	return d, nil
}

func (m *MongoStore) Close(ctx context.Context, register, count string) (models.Drawer, error) {
	if register == "" {
		return models.Drawer{}, ErrNoRegister
	}
	closing, err := amount(count)
	if err != nil {
		return models.Drawer{}, err
	}

	filter := bson.M{"register": register, "status": models.DrawerOpen}
	update := bson.M{"$set": bson.M{
		"status":        models.DrawerClosed,
		"closing_count": closing,
		"closed_at":     m.now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.Drawer
	err = m.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return d, ErrNotOpen
	}
	if err != nil {
		return d, fmt.Errorf("close drawer: %w", err)
	}
	return d, nil
}

func (m *MongoStore) Current(ctx context.Context, register string) (models.Drawer, error) {
	if register == "" {
		return models.Drawer{}, ErrNoRegister
	}
	var d models.Drawer
	err := m.coll.FindOne(ctx, bson.M{"register": register, "status": models.DrawerOpen}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return d, ErrNotOpen
	}
	if err != nil {
		return d, fmt.Errorf("find drawer: %w", err)
	}
	return d, nil
}
