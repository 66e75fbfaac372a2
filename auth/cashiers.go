package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"jpos/models"
)

var (
	ErrCashierNotFound = errors.New("cashier not found")
	ErrBadCredentials  = errors.New("invalid username or PIN")
)

// Cashiers looks up till operators by username.
type Cashiers interface {
	ByUsername(ctx context.Context, username string) (models.Cashier, error)
}

// HashPIN returns the bcrypt hash stored for a cashier PIN.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

// Verify checks the PIN of the named cashier. Unknown usernames and wrong
// PINs both yield ErrBadCredentials.
func Verify(ctx context.Context, cashiers Cashiers, username, pin string) (models.Cashier, error) {
	c, err := cashiers.ByUsername(ctx, username)
	if errors.Is(err, ErrCashierNotFound) {
		return models.Cashier{}, ErrBadCredentials
	}
	if err != nil {
		return models.Cashier{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PinHash), []byte(pin)); err != nil {
		return models.Cashier{}, ErrBadCredentials
	}
	return c, nil
}

// MongoCashiers reads cashiers from a collection.
type MongoCashiers struct {
	coll *mongo.Collection
}

func NewMongoCashiers(coll *mongo.Collection) *MongoCashiers {
	return &MongoCashiers{coll: coll}
}

func (m *MongoCashiers) ByUsername(ctx context.Context, username string) (models.Cashier, error) {
	var c models.Cashier
	err := m.coll.FindOne(ctx, bson.M{"username": username}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return c, ErrCashierNotFound
	}
	if err != nil {
		return c, fmt.Errorf("find cashier: %w", err)
	}
	return c, nil
}

// MemoryCashiers is a fixed cashier list.
type MemoryCashiers struct {
	mu       sync.RWMutex
	cashiers map[string]models.Cashier
}

func NewMemoryCashiers(cashiers ...models.Cashier) *MemoryCashiers {
	m := &MemoryCashiers{cashiers: make(map[string]models.Cashier)}
	for _, c := range cashiers {
		m.cashiers[c.Username] = c
	}
	return m
}

func (m *MemoryCashiers) ByUsername(_ context.Context, username string) (models.Cashier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cashiers[username]
	if !ok {
		return c, ErrCashierNotFound
	}
	return c, nil
}
