package cart

import (
	"context"
	"sync"
	"time"

	"jpos/models"
)

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]models.CartItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]models.CartItem)}
}

func (m *MemoryStore) Add(_ context.Context, item models.CartItem, qty int) error {
	if err := validate(item, qty); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.carts[item.Register]
	for i := range items {
		if items[i].VariationID == item.VariationID {
			items[i].Quantity += qty
			return nil
		}
	}
	item.Quantity = qty
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	m.carts[item.Register] = append(items, item)
	return nil
}

func (m *MemoryStore) Items(_ context.Context, register string) ([]models.CartItem, error) {
	if register == "" {
		return nil, ErrNoRegister
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]models.CartItem, len(m.carts[register]))
	copy(items, m.carts[register])
	return items, nil
}

func (m *MemoryStore) Clear(_ context.Context, register string) error {
	if register == "" {
		return ErrNoRegister
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, register)
	return nil
}
