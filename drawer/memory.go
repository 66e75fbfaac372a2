package drawer

import (
	"context"
	"sync"
	"time"

	"jpos/models"
	"jpos/utils"
)

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	open map[string]models.Drawer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{open: make(map[string]models.Drawer)}
}

func (m *MemoryStore) Open(_ context.Context, register, cashierID, float string) (models.Drawer, error) {
	if register == "" {
		return models.Drawer{}, ErrNoRegister
	}
	opening, err := amount(float)
	if err != nil {
		return models.Drawer{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.open[register]; ok {
		return models.Drawer{}, ErrAlreadyOpen
	}
	d := models.Drawer{
		ID:           utils.GetUUID(),
		Register:     register,
		CashierID:    cashierID,
		OpeningFloat: opening,
		Status:       models.DrawerOpen,
		OpenedAt:     time.Now().UTC(),
	}
	m.open[register] = d
	return d, nil
}

func (m *MemoryStore) Close(_ context.Context, register, count string) (models.Drawer, error) {
	if register == "" {
		return models.Drawer{}, ErrNoRegister
	}
	closing, err := amount(count)
	if err != nil {
		return models.Drawer{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.open[register]
	if !ok {
		return models.Drawer{}, ErrNotOpen
	}
	now := time.Now().UTC()
	d.Status = models.DrawerClosed
	d.ClosingCount = closing
	d.ClosedAt = &now
	delete(m.open, register)
	return d, nil
}

func (m *MemoryStore) Current(_ context.Context, register string) (models.Drawer, error) {
	if register == "" {
		return models.Drawer{}, ErrNoRegister
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.open[register]
	if !ok {
		return models.Drawer{}, ErrNotOpen
	}
	return d, nil
}
