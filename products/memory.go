package products

import (
	"context"
	"sync"

	"jpos/models"
)

// MemoryRepository keeps products in a map. It backs tests and local demos.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[int64]models.Product
}

func NewMemoryRepository(products ...models.Product) *MemoryRepository {
	m := &MemoryRepository{products: make(map[int64]models.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MemoryRepository) Product(_ context.Context, id int64) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return clone(p), nil
}

func (m *MemoryRepository) ProductByCode(_ context.Context, code string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.SKU == code || (p.Barcode != "" && p.Barcode == code) {
			return clone(p), nil
		}
		for _, v := range p.Variations {
			if v.SKU == code || (v.Barcode != "" && v.Barcode == code) {
				return clone(p), nil
			}
		}
	}
	return models.Product{}, ErrNotFound
}

func (m *MemoryRepository) SetVariationStock(_ context.Context, productID, variationID int64, change StockChange) (models.Variation, error) {
	change, err := change.Normalize()
	if err != nil {
		return models.Variation{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return models.Variation{}, ErrNotFound
	}
	p = clone(p)
	for i, v := range p.Variations {
		if v.ID == variationID {
			p.Variations[i] = change.Apply(v)
			m.products[productID] = p
			return p.Variations[i], nil
		}
	}
	return models.Variation{}, ErrVariationNotFound
}

func (m *MemoryRepository) SetImage(_ context.Context, productID int64, image, thumb string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return ErrNotFound
	}
	p.Image, p.Thumb = image, thumb
	m.products[productID] = p
	return nil
}

func clone(p models.Product) models.Product {
	vars := make([]models.Variation, len(p.Variations))
	copy(vars, p.Variations)
	p.Variations = vars
	return p
}
