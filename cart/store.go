package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"jpos/models"
	"jpos/variants"
)

var (
	ErrNoRegister      = errors.New("register is required")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidItem     = errors.New("item must name a variation")
)

// Store holds the active cart of each register. Adding a variation that is
// already in the cart increments its quantity.
type Store interface {
	Add(ctx context.Context, item models.CartItem, qty int) error
	Items(ctx context.Context, register string) ([]models.CartItem, error)
	Clear(ctx context.Context, register string) error
}

func validate(item models.CartItem, qty int) error {
	switch {
	case item.Register == "":
		return ErrNoRegister
	case item.VariationID <= 0:
		return ErrInvalidItem
	case qty <= 0:
		return ErrInvalidQuantity
	}
	return nil
}

// For binds a store to one register so it can take adds from a selection
// session.
func For(store Store, register string) variants.Cart {
	return registerCart{store: store, register: register}
}

type registerCart struct {
	store    Store
	register string
}

func (c registerCart) AddToCart(ctx context.Context, item models.CartItem, qty int) error {
	item.Register = c.register
	return c.store.Add(ctx, item, qty)
}

// Summary is a cart with its totals.
type Summary struct {
	Register string            `json:"register"`
	Items    []models.CartItem `json:"items"`
	Count    int               `json:"count"`
	Total    string            `json:"total"`
}

// Summarize totals the items. Lines with unparseable prices count as zero.
func Summarize(register string, items []models.CartItem) Summary {
	s := Summary{Register: register, Items: items}
	total := decimal.Zero
	for _, it := range items {
		s.Count += it.Quantity
		total = total.Add(models.ParsePrice(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	s.Total = total.StringFixed(2)
	if s.Items == nil {
		s.Items = []models.CartItem{}
	}
	return s
}
