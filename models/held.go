package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// HeldCartsKey is the storage key of the held-cart collection.
const HeldCartsKey = "jpos_held_carts"

// HeldCart is a parked transaction holding stock against variation ids.
type HeldCart struct {
	ID        string     `json:"id,omitempty"`
	Register  string     `json:"register,omitempty"`
	Cashier   string     `json:"cashier,omitempty"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Cart      []CartLine `json:"cart"`
}

// CartLine is one held line. Only ID and Qty take part in hold accounting;
// the remaining fields let a resumed cart be rebuilt without a product fetch.
type CartLine struct {
	ID         int64             `json:"id"`
	Qty        int               `json:"qty"`
	ProductID  int64             `json:"product_id,omitempty"`
	Name       string            `json:"name,omitempty"`
	SKU        string            `json:"sku,omitempty"`
	Price      string            `json:"price,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Item rebuilds a register cart item from the held line.
func (l CartLine) Item(register string) CartItem {
	return CartItem{
		Register:    register,
		ProductID:   l.ProductID,
		VariationID: l.ID,
		Name:        l.Name,
		SKU:         l.SKU,
		Price:       l.Price,
		Attributes:  l.Attributes,
		Quantity:    l.Qty,
	}
}

// UnmarshalJSON tolerates ids and quantities written as strings. Values that
// cannot be read as integers decode as zero.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         json.RawMessage   `json:"id"`
		Qty        json.RawMessage   `json:"qty"`
		ProductID  json.RawMessage   `json:"product_id"`
		Name       string            `json:"name"`
		SKU        string            `json:"sku"`
		Price      json.RawMessage   `json:"price"`
		Attributes map[string]string `json:"attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ID, _ = rawInt(raw.ID)
	qty, _ := rawInt(raw.Qty)
	l.Qty = int(qty)
	l.ProductID, _ = rawInt(raw.ProductID)
	l.Name = raw.Name
	l.SKU = raw.SKU
	l.Price = rawString(raw.Price)
	l.Attributes = raw.Attributes
	return nil
}

// UnmarshalJSON reads the metadata leniently so that a cart written by an
// older register (numeric id, non-RFC3339 timestamp) still contributes its
// lines. Only a malformed cart array is an error.
func (c *HeldCart) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw struct {
		ID        json.RawMessage `json:"id"`
		Register  json.RawMessage `json:"register"`
		Cashier   json.RawMessage `json:"cashier"`
		Note      json.RawMessage `json:"note"`
		CreatedAt json.RawMessage `json:"created_at"`
		Cart      []CartLine      `json:"cart"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = rawString(raw.ID)
	c.Register = rawString(raw.Register)
	c.Cashier = rawString(raw.Cashier)
	c.Note = rawString(raw.Note)
	c.CreatedAt = rawTime(raw.CreatedAt)
	c.Cart = raw.Cart
	return nil
}

var heldTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// rawTime accepts RFC3339 and SQL-style timestamps or epoch seconds or
// milliseconds. Anything else is the zero time.
func rawTime(b json.RawMessage) time.Time {
	s := rawString(b)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range heldTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	n, ok := rawInt(b)
	if !ok || n <= 0 {
		return time.Time{}
	}
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}
