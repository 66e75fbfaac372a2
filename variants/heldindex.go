package variants

import (
	"encoding/json"

	"jpos/models"
)

// HeldIndex maps a variation id to the quantity reserved by held carts.
type HeldIndex map[int64]int

// Held returns the quantity held against the variation id.
func (h HeldIndex) Held(id int64) int {
	return h[id]
}

// BuildHeldIndex sums held quantities per variation across every held cart
// and every line. The input is never modified.
func BuildHeldIndex(carts []models.HeldCart) HeldIndex {
	idx := make(HeldIndex)
	for _, c := range carts {
		for _, line := range c.Cart {
			if line.ID <= 0 || line.Qty <= 0 {
				continue
			}
			idx[line.ID] += line.Qty
		}
	}
	return idx
}

// ParseHeldCarts decodes a stored held-cart collection. Absent or malformed
// data decodes to no carts; a single bad cart is dropped without affecting
// the others.
func ParseHeldCarts(data []byte) []models.HeldCart {
	if len(data) == 0 {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	carts := make([]models.HeldCart, 0, len(raw))
	for _, r := range raw {
		var c models.HeldCart
		if err := json.Unmarshal(r, &c); err != nil {
			continue
		}
		carts = append(carts, c)
	}
	return carts
}
