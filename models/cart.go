package models

import "time"

// CartItem is a line in a register's active cart. Variation fields are copied
// in at add time so the cart survives later product edits.
type CartItem struct {
	Register    string            `json:"register" bson:"register"`
	ProductID   int64             `json:"product_id" bson:"product_id"`
	VariationID int64             `json:"id" bson:"variation_id"`
	Name        string            `json:"name" bson:"name"`
	SKU         string            `json:"sku" bson:"sku"`
	Barcode     string            `json:"barcode,omitempty" bson:"barcode,omitempty"`
	Price       string            `json:"price" bson:"price"` // unit price
	Attributes  map[string]string `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Quantity    int               `json:"quantity" bson:"quantity"`
	AddedAt     time.Time         `json:"added_at" bson:"added_at"`
}

// Line converts the item into the reduced shape stored in a held cart.
func (c CartItem) Line() CartLine {
	return CartLine{
		ID:         c.VariationID,
		Qty:        c.Quantity,
		ProductID:  c.ProductID,
		Name:       c.Name,
		SKU:        c.SKU,
		Price:      c.Price,
		Attributes: c.Attributes,
	}
}
