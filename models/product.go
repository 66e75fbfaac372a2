package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Stock statuses and product types as reported by the product API.
const (
	StockInStock    = "instock"
	StockOutOfStock = "outofstock"

	ProductSimple   = "simple"
	ProductVariable = "variable"
)

// Product is an immutable snapshot fetched from the product API.
type Product struct {
	ID          int64       `json:"id" bson:"_id"`
	Name        string      `json:"name" bson:"name"`
	SKU         string      `json:"sku" bson:"sku"`
	Barcode     string      `json:"barcode,omitempty" bson:"barcode,omitempty"`
	Type        string      `json:"type" bson:"type"`
	StockStatus string      `json:"stock_status" bson:"stock_status"`
	Price       string      `json:"price" bson:"price"`
	MinPrice    string      `json:"min_price,omitempty" bson:"min_price,omitempty"`
	Image       string      `json:"image,omitempty" bson:"image,omitempty"`
	Thumb       string      `json:"thumb,omitempty" bson:"thumb,omitempty"`
	Variations  []Variation `json:"variations" bson:"variations"`

	// Stock tracking of a simple product. Variable products track stock per
	// variation.
	ManagesStock  bool `json:"manages_stock" bson:"manages_stock"`
	StockQuantity *int `json:"stock_quantity" bson:"stock_quantity"`
}

// UnmarshalJSON reads the stock fields with the same leniency as Variation.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var raw struct {
		plain
		ManagesStock  json.RawMessage `json:"manages_stock"`
		ManageStock   json.RawMessage `json:"manage_stock"`
		StockQuantity json.RawMessage `json:"stock_quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Product(raw.plain)
	p.ManagesStock, p.StockQuantity = rawStock(raw.ManagesStock, raw.ManageStock, raw.StockQuantity)
	return nil
}

// IsVariable reports whether the product is sold through variations.
func (p Product) IsVariable() bool {
	return p.Type == ProductVariable
}

// Variation returns the variation with the given id.
func (p Product) Variation(id int64) (Variation, bool) {
	for _, v := range p.Variations {
		if v.ID == id {
			return v, true
		}
	}
	return Variation{}, false
}

// Variation is one purchasable attribute combination of a variable product.
// A nil StockQuantity means stock is not tracked.
type Variation struct {
	ID            int64             `json:"id" bson:"id"`
	SKU           string            `json:"sku" bson:"sku"`
	Barcode       string            `json:"barcode" bson:"barcode"`
	Price         string            `json:"price" bson:"price"`
	StockStatus   string            `json:"stock_status" bson:"stock_status"`
	ManagesStock  bool              `json:"manages_stock" bson:"manages_stock"`
	StockQuantity *int              `json:"stock_quantity" bson:"stock_quantity"`
	Attributes    map[string]string `json:"attributes" bson:"attributes"`
}

// InStock reports whether the variation's stock status is instock.
func (v Variation) InStock() bool {
	return v.StockStatus == StockInStock
}

// Tracked reports whether committed stock is authoritative for this variation.
func (v Variation) Tracked() bool {
	return v.ManagesStock && v.StockQuantity != nil
}

// PriceDecimal parses the price string. Unparseable prices are zero.
func (v Variation) PriceDecimal() decimal.Decimal {
	return ParsePrice(v.Price)
}

// UnmarshalJSON accepts the shapes the product API emits: manage_stock as an
// alias of manages_stock (including the "parent" value), prices as strings or
// numbers, and stock_quantity as a number, numeric string or null.
func (v *Variation) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            json.RawMessage   `json:"id"`
		SKU           string            `json:"sku"`
		Barcode       json.RawMessage   `json:"barcode"`
		Price         json.RawMessage   `json:"price"`
		StockStatus   string            `json:"stock_status"`
		ManagesStock  json.RawMessage   `json:"manages_stock"`
		ManageStock   json.RawMessage   `json:"manage_stock"`
		StockQuantity json.RawMessage   `json:"stock_quantity"`
		Attributes    map[string]string `json:"attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, _ := rawInt(raw.ID)
	v.ID = id
	v.SKU = raw.SKU
	v.Barcode = rawString(raw.Barcode)
	v.Price = rawString(raw.Price)
	v.StockStatus = raw.StockStatus
	v.Attributes = raw.Attributes

	v.ManagesStock, v.StockQuantity = rawStock(raw.ManagesStock, raw.ManageStock, raw.StockQuantity)
	return nil
}

func rawStock(manages, manage, quantity json.RawMessage) (bool, *int) {
	if len(manages) == 0 || bytes.Equal(manages, []byte("null")) {
		manages = manage
	}
	q, ok := rawInt(quantity)
	if !ok {
		return rawBool(manages), nil
	}
	n := int(q)
	return rawBool(manages), &n
}

// ParsePrice parses a price string, returning zero when it is empty or invalid.
func ParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func rawString(b json.RawMessage) string {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(b))
}

func rawInt(b json.RawMessage) (int64, bool) {
	s := rawString(b)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

func rawBool(b json.RawMessage) bool {
	switch strings.ToLower(rawString(b)) {
	case "true", "1", "yes", "parent":
		return true
	}
	return false
}
