package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpos/models"
)

func qty(n int) *int { return &n }

func variation(id int64, status string, manage bool, stock *int, attrs map[string]string) models.Variation {
	return models.Variation{
		ID:            id,
		SKU:           "SKU-" + string(rune('A'+id%26)),
		Price:         "10.00",
		StockStatus:   status,
		ManagesStock:  manage,
		StockQuantity: stock,
		Attributes:    attrs,
	}
}

func TestBuildHeldIndex_SumsAcrossCartsAndLines(t *testing.T) {
	carts := []models.HeldCart{
		{Cart: []models.CartLine{{ID: 3, Qty: 2}}},
		{Cart: []models.CartLine{{ID: 3, Qty: 1}, {ID: 4, Qty: 5}}},
	}

	idx := BuildHeldIndex(carts)

	assert.Equal(t, HeldIndex{3: 3, 4: 5}, idx)
	assert.Equal(t, 2, carts[0].Cart[0].Qty, "input must not be modified")
}

func TestBuildHeldIndex_SkipsInvalidLines(t *testing.T) {
	idx := BuildHeldIndex([]models.HeldCart{
		{Cart: []models.CartLine{{ID: 0, Qty: 4}, {ID: 9, Qty: -2}, {ID: 9, Qty: 1}}},
	})
	assert.Equal(t, HeldIndex{9: 1}, idx)
}

func TestParseHeldCarts(t *testing.T) {
	tests := []struct {
		name string
		data string
		want HeldIndex
	}{
		{"empty", ``, HeldIndex{}},
		{"null", `null`, HeldIndex{}},
		{"not an array", `{"cart":[{"id":1,"qty":1}]}`, HeldIndex{}},
		{"garbage", `not json at all`, HeldIndex{}},
		{"valid", `[{"cart":[{"id":3,"qty":2}]},{"cart":[{"id":3,"qty":1},{"id":4,"qty":5}]}]`, HeldIndex{3: 3, 4: 5}},
		{"string numbers", `[{"cart":[{"id":"7","qty":"2"}]}]`, HeldIndex{7: 2}},
		{"bad cart dropped", `[{"cart":"nope"},{"cart":[{"id":5,"qty":1}]}]`, HeldIndex{5: 1}},
		{"bad quantity ignored", `[{"cart":[{"id":5,"qty":"lots"},{"id":6,"qty":1}]}]`, HeldIndex{6: 1}},
		{"legacy metadata", `[{"id":1700000000123,"created_at":"yesterday","cart":[{"id":3,"qty":2}]},{"cart":[{"id":3,"qty":1}]}]`, HeldIndex{3: 3}},
		{"null entry", `[null,{"cart":[{"id":2,"qty":1}]}]`, HeldIndex{2: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildHeldIndex(ParseHeldCarts([]byte(tt.data)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDomain_CollapsesDuplicatesInOrder(t *testing.T) {
	vars := []models.Variation{
		{ID: 1, Attributes: map[string]string{"size": "M"}},
		{ID: 2, Attributes: map[string]string{"size": "S"}},
		{ID: 3, Attributes: map[string]string{"size": "M"}},
	}

	d := BuildDomain(vars)

	assert.Equal(t, Domain{"size": {"M", "S"}}, d)
}

func TestBuildDomain_NoVariations(t *testing.T) {
	d := BuildDomain(nil)
	assert.True(t, d.Empty())
	assert.Empty(t, d.Keys())
	assert.Empty(t, ClassifyDomain(d, nil, nil))
}

func TestClassify(t *testing.T) {
	red := map[string]string{"color": "red"}

	tests := []struct {
		name  string
		vars  []models.Variation
		holds HeldIndex
		want  Classification
	}{
		{
			name:  "fully held managed stock",
			vars:  []models.Variation{variation(1, models.StockInStock, true, qty(5), red)},
			holds: HeldIndex{1: 5},
			want:  Classification{Status: StatusHeld, Held: 5},
		},
		{
			name:  "over held managed stock",
			vars:  []models.Variation{variation(1, models.StockInStock, true, qty(2), red)},
			holds: HeldIndex{1: 3},
			want:  Classification{Status: StatusHeld, Held: 3},
		},
		{
			name:  "partly held managed stock",
			vars:  []models.Variation{variation(1, models.StockInStock, true, qty(5), red)},
			holds: HeldIndex{1: 4},
			want:  Classification{Status: StatusAvailable},
		},
		{
			name:  "unmanaged in stock ignores holds",
			vars:  []models.Variation{variation(1, models.StockInStock, false, nil, red)},
			holds: HeldIndex{1: 50},
			want:  Classification{Status: StatusAvailable},
		},
		{
			name:  "unmanaged with quantity ignores holds",
			vars:  []models.Variation{variation(1, models.StockInStock, false, qty(1), red)},
			holds: HeldIndex{1: 1},
			want:  Classification{Status: StatusAvailable},
		},
		{
			name: "unmanaged out of stock",
			vars: []models.Variation{variation(1, models.StockOutOfStock, false, nil, red)},
			want: Classification{Status: StatusOutOfStock},
		},
		{
			name: "zero real stock is not held",
			vars: []models.Variation{variation(10, models.StockOutOfStock, true, qty(0), red)},
			want: Classification{Status: StatusOutOfStock},
		},
		{
			name: "managed without quantity follows status",
			vars: []models.Variation{variation(1, models.StockInStock, true, nil, red)},
			want: Classification{Status: StatusAvailable},
		},
		{
			name: "positive quantity but outofstock status",
			vars: []models.Variation{variation(1, models.StockOutOfStock, true, qty(3), red)},
			want: Classification{Status: StatusOutOfStock},
		},
		{
			name: "no matching variation",
			vars: []models.Variation{variation(1, models.StockInStock, false, nil, map[string]string{"color": "blue"})},
			want: Classification{Status: StatusOutOfStock},
		},
		{
			name: "available beats held",
			vars: []models.Variation{
				variation(1, models.StockInStock, true, qty(1), red),
				variation(2, models.StockInStock, true, qty(4), red),
			},
			holds: HeldIndex{1: 1},
			want:  Classification{Status: StatusAvailable},
		},
		{
			name: "held beats out of stock",
			vars: []models.Variation{
				variation(1, models.StockOutOfStock, true, qty(0), red),
				variation(2, models.StockInStock, true, qty(2), red),
			},
			holds: HeldIndex{2: 2},
			want:  Classification{Status: StatusHeld, Held: 2},
		},
		{
			name: "available before held in scan order stays available",
			vars: []models.Variation{
				variation(2, models.StockInStock, true, qty(4), red),
				variation(1, models.StockInStock, true, qty(1), red),
			},
			holds: HeldIndex{1: 1},
			want:  Classification{Status: StatusAvailable},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("color", "red", tt.vars, tt.holds)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDomain_SingleValueAttributeAlwaysSelectable(t *testing.T) {
	vars := []models.Variation{
		variation(1, models.StockInStock, true, qty(2), map[string]string{"color": "red", "size": "S"}),
		variation(2, models.StockInStock, true, qty(2), map[string]string{"color": "red", "size": "M"}),
	}
	holds := HeldIndex{1: 2, 2: 2}

	groups := ClassifyDomain(BuildDomain(vars), vars, holds)
	require.Len(t, groups, 2)

	color := groups[0]
	assert.Equal(t, "color", color.Key)
	assert.Equal(t, "Color", color.Label)
	require.Len(t, color.Swatches, 1)
	sw := color.Swatches[0]
	assert.Equal(t, StatusHeld, sw.Status)
	assert.True(t, sw.Selectable)
	assert.True(t, sw.Faded)
	assert.False(t, sw.HeldRedirect)

	size := groups[1]
	for _, sw := range size.Swatches {
		assert.Equal(t, StatusHeld, sw.Status)
		assert.True(t, sw.HeldRedirect)
		assert.False(t, sw.Selectable)
	}
}

func TestClassifyDomain_MultiValueStates(t *testing.T) {
	vars := []models.Variation{
		variation(1, models.StockInStock, true, qty(3), map[string]string{"size": "L"}),
		variation(2, models.StockOutOfStock, true, qty(0), map[string]string{"size": "M"}),
		variation(3, models.StockInStock, true, qty(1), map[string]string{"size": "S"}),
	}
	groups := ClassifyDomain(BuildDomain(vars), vars, HeldIndex{3: 1})
	require.Len(t, groups, 1)

	l, _ := groups[0].Swatch("L")
	m, _ := groups[0].Swatch("M")
	s, _ := groups[0].Swatch("S")

	assert.True(t, l.Selectable)
	assert.False(t, l.Faded)
	assert.False(t, m.Selectable)
	assert.False(t, m.HeldRedirect)
	assert.Equal(t, StatusOutOfStock, m.Status)
	assert.True(t, s.HeldRedirect)
	assert.Equal(t, 1, s.Held)
}

func TestResolve(t *testing.T) {
	vars := []models.Variation{
		{ID: 7, Attributes: map[string]string{"size": "M", "color": "Red"}},
		{ID: 8, Attributes: map[string]string{"size": "M", "color": "Blue"}},
	}
	d := BuildDomain(vars)

	v, ok := Resolve(Selection{"size": "M", "color": "Red"}, d, vars)
	require.True(t, ok)
	assert.Equal(t, int64(7), v.ID)

	_, ok = Resolve(Selection{"size": "M", "color": "Green"}, d, vars)
	assert.False(t, ok)

	_, ok = Resolve(Selection{"size": "M"}, d, vars)
	assert.False(t, ok, "incomplete selection never resolves")
}

func TestResolve_IgnoresStock(t *testing.T) {
	vars := []models.Variation{variation(4, models.StockOutOfStock, true, qty(0), map[string]string{"size": "S"})}
	v, ok := Resolve(Selection{"size": "S"}, BuildDomain(vars), vars)
	require.True(t, ok)
	assert.Equal(t, int64(4), v.ID)
}

func TestEvaluate(t *testing.T) {
	vars := []models.Variation{
		variation(1, models.StockInStock, true, qty(3), map[string]string{"size": "S", "color": "red"}),
		variation(2, models.StockOutOfStock, true, qty(0), map[string]string{"size": "M", "color": "red"}),
		variation(3, models.StockInStock, true, qty(2), map[string]string{"size": "M", "color": "blue"}),
	}
	d := BuildDomain(vars)
	holds := HeldIndex{1: 1, 3: 2}

	tests := []struct {
		name    string
		sel     Selection
		state   State
		price   string
		message string
		canAdd  bool
	}{
		{"incomplete", Selection{"size": "S"}, StateIncomplete, "Select options", "Select options", false},
		{"not sold", Selection{"size": "S", "color": "blue"}, StateNotAvailable, "N/A", "Combination not available", false},
		{"out of stock", Selection{"size": "M", "color": "red"}, StateOutOfStock, "$10.00", "Out of Stock", false},
		{"held away", Selection{"size": "M", "color": "blue"}, StateOutOfStock, "$10.00", "Out of Stock", false},
		{"purchasable", Selection{"size": "S", "color": "red"}, StatePurchasable, "$10.00", "In Stock", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Evaluate(tt.sel, d, vars, holds, "$")
			assert.Equal(t, tt.state, out.State)
			assert.Equal(t, tt.price, out.PriceLabel)
			assert.Equal(t, tt.message, out.Message)
			assert.Equal(t, tt.canAdd, out.CanAdd)
		})
	}

	out := Evaluate(Selection{"size": "S", "color": "red"}, d, vars, holds, "$")
	require.NotNil(t, out.Available)
	assert.Equal(t, 2, *out.Available)
	assert.Equal(t, 1, out.Held)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Size", FormatAttributeName("pa_size"))
	assert.Equal(t, "Shoe Size", FormatAttributeName("attribute_pa_shoe-size"))
	assert.Equal(t, "Extra Large", FormatAttributeValue("extra-large"))
	assert.Equal(t, "$12.50", FormatPrice("12.5", "$"))
	assert.Equal(t, "N/A", FormatPrice("", "$"))
	assert.Equal(t, "N/A", FormatPrice("free", "$"))

	d := Domain{"pa_size": {"m"}, "pa_color": {"dark-red"}}
	v := models.Variation{Attributes: map[string]string{"pa_size": "m", "pa_color": "dark-red"}}
	assert.Equal(t, "Tee - Dark Red, M", ItemName("Tee", d, v))
	assert.Equal(t, "Mug", ItemName("Mug", Domain{}, models.Variation{}))
}
