package variants

import "jpos/models"

// Selection is the transient attributeKey → value choice of one open
// selection surface.
type Selection map[string]string

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Complete reports whether every key of the domain has a chosen value.
func (s Selection) Complete(d Domain) bool {
	for key := range d {
		if s[key] == "" {
			return false
		}
	}
	return true
}

// Resolve finds the variation whose attributes match the selection on every
// domain key. It does not look at stock.
func Resolve(sel Selection, d Domain, vars []models.Variation) (models.Variation, bool) {
	if !sel.Complete(d) {
		return models.Variation{}, false
	}
	for _, v := range vars {
		if matches(v, sel, d) {
			return v, true
		}
	}
	return models.Variation{}, false
}

func matches(v models.Variation, sel Selection, d Domain) bool {
	for key := range d {
		if v.Attributes[key] != sel[key] {
			return false
		}
	}
	return true
}

// State is the purchasability of the current selection.
type State string

const (
	StateIncomplete   State = "incomplete"
	StateNotAvailable State = "not_available"
	StateOutOfStock   State = "out_of_stock"
	StatePurchasable  State = "purchasable"
)

// Outcome is what the selection surface shows for the current selection.
type Outcome struct {
	State      State             `json:"state"`
	Variation  *models.Variation `json:"variation,omitempty"`
	PriceLabel string            `json:"price_label"`
	Message    string            `json:"message"`
	Available  *int              `json:"available,omitempty"`
	Held       int               `json:"held,omitempty"`
	CanAdd     bool              `json:"can_add"`
}

// Purchasable reports whether a variation can be sold right now, counting
// stock reserved by held carts against tracked quantities.
func Purchasable(v models.Variation, holds HeldIndex) bool {
	if !v.InStock() {
		return false
	}
	if !v.Tracked() {
		return true
	}
	return *v.StockQuantity-holds.Held(v.ID) > 0
}

// Evaluate resolves the selection and reports its purchasability.
func Evaluate(sel Selection, d Domain, vars []models.Variation, holds HeldIndex, currency string) Outcome {
	if !sel.Complete(d) {
		return Outcome{State: StateIncomplete, PriceLabel: "Select options", Message: "Select options"}
	}

	v, ok := Resolve(sel, d, vars)
	if !ok {
		return Outcome{State: StateNotAvailable, PriceLabel: "N/A", Message: "Combination not available"}
	}

	out := Outcome{
		Variation:  &v,
		PriceLabel: FormatPrice(v.Price, currency),
		Held:       holds.Held(v.ID),
	}
	if v.Tracked() {
		avail := *v.StockQuantity - out.Held
		if avail < 0 {
			avail = 0
		}
		out.Available = &avail
	}

	if Purchasable(v, holds) {
		out.State = StatePurchasable
		out.Message = "In Stock"
		out.CanAdd = true
	} else {
		out.State = StateOutOfStock
		out.Message = "Out of Stock"
	}
	return out
}
