package variants

import "jpos/models"

// Status is the availability of one attribute value.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusHeld       Status = "held"
	StatusOutOfStock Status = "out_of_stock"
)

// Classification is the outcome of classifying one (attribute, value) pair.
// Held is the quantity reserved away when Status is StatusHeld.
type Classification struct {
	Status Status `json:"status"`
	Held   int    `json:"held,omitempty"`
}

// Classify scans every variation offering attributes[key] == value and
// returns the most permissive outcome observed. Nothing matching, or nothing
// in stock, is out of stock. Tracked stock that is positive but fully
// reserved by held carts is held. Untracked stock is never held.
func Classify(key, value string, vars []models.Variation, holds HeldIndex) Classification {
	out := Classification{Status: StatusOutOfStock}
	held := 0

	for _, v := range vars {
		if attr, ok := v.Attributes[key]; !ok || attr != value {
			continue
		}

		if !v.Tracked() {
			if v.InStock() {
				out.Status = StatusAvailable
			}
			continue
		}

		qty := *v.StockQuantity
		reserved := holds.Held(v.ID)
		effective := qty - reserved
		if effective <= 0 && qty > 0 {
			held += reserved
			if out.Status != StatusAvailable {
				out.Status = StatusHeld
			}
		}
		if v.InStock() && effective > 0 {
			out.Status = StatusAvailable
		}
	}

	if out.Status == StatusHeld {
		out.Held = held
	}
	return out
}

// Swatch is the rendering contract for one selectable attribute value.
type Swatch struct {
	Value        string `json:"value"`
	Label        string `json:"label"`
	Status       Status `json:"status"`
	Held         int    `json:"held,omitempty"`
	Selectable   bool   `json:"selectable"`
	Faded        bool   `json:"faded"`
	HeldRedirect bool   `json:"held_redirect"`
}

// Group is one attribute's control group.
type Group struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Swatches []Swatch `json:"swatches"`
}

// Swatch returns the swatch for value.
func (g Group) Swatch(value string) (Swatch, bool) {
	for _, s := range g.Swatches {
		if s.Value == value {
			return s, true
		}
	}
	return Swatch{}, false
}

// ClassifyDomain builds one group per attribute key in key order.
//
// An attribute with a single value is always rendered selectable (faded when
// not available) and never redirects to held carts: there is no alternative
// to steer the cashier to.
func ClassifyDomain(d Domain, vars []models.Variation, holds HeldIndex) []Group {
	groups := make([]Group, 0, len(d))
	for _, key := range d.Keys() {
		values := d[key]
		g := Group{Key: key, Label: FormatAttributeName(key), Swatches: make([]Swatch, 0, len(values))}
		for _, value := range values {
			c := Classify(key, value, vars, holds)
			s := Swatch{
				Value:  value,
				Label:  FormatAttributeValue(value),
				Status: c.Status,
				Held:   c.Held,
			}
			if len(values) == 1 {
				s.Selectable = true
				s.Faded = c.Status != StatusAvailable
			} else {
				s.Selectable = c.Status == StatusAvailable
				s.HeldRedirect = c.Status == StatusHeld
			}
			g.Swatches = append(g.Swatches, s)
		}
		groups = append(groups, g)
	}
	return groups
}
