package variants

import (
	"sort"

	"jpos/models"
)

// Domain holds, per attribute key, the distinct values offered across a
// product's variations in lexicographic order.
type Domain map[string][]string

// BuildDomain collects the attribute domain of the given variations.
// No variations yields an empty domain.
func BuildDomain(vars []models.Variation) Domain {
	seen := make(map[string]map[string]struct{})
	for _, v := range vars {
		for key, value := range v.Attributes {
			if seen[key] == nil {
				seen[key] = make(map[string]struct{})
			}
			seen[key][value] = struct{}{}
		}
	}

	d := make(Domain, len(seen))
	for key, values := range seen {
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		sort.Strings(list)
		d[key] = list
	}
	return d
}

// Keys returns the attribute keys in lexicographic order.
func (d Domain) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether value belongs to the domain of key.
func (d Domain) Has(key, value string) bool {
	for _, v := range d[key] {
		if v == value {
			return true
		}
	}
	return false
}

// Empty reports whether there is nothing to choose from.
func (d Domain) Empty() bool {
	return len(d) == 0
}
