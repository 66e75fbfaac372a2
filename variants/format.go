package variants

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jpos/models"
)

var titler = cases.Title(language.Und)

// FormatAttributeName turns a stored attribute key such as "pa_shoe-size" or
// "attribute_pa_color" into a display label.
func FormatAttributeName(key string) string {
	name := strings.TrimPrefix(key, "attribute_")
	name = strings.TrimPrefix(name, "pa_")
	return humanize(name)
}

// FormatAttributeValue turns a value slug into a display label.
func FormatAttributeValue(value string) string {
	return humanize(value)
}

func humanize(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return titler.String(strings.Join(strings.Fields(s), " "))
}

// FormatPrice renders a price string with two decimals. Empty or invalid
// prices render as "N/A".
func FormatPrice(price, currency string) string {
	if strings.TrimSpace(price) == "" {
		return "N/A"
	}
	d := models.ParsePrice(price)
	if d.IsZero() && strings.Trim(price, "0. ") != "" {
		return "N/A"
	}
	return currency + d.StringFixed(2)
}

// ItemName is the cart line name: "<product> - <values>", with values in
// attribute key order.
func ItemName(productName string, d Domain, v models.Variation) string {
	values := make([]string, 0, len(v.Attributes))
	for _, key := range d.Keys() {
		if value := v.Attributes[key]; value != "" {
			values = append(values, FormatAttributeValue(value))
		}
	}
	if len(values) == 0 {
		return productName
	}
	return productName + " - " + strings.Join(values, ", ")
}
