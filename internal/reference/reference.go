// Package reference serves the static pick lists of the quoting form:
// vehicle brands, export currencies and shipping ports.
package reference

import (
	"sort"
	"strings"
)

// Brand is a selectable vehicle make. Value is the key sent to lookup
// providers; Label is the display text.
type Brand struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Currency is a supported quote currency.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Port is a departure or destination port; Group is its regional heading.
type Port struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// Brands returns every brand in display order. A brand may appear both
// under HotCategory and under its initial.
func Brands() []Brand {
	return append([]Brand(nil), brands...)
}

// SearchBrands filters brands whose label or value contains term, ignoring
// case. An empty term returns every brand.
func SearchBrands(term string) []Brand {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return Brands()
	}
	out := []Brand{}
	for _, b := range brands {
		if strings.Contains(strings.ToLower(b.Label), term) || strings.Contains(strings.ToLower(b.Value), term) {
			out = append(out, b)
		}
	}
	return out
}

// Categories returns the categories present in list, HotCategory first and
// the rest in lexical order.
func Categories(list []Brand) []string {
	seen := map[string]bool{}
	var cats []string
	hot := false
	for _, b := range list {
		if b.Category == HotCategory {
			hot = true
			continue
		}
		if !seen[b.Category] {
			seen[b.Category] = true
			cats = append(cats, b.Category)
		}
	}
	sort.Strings(cats)
	if hot {
		cats = append([]string{HotCategory}, cats...)
	}
	return cats
}

// MatchBrand maps a free-form make name (as returned by a recognition
// service) onto a known brand. It accepts the brand value, the full label,
// either half of a "中文 (English)" label, or any text containing one of
// those. ok is false when nothing matches.
func MatchBrand(name string) (b Brand, ok bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return Brand{}, false
	}
	for _, b := range brands {
		for _, alias := range aliases(b) {
			if q == alias {
				return b, true
			}
		}
	}
	// Longest contained alias wins. Short aliases such as "ds" or "mg" only
	// match exactly.
	best, bestLen := Brand{}, 0
	for _, b := range brands {
		for _, alias := range aliases(b) {
			if len(alias) >= 3 && len(alias) > bestLen && strings.Contains(q, alias) {
				best, bestLen = b, len(alias)
			}
		}
	}
	return best, bestLen > 0
}

func aliases(b Brand) []string {
	label := strings.ToLower(b.Label)
	out := []string{strings.ToLower(b.Value), label}
	if i := strings.Index(label, "("); i >= 0 {
		if zh := strings.TrimSpace(label[:i]); zh != "" {
			out = append(out, zh)
		}
		en := strings.TrimSuffix(strings.TrimSpace(label[i+1:]), ")")
		if en != "" {
			out = append(out, en)
		}
	}
	return out
}

// Currencies returns the supported quote currencies.
func Currencies() []Currency {
	return append([]Currency(nil), currencies...)
}

// LookupCurrency finds a currency by ISO code, ignoring case.
func LookupCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// DeparturePorts returns the Chinese export sea and land ports.
func DeparturePorts() []Port {
	return append([]Port(nil), departurePorts...)
}

// DestinationPorts returns the destination ports grouped by region.
func DestinationPorts() []Port {
	return append([]Port(nil), destinationPorts...)
}
