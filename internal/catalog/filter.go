package catalog

import (
	"strconv"
	"strings"

	"unishop/internal/currency"
)

// CategoryAll is the sentinel meaning "no category constraint".
const CategoryAll = "all"

// FilterSpec describes one catalog query. Price bounds are entered in the
// display currency and converted to the base currency before comparison;
// blank or non-numeric bounds impose no constraint.
type FilterSpec struct {
	SearchTerm    string   `json:"searchTerm"`
	Category      string   `json:"category"`
	MinPrice      string   `json:"minPrice"`
	MaxPrice      string   `json:"maxPrice"`
	Tags          []string `json:"tags"`
	OnlyAvailable bool     `json:"onlyAvailable"`
}

// DefaultFilterSpec returns the spec with every field at its default;
// resetting filters restores exactly this value.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		SearchTerm: "",
		Category:   CategoryAll,
		MinPrice:   "",
		MaxPrice:   "",
		Tags:       []string{},
	}
}

// parseBound turns a raw price bound in displayCurrency into a base-currency
// value. The second return is false when the bound imposes no constraint.
func parseBound(raw, displayCurrency string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return currency.Convert(v, displayCurrency, currency.Base), true
}

// Filter returns the subset of products matching spec. All predicates
// combine with AND and the input order is preserved. displayCurrency is
// the currency the user typed price bounds in.
func Filter(products []Producto, spec FilterSpec, displayCurrency string) []Producto {
	term := strings.ToLower(strings.TrimSpace(spec.SearchTerm))
	min, hasMin := parseBound(spec.MinPrice, displayCurrency)
	max, hasMax := parseBound(spec.MaxPrice, displayCurrency)

	activeTags := make([]string, 0, len(spec.Tags))
	for _, tag := range NormalizeTags(spec.Tags) {
		activeTags = append(activeTags, strings.ToLower(tag))
	}

	out := []Producto{}
	for _, p := range products {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Nombre), term) &&
			!strings.Contains(strings.ToLower(p.Categoria), term) {
			continue
		}
		if spec.Category != "" && spec.Category != CategoryAll && p.Categoria != spec.Category {
			continue
		}
		if hasMin && p.Precio < min {
			continue
		}
		if hasMax && p.Precio > max {
			continue
		}
		if spec.OnlyAvailable && p.Stock <= 0 {
			continue
		}
		if !hasAllTags(p.Etiquetas, activeTags) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasAllTags(have []string, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, tag := range have {
		set[strings.ToLower(tag)] = struct{}{}
	}
	for _, tag := range want {
		if _, ok := set[tag]; !ok {
			return false
		}
	}
	return true
}
