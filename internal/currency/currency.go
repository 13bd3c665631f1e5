// Package currency converts and formats amounts across the fixed set of
// store currencies. All stored prices are expressed in the base currency;
// every conversion pivots through it.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Base is the canonical currency for stored prices.
const Base = "PEN"

// rates are multipliers relative to Base. The base rate is exactly 1.
var rates = map[string]float64{
	"PEN": 1,
	"USD": 0.27,
	"EUR": 0.25,
}

var locales = map[string]language.Tag{
	"PEN": language.MustParse("es-PE"),
	"USD": language.MustParse("en-US"),
	"EUR": language.MustParse("es-ES"),
}

var symbols = map[string]string{
	"PEN": "S/",
	"USD": "$",
	"EUR": "€",
}

// Rate returns the multiplier for code. Unknown codes act as identity.
func Rate(code string) float64 {
	if r, ok := rates[code]; ok {
		return r
	}
	return 1
}

// Rates returns a copy of the rate table.
func Rates() map[string]float64 {
	out := make(map[string]float64, len(rates))
	for k, v := range rates {
		out[k] = v
	}
	return out
}

// Known reports whether code is in the rate table.
func Known(code string) bool {
	_, ok := rates[code]
	return ok
}

// Convert translates amount from one currency to another through the base
// rate table. Unknown codes degrade to the identity multiplier.
func Convert(amount float64, from, to string) float64 {
	return amount / Rate(from) * Rate(to)
}

// Format renders amount as a display string in the given currency, with
// two fraction digits and the grouping rules of the currency's locale.
// Unknown currencies fall back to the base locale and symbol.
func Format(amount float64, code string) string {
	tag, ok := locales[code]
	if !ok {
		tag = locales[Base]
	}
	sym, ok := symbols[code]
	if !ok {
		sym = symbols[Base]
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%s %v", sym,
		number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
