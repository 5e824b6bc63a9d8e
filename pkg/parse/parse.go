// Package parse holds the regex-based extractors for noisy storefront price
// and quantity text. Parse failures yield sentinel values (0.0 for prices,
// ok=false for quantities) rather than errors; callers skip such records.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	priceRe   = regexp.MustCompile(`\d+[.,]?\d*`)
	unitRe    = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ml|cl|l|g|kg|tk)`)
	perUnitRe = regexp.MustCompile(`(\d+[.,]\d+)`)
)

// Price returns the first decimal number found in text, accepting either a
// comma or a dot separator. Returns 0.0 when no number is present; 0.0
// doubles as the "unparseable" sentinel downstream.
func Price(text string) float64 {
	m := priceRe.FindString(text)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// UnitValue scans free text (typically a product name like "Pasta 500g") for
// a quantity+unit token and converts it into the target unit's base: liters
// for target "L", kilograms for target "kg". The second return is false when
// no token is found, meaning the package size is unknown, not zero.
func UnitValue(text, targetUnit string) (float64, bool) {
	m := unitRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	unit := strings.ToLower(m[2])
	if targetUnit == "L" {
		switch unit {
		case "ml":
			return value / 1000, true
		case "cl":
			return value / 100, true
		case "l":
			return value, true
		}
	} else {
		switch unit {
		case "g":
			return value / 1000, true
		case "kg":
			return value, true
		}
	}
	// Unit token present but outside the target dimension (e.g. "6tk"):
	// pass the raw value through, matching long-standing merge behavior.
	return value, true
}

// PricePerUnit extracts the decimal number from a unit-price label such as
// "(1.23 €/kg)". Returns 0.0 on failure, which callers treat as "compute
// price/size instead".
func PricePerUnit(text string) float64 {
	text = strings.Trim(text, "() ")
	m := perUnitRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}
