// Package types holds the decimal helpers shared by the domain and the wire DTOs.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Bounds of a storable value. Order columns are NUMERIC(18,4) at most, so 14
// integer digits; fractions past MaxFractionDigits carry no meaning here.
const (
	MaxIntegerDigits  = 14
	MaxFractionDigits = 16
)

// InRange reports whether d fits the storage bounds. It looks only at the
// exponent and digit count, so huge exponents are rejected without being
// expanded.
func InRange(d decimal.Decimal) bool {
	if d.Exponent() < -MaxFractionDigits {
		return false
	}
	if d.IsZero() {
		return d.Exponent() <= MaxIntegerDigits
	}
	return d.NumDigits()+int(d.Exponent()) <= MaxIntegerDigits
}

// Parse reads user-typed numeric text. Surrounding spaces and a trailing
// decimal point ("12.") are accepted. Empty, non-numeric and out-of-range
// text is not.
func Parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".") {
		s = s[:len(s)-1]
	}
	if s == "" || s == "-" || s == "+" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !InRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// ParseOrZero is Parse with every failure mapped to zero. It never fails,
// so half-typed input can flow through the line computation.
func ParseOrZero(s string) decimal.Decimal {
	d, _ := Parse(s)
	return d
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Number is a decimal that travels as a bare JSON number.
// The order collaborator expects numbers, not the quoted strings
// decimal.Decimal produces by default.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d.
func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d}
}

// MarshalJSON encodes Number as a JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// UnmarshalJSON accepts a JSON number, a numeric string or null (zero).
// Values outside InRange are an error.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		n.Decimal = decimal.Zero
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			n.Decimal = decimal.Zero
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("parse number %q: %w", string(data), err)
	}
	if !InRange(d) {
		return fmt.Errorf("number %q out of range", string(data))
	}
	n.Decimal = d
	return nil
}
