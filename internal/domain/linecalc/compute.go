// Package linecalc derives a line's pack quantities and money from the chosen
// product and what the user typed.
package linecalc

import (
	"github.com/shopspring/decimal"

	"orderdesk/internal/core/types"
	"orderdesk/internal/domain/catalog"
)

// Factors are the per-case conversion factors of a product.
type Factors struct {
	PiecesPerCase decimal.Decimal
	PackUnit      decimal.Decimal
	TaxRate       decimal.Decimal
}

// FactorsOf reads the factors of p. A nil product yields zero factors.
func FactorsOf(p *catalog.Product) Factors {
	if p == nil {
		return Factors{}
	}
	return Factors{
		PiecesPerCase: p.PiecesPerCase,
		PackUnit:      p.PackUnit,
		TaxRate:       p.TaxRate,
	}
}

// Result holds the derived fields of one line.
type Result struct {
	Pieces decimal.Decimal `json:"pieces"`
	Litres decimal.Decimal `json:"litres"`
	Total  decimal.Decimal `json:"total"`
	Tax    decimal.Decimal `json:"tax"`
}

// IsZero reports whether every derived field is zero.
func (r Result) IsZero() bool {
	return r.Pieces.IsZero() && r.Litres.IsZero() && r.Total.IsZero() && r.Tax.IsZero()
}

var hundred = decimal.NewFromInt(100)

// Compute is the line formula:
//
//	pieces = qty × piecesPerCase
//	litres = round2(qty × packUnit)
//	total  = round2(qty × price)
//	tax    = round2(total × taxRate / 100)
//
// Tax is reported next to the total, never folded into it.
func Compute(f Factors, qty, price decimal.Decimal) Result {
	total := types.Round2(qty.Mul(price))
	return Result{
		Pieces: qty.Mul(f.PiecesPerCase),
		Litres: types.Round2(qty.Mul(f.PackUnit)),
		Total:  total,
		Tax:    types.Round2(total.Mul(f.TaxRate).Div(hundred)),
	}
}

// ComputeText runs Compute over raw user text. Empty or malformed text counts
// as zero.
func ComputeText(p *catalog.Product, qtyText, priceText string) Result {
	return Compute(FactorsOf(p), types.ParseOrZero(qtyText), types.ParseOrZero(priceText))
}
