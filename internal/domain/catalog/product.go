// Package catalog provides the product catalog as the order-entry screen sees it:
// products synced from SAP and the index that answers cascade option queries.
package catalog

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// TypeOthers is the type given to products whose name carries no pack size.
const TypeOthers = "Others"

// Product is one catalog entry. Numeric factors missing in the source are zero.
type Product struct {
	ID       int64  `json:"id"`
	ItemCode string `json:"itemCode"`
	ItemName string `json:"itemName"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Variety  string `json:"variety"`

	// Type is the pack size parsed from ItemName ("1 LTR", "500 ML") or TypeOthers.
	Type string `json:"type"`

	// PiecesPerCase is SAP sal_factor2.
	PiecesPerCase decimal.Decimal `json:"piecesPerCase"`

	// PackUnit is SAP sal_pack_unit: litres in one case.
	PackUnit decimal.Decimal `json:"packUnit"`

	// TaxRate is a percentage (18 means 18%).
	TaxRate decimal.Decimal `json:"taxRate"`
}

// Source fetches the full catalog once per session.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

var (
	packSizePattern = regexp.MustCompile(
		`(\d+(?:\.\d+)?\s*(?:LTR|LITRE|LITER|L|ML|KG|KGS|GM|GMS|GRAM|G|PCS|PC|POUCH|TIN|JAR|BTL|CAN|BOTTLE|PACK|PKT|BOX)S?)\b`)
	digitLetter = regexp.MustCompile(`(\d)([A-Z])`)
)

// ExtractType returns the first pack-size token of an item name, normalised
// to "<number> <UNIT>", or "" when the name has none.
func ExtractType(itemName string) string {
	if itemName == "" {
		return ""
	}
	m := packSizePattern.FindStringSubmatch(strings.ToUpper(itemName))
	if m == nil {
		return ""
	}
	return digitLetter.ReplaceAllString(strings.TrimSpace(m[1]), "$1 $2")
}

// TypeOf is ExtractType with TypeOthers for names without a size token.
func TypeOf(itemName string) string {
	if t := ExtractType(itemName); t != "" {
		return t
	}
	return TypeOthers
}

// Normalize trims the cascade fields and fills Type from the item name
// when the source did not provide one.
func (p Product) Normalize() Product {
	p.ItemCode = strings.TrimSpace(p.ItemCode)
	p.Category = strings.TrimSpace(p.Category)
	p.Brand = strings.TrimSpace(p.Brand)
	p.Variety = strings.TrimSpace(p.Variety)
	p.Type = strings.TrimSpace(p.Type)
	if p.Type == "" {
		p.Type = TypeOf(p.ItemName)
	}
	return p
}

// reachable reports whether every cascade level is filled, i.e. the product
// can be reached by walking category, brand, variety and type.
func (p Product) reachable() bool {
	return p.Category != "" && p.Brand != "" && p.Variety != "" && p.Type != ""
}
