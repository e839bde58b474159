// Package order holds confirmed line items, their accumulation into an order
// draft, the submission payload and the service that stores submitted orders.
package order

import (
	"strings"

	"github.com/shopspring/decimal"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/core/id"
	"orderdesk/internal/core/types"
	"orderdesk/internal/domain/catalog"
	"orderdesk/internal/domain/linecalc"
)

// LineItem is a confirmed order line. Descriptive fields are a snapshot taken
// at confirmation; later catalog changes do not touch them.
type LineItem struct {
	ID id.ID `json:"id"`

	ItemCode string `json:"itemCode"`
	ItemName string `json:"itemName"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Variety  string `json:"variety"`
	Type     string `json:"type"`

	// Quantity is in cases.
	Quantity      decimal.Decimal `json:"quantity"`
	PiecesPerCase decimal.Decimal `json:"piecesPerCase"`
	Pieces        decimal.Decimal `json:"pieces"`
	Litres        decimal.Decimal `json:"litres"`
	MarketPrice   decimal.Decimal `json:"marketPrice"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}

// Candidate is the line being confirmed: the cascade path, the bound product
// and the raw user input.
type Candidate struct {
	Category string
	Brand    string
	Variety  string
	Type     string

	Product *catalog.Product

	Quantity    string
	MarketPrice string
}

// NewLineItem validates c and snapshots it. Checks run in the order
// category, product, quantity, market price; the first failure is returned
// as a validation error naming the field.
func NewLineItem(c Candidate) (LineItem, error) {
	if strings.TrimSpace(c.Category) == "" {
		return LineItem{}, apperror.NewFieldRequired("category")
	}
	if c.Product == nil || c.Product.ItemCode == "" {
		return LineItem{}, apperror.NewFieldRequired("product")
	}

	qty, ok := types.Parse(c.Quantity)
	if !ok {
		return LineItem{}, apperror.NewFieldRequired("quantity")
	}
	if !qty.IsPositive() {
		return LineItem{}, apperror.NewValidation("quantity must be greater than zero").
			WithDetail("field", "quantity").
			WithDetail("value", c.Quantity)
	}

	price, ok := types.Parse(c.MarketPrice)
	if !ok {
		return LineItem{}, apperror.NewFieldRequired("market_price")
	}
	if price.IsNegative() {
		return LineItem{}, apperror.NewValidation("market price must not be negative").
			WithDetail("field", "market_price").
			WithDetail("value", c.MarketPrice)
	}

	p := *c.Product
	r := linecalc.Compute(linecalc.FactorsOf(&p), qty, price)

	return LineItem{
		ID:            id.New(),
		ItemCode:      p.ItemCode,
		ItemName:      p.ItemName,
		Category:      c.Category,
		Brand:         c.Brand,
		Variety:       c.Variety,
		Type:          c.Type,
		Quantity:      qty,
		PiecesPerCase: p.PiecesPerCase,
		Pieces:        r.Pieces,
		Litres:        r.Litres,
		MarketPrice:   price,
		TaxRate:       p.TaxRate,
		Tax:           r.Tax,
		Total:         r.Total,
	}, nil
}
