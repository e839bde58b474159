package linecalc

import (
	"orderdesk/internal/domain/catalog"
)

// Line is the line being edited: the chosen product plus the raw quantity and
// price text. Every setter recomputes the whole Result from scratch, so no
// derived field can outlive the input it came from.
type Line struct {
	product     *catalog.Product
	quantity    string
	marketPrice string
	result      Result
}

// NewLine returns an empty line.
func NewLine() *Line {
	return &Line{}
}

// SetProduct binds p, or unbinds with nil. Typed quantity and price are kept.
func (l *Line) SetProduct(p *catalog.Product) {
	if p == nil {
		l.product = nil
	} else {
		cp := *p
		l.product = &cp
	}
	l.recompute()
}

// SetQuantity stores the quantity text as typed.
func (l *Line) SetQuantity(text string) {
	l.quantity = text
	l.recompute()
}

// SetMarketPrice stores the price text as typed.
func (l *Line) SetMarketPrice(text string) {
	l.marketPrice = text
	l.recompute()
}

// Reset clears product and inputs.
func (l *Line) Reset() {
	*l = Line{}
}

// Product returns a copy of the bound product.
func (l *Line) Product() (catalog.Product, bool) {
	if l.product == nil {
		return catalog.Product{}, false
	}
	return *l.product, true
}

func (l *Line) Quantity() string    { return l.quantity }
func (l *Line) MarketPrice() string { return l.marketPrice }
func (l *Line) Result() Result      { return l.result }

func (l *Line) recompute() {
	l.result = ComputeText(l.product, l.quantity, l.marketPrice)
}
