package order

import (
	"github.com/shopspring/decimal"

	"orderdesk/internal/core/id"
)

// Accumulator is the ordered list of confirmed lines. Totals are summed on
// every call; nothing is cached.
type Accumulator struct {
	lines []LineItem
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add appends a confirmed line.
func (a *Accumulator) Add(line LineItem) {
	a.lines = append(a.lines, line)
}

// Confirm validates c, appends the resulting line and returns it.
func (a *Accumulator) Confirm(c Candidate) (LineItem, error) {
	line, err := NewLineItem(c)
	if err != nil {
		return LineItem{}, err
	}
	a.Add(line)
	return line, nil
}

// Remove drops the line with lineID. Unknown ids are ignored.
func (a *Accumulator) Remove(lineID id.ID) {
	for i, l := range a.lines {
		if l.ID == lineID {
			a.lines = append(a.lines[:i:i], a.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy in insertion order.
func (a *Accumulator) Lines() []LineItem {
	out := make([]LineItem, len(a.lines))
	copy(out, a.lines)
	return out
}

// Len returns the number of lines.
func (a *Accumulator) Len() int { return len(a.lines) }

// Clear removes every line.
func (a *Accumulator) Clear() { a.lines = nil }

// GrandTotal is the sum of line totals.
func (a *Accumulator) GrandTotal() decimal.Decimal {
	return a.sum(func(l LineItem) decimal.Decimal { return l.Total })
}

// TaxTotal is the sum of line tax amounts.
func (a *Accumulator) TaxTotal() decimal.Decimal {
	return a.sum(func(l LineItem) decimal.Decimal { return l.Tax })
}

// TotalQuantity is the number of cases over all lines.
func (a *Accumulator) TotalQuantity() decimal.Decimal {
	return a.sum(func(l LineItem) decimal.Decimal { return l.Quantity })
}

// TotalLitres is the volume over all lines.
func (a *Accumulator) TotalLitres() decimal.Decimal {
	return a.sum(func(l LineItem) decimal.Decimal { return l.Litres })
}

func (a *Accumulator) sum(field func(LineItem) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range a.lines {
		total = total.Add(field(l))
	}
	return total
}
