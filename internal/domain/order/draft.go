package order

import (
	"strings"

	"github.com/shopspring/decimal"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/core/types"
	"orderdesk/internal/domain/party"
)

// Header is the order envelope minus its lines.
type Header struct {
	Party    *party.Party
	BillTo   *party.Address
	ShipTo   *party.Address
	Dispatch *party.Dispatch
	Company  string
	PONumber string
}

// Draft is a header with at least one line, ready for submission.
type Draft struct {
	Header Header
	Lines  []LineItem
}

// BuildDraft checks that a party is bound and there is at least one line,
// in that order.
func BuildDraft(h Header, lines []LineItem) (Draft, error) {
	if h.Party == nil || strings.TrimSpace(h.Party.CardCode) == "" {
		return Draft{}, apperror.NewFieldRequired("party")
	}
	if len(lines) == 0 {
		return Draft{}, apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	copied := make([]LineItem, len(lines))
	copy(copied, lines)
	return Draft{Header: h, Lines: copied}, nil
}

// Total is the sum of line totals.
func (d Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Total)
	}
	return total
}

// CreateOrderPayload is the body the order-creation endpoint accepts.
type CreateOrderPayload struct {
	CardCode         string        `json:"card_code"`
	CardName         string        `json:"card_name"`
	BillToID         int64         `json:"bill_to_id"`
	BillToAddress    string        `json:"bill_to_address"`
	ShipToID         int64         `json:"ship_to_id"`
	ShipToAddress    string        `json:"ship_to_address"`
	DispatchFromID   int64         `json:"dispatch_from_id"`
	DispatchFromName string        `json:"dispatch_from_name"`
	Company          string        `json:"company"`
	PONumber         string        `json:"po_number"`
	Items            []PayloadItem `json:"items"`
}

// PayloadItem is one line on the wire. Pcs carries the pieces-per-case
// factor and Boxes the derived piece count.
type PayloadItem struct {
	ItemCode    string       `json:"item_code"`
	ItemName    string       `json:"item_name"`
	Category    string       `json:"category"`
	Brand       string       `json:"brand"`
	Variety     string       `json:"variety"`
	ItemType    string       `json:"item_type"`
	Qty         types.Number `json:"qty"`
	Pcs         types.Number `json:"pcs"`
	Boxes       types.Number `json:"boxes"`
	Ltrs        types.Number `json:"ltrs"`
	MarketPrice types.Number `json:"market_price"`
	Total       types.Number `json:"total"`
	TaxRate     types.Number `json:"tax_rate"`
}

// Payload packages the draft. Unset addresses and dispatch go out as id 0
// with an empty label.
func (d Draft) Payload() CreateOrderPayload {
	p := CreateOrderPayload{
		Company:  d.Header.Company,
		PONumber: d.Header.PONumber,
		Items:    make([]PayloadItem, 0, len(d.Lines)),
	}
	if d.Header.Party != nil {
		p.CardCode = d.Header.Party.CardCode
		p.CardName = d.Header.Party.CardName
	}
	if a := d.Header.BillTo; a != nil {
		p.BillToID = a.ID
		p.BillToAddress = a.Label()
	}
	if a := d.Header.ShipTo; a != nil {
		p.ShipToID = a.ID
		p.ShipToAddress = a.Label()
	}
	if dp := d.Header.Dispatch; dp != nil {
		p.DispatchFromID = dp.ID
		p.DispatchFromName = dp.Name
	}

	for _, l := range d.Lines {
		p.Items = append(p.Items, PayloadItem{
			ItemCode:    l.ItemCode,
			ItemName:    l.ItemName,
			Category:    l.Category,
			Brand:       l.Brand,
			Variety:     l.Variety,
			ItemType:    l.Type,
			Qty:         types.NewNumber(l.Quantity),
			Pcs:         types.NewNumber(l.PiecesPerCase),
			Boxes:       types.NewNumber(l.Pieces),
			Ltrs:        types.NewNumber(l.Litres),
			MarketPrice: types.NewNumber(l.MarketPrice),
			Total:       types.NewNumber(l.Total),
			TaxRate:     types.NewNumber(l.TaxRate),
		})
	}
	return p
}
