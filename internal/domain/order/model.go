package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a stored sales order.
type Order struct {
	ID               int64           `db:"id"`
	OrderNumber      string          `db:"order_number"`
	CardCode         string          `db:"card_code"`
	CardName         string          `db:"card_name"`
	BillToID         int64           `db:"bill_to_id"`
	BillToAddress    string          `db:"bill_to_address"`
	ShipToID         int64           `db:"ship_to_id"`
	ShipToAddress    string          `db:"ship_to_address"`
	DispatchFromID   int64           `db:"dispatch_from_id"`
	DispatchFromName string          `db:"dispatch_from_name"`
	Company          string          `db:"company"`
	PONumber         string          `db:"po_number"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`

	Items []Item `db:"-"`
}

// Item is a stored order line.
type Item struct {
	ID          int64           `db:"id"`
	OrderID     int64           `db:"order_id"`
	ItemCode    string          `db:"item_code"`
	ItemName    string          `db:"item_name"`
	Category    string          `db:"category"`
	Brand       string          `db:"brand"`
	Variety     string          `db:"variety"`
	ItemType    string          `db:"item_type"`
	Qty         decimal.Decimal `db:"qty"`
	Pcs         decimal.Decimal `db:"pcs"`
	Boxes       decimal.Decimal `db:"boxes"`
	Ltrs        decimal.Decimal `db:"ltrs"`
	MarketPrice decimal.Decimal `db:"market_price"`
	Total       decimal.Decimal `db:"total"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
}

// FromPayload maps an incoming payload onto a new order. Number, total and
// status are left for the service.
func FromPayload(p CreateOrderPayload) *Order {
	o := &Order{
		CardCode:         p.CardCode,
		CardName:         p.CardName,
		BillToID:         p.BillToID,
		BillToAddress:    p.BillToAddress,
		ShipToID:         p.ShipToID,
		ShipToAddress:    p.ShipToAddress,
		DispatchFromID:   p.DispatchFromID,
		DispatchFromName: p.DispatchFromName,
		Company:          p.Company,
		PONumber:         p.PONumber,
		Items:            make([]Item, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		o.Items = append(o.Items, Item{
			ItemCode:    it.ItemCode,
			ItemName:    it.ItemName,
			Category:    it.Category,
			Brand:       it.Brand,
			Variety:     it.Variety,
			ItemType:    it.ItemType,
			Qty:         it.Qty.Decimal,
			Pcs:         it.Pcs.Decimal,
			Boxes:       it.Boxes.Decimal,
			Ltrs:        it.Ltrs.Decimal,
			MarketPrice: it.MarketPrice.Decimal,
			Total:       it.Total.Decimal,
			TaxRate:     it.TaxRate.Decimal,
		})
	}
	return o
}

// ItemsTotal sums the item totals, rounded to cents.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Total)
	}
	return total.Round(2)
}
