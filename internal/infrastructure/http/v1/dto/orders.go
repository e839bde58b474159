package dto

import (
	"orderdesk/internal/core/types"
	"orderdesk/internal/domain/catalog"
	"orderdesk/internal/domain/order"
	"orderdesk/internal/domain/party"
)

// --- Parties ---

// PartyOptions lists parties as {value: card_code, label: "Name (CODE)"}.
func PartyOptions(parties []party.Party) []Option {
	out := make([]Option, 0, len(parties))
	for _, p := range parties {
		out = append(out, Option{Label: p.Label(), Value: p.CardCode})
	}
	return out
}

// AddressesQuery binds GET /orders/addresses.
type AddressesQuery struct {
	CardCode string `form:"card_code" json:"card_code" binding:"notblank"`
}

// AddressResponse is one bill-to or ship-to entry.
type AddressResponse struct {
	ID          int64  `json:"id"`
	AddressID   string `json:"address_id"`
	AddressType string `json:"address_type"`
	GSTNumber   string `json:"gst_number"`
	FullAddress string `json:"full_address"`
	Label       string `json:"label"`
}

// AddressesResponse mirrors party.AddressSet.
type AddressesResponse struct {
	BillTo     []AddressResponse `json:"bill_to"`
	ShipTo     []AddressResponse `json:"ship_to"`
	IsFallback bool              `json:"is_fallback"`
}

// FromAddressSet converts a resolved address set.
func FromAddressSet(s party.AddressSet) AddressesResponse {
	return AddressesResponse{
		BillTo:     fromAddresses(s.BillTo),
		ShipTo:     fromAddresses(s.ShipTo),
		IsFallback: s.IsFallback,
	}
}

func fromAddresses(in []party.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(in))
	for _, a := range in {
		out = append(out, AddressResponse{
			ID:          a.ID,
			AddressID:   a.AddressID,
			AddressType: string(a.Type),
			GSTNumber:   a.GSTNumber,
			FullAddress: a.FullAddress,
			Label:       a.Label(),
		})
	}
	return out
}

// --- Catalog ---

// CatalogQuery binds the cascade query parameters.
type CatalogQuery struct {
	Category string `form:"category"`
	Brand    string `form:"brand"`
	Variety  string `form:"variety"`
	Type     string `form:"type"`
}

// ToQuery converts to a catalog query.
func (q CatalogQuery) ToQuery() catalog.Query {
	return catalog.Query{
		Category: q.Category,
		Brand:    q.Brand,
		Variety:  q.Variety,
		Type:     q.Type,
	}
}

// ProductFiltersResponse lists the options of every level below the query.
type ProductFiltersResponse struct {
	Categories []Option `json:"categories"`
	Brands     []Option `json:"brands"`
	Varieties  []Option `json:"varieties"`
	Types      []Option `json:"types"`
}

// FromOptions converts catalog options.
func FromOptions(o catalog.Options) ProductFiltersResponse {
	return ProductFiltersResponse{
		Categories: Options(o.Categories),
		Brands:     Options(o.Brands),
		Varieties:  Options(o.Varieties),
		Types:      Options(o.Types),
	}
}

// ProductResponse uses the SAP column names the clients already know.
type ProductResponse struct {
	ID          int64        `json:"id"`
	ItemCode    string       `json:"item_code"`
	ItemName    string       `json:"item_name"`
	Category    string       `json:"category"`
	Brand       string       `json:"brand"`
	Variety     string       `json:"variety"`
	Type        string       `json:"type"`
	SalFactor2  types.Number `json:"sal_factor2"`
	TaxRate     types.Number `json:"tax_rate"`
	SalPackUnit types.Number `json:"sal_pack_unit"`
}

// FromProducts converts catalog products.
func FromProducts(in []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(in))
	for _, p := range in {
		out = append(out, ProductResponse{
			ID:          p.ID,
			ItemCode:    p.ItemCode,
			ItemName:    p.ItemName,
			Category:    p.Category,
			Brand:       p.Brand,
			Variety:     p.Variety,
			Type:        p.Type,
			SalFactor2:  types.NewNumber(p.PiecesPerCase),
			TaxRate:     types.NewNumber(p.TaxRate),
			SalPackUnit: types.NewNumber(p.PackUnit),
		})
	}
	return out
}

// --- Create order ---

// CreateOrderRequest is the submitted draft.
type CreateOrderRequest struct {
	CardCode         string            `json:"card_code" binding:"notblank"`
	CardName         string            `json:"card_name"`
	BillToID         int64             `json:"bill_to_id"`
	BillToAddress    string            `json:"bill_to_address"`
	ShipToID         int64             `json:"ship_to_id"`
	ShipToAddress    string            `json:"ship_to_address"`
	DispatchFromID   int64             `json:"dispatch_from_id"`
	DispatchFromName string            `json:"dispatch_from_name"`
	Company          string            `json:"company"`
	PONumber         string            `json:"po_number"`
	Items            []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItem is one submitted line.
type CreateOrderItem struct {
	ItemCode    string       `json:"item_code" binding:"notblank"`
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

// ToPayload converts to the domain payload.
func (r CreateOrderRequest) ToPayload() order.CreateOrderPayload {
	p := order.CreateOrderPayload{
		CardCode:         r.CardCode,
		CardName:         r.CardName,
		BillToID:         r.BillToID,
		BillToAddress:    r.BillToAddress,
		ShipToID:         r.ShipToID,
		ShipToAddress:    r.ShipToAddress,
		DispatchFromID:   r.DispatchFromID,
		DispatchFromName: r.DispatchFromName,
		Company:          r.Company,
		PONumber:         r.PONumber,
		Items:            make([]order.PayloadItem, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		p.Items = append(p.Items, order.PayloadItem(it))
	}
	return p
}

// CreateOrderResponse answers a successful create.
type CreateOrderResponse struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`
	TotalAmount string `json:"total_amount"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// FromSubmitResult converts the service result.
func FromSubmitResult(r order.SubmitResult) CreateOrderResponse {
	return CreateOrderResponse{
		ID:          r.ID,
		OrderNumber: r.OrderNumber,
		TotalAmount: r.TotalAmount.StringFixed(2),
		Status:      r.Status,
		Message:     r.Message,
	}
}

// OrderResponse is a stored order.
type OrderResponse struct {
	ID               int64             `json:"id"`
	OrderNumber      string            `json:"order_number"`
	CardCode         string            `json:"card_code"`
	CardName         string            `json:"card_name"`
	BillToID         int64             `json:"bill_to_id"`
	BillToAddress    string            `json:"bill_to_address"`
	ShipToID         int64             `json:"ship_to_id"`
	ShipToAddress    string            `json:"ship_to_address"`
	DispatchFromID   int64             `json:"dispatch_from_id"`
	DispatchFromName string            `json:"dispatch_from_name"`
	Company          string            `json:"company"`
	PONumber         string            `json:"po_number"`
	TotalAmount      string            `json:"total_amount"`
	Status           string            `json:"status"`
	CreatedAt        string            `json:"created_at"`
	Items            []CreateOrderItem `json:"items"`
}

// FromOrder converts a stored order.
func FromOrder(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CardCode:         o.CardCode,
		CardName:         o.CardName,
		BillToID:         o.BillToID,
		BillToAddress:    o.BillToAddress,
		ShipToID:         o.ShipToID,
		ShipToAddress:    o.ShipToAddress,
		DispatchFromID:   o.DispatchFromID,
		DispatchFromName: o.DispatchFromName,
		Company:          o.Company,
		PONumber:         o.PONumber,
		TotalAmount:      o.TotalAmount.StringFixed(2),
		Status:           o.Status,
		CreatedAt:        o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Items:            make([]CreateOrderItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, CreateOrderItem{
			ItemCode:    it.ItemCode,
			ItemName:    it.ItemName,
			Category:    it.Category,
			Brand:       it.Brand,
			Variety:     it.Variety,
			ItemType:    it.ItemType,
			Qty:         types.NewNumber(it.Qty),
			Pcs:         types.NewNumber(it.Pcs),
			Boxes:       types.NewNumber(it.Boxes),
			Ltrs:        types.NewNumber(it.Ltrs),
			MarketPrice: types.NewNumber(it.MarketPrice),
			Total:       types.NewNumber(it.Total),
			TaxRate:     types.NewNumber(it.TaxRate),
		})
	}
	return resp
}
