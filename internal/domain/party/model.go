// Package party holds the order header's business partners: parties, their
// bill-to and ship-to addresses, and dispatch locations.
package party

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Party is a customer synced from SAP.
type Party struct {
	CardCode string `json:"card_code" db:"card_code"`
	CardName string `json:"card_name" db:"card_name"`
	Address  string `json:"address" db:"address"`
	State    string `json:"state" db:"state"`
}

// Label renders "Name (CODE)" as shown in the party picker.
func (p Party) Label() string {
	return fmt.Sprintf("%s (%s)", p.CardName, p.CardCode)
}

// AddressType is SAP's address kind.
type AddressType string

const (
	AddressBillTo AddressType = "B"
	AddressShipTo AddressType = "S"
)

// Address is one party address. The fallback entry built from the party
// itself has ID 0.
type Address struct {
	ID          int64       `json:"id" db:"id"`
	AddressID   string      `json:"address_id" db:"address_id"`
	Type        AddressType `json:"address_type" db:"address_type"`
	GSTNumber   string      `json:"gst_number" db:"gst_number"`
	FullAddress string      `json:"full_address" db:"full_address"`
}

const labelAddressRunes = 30

// Label renders "ADDRESS_ID - first 30 chars..." or just the address id when
// there is no address text.
func (a Address) Label() string {
	text := strings.TrimSpace(a.FullAddress)
	if text == "" {
		return a.AddressID
	}
	if utf8.RuneCountInString(text) > labelAddressRunes {
		text = string([]rune(text)[:labelAddressRunes])
	}
	return a.AddressID + " - " + text + "..."
}

// FallbackAddress is the single entry offered when a party has no address of
// a kind: the party's own address under its name.
func FallbackAddress(p Party, kind AddressType) Address {
	return Address{
		ID:          0,
		AddressID:   p.CardName,
		Type:        kind,
		FullAddress: p.Address,
	}
}

// AddressSet is what the header offers for one party.
type AddressSet struct {
	BillTo []Address `json:"bill_to"`
	ShipTo []Address `json:"ship_to"`

	// IsFallback is set when the party has no stored addresses at all and
	// both lists hold the fallback entry.
	IsFallback bool `json:"is_fallback"`
}

// Find returns the address with id from the list of the given kind.
func (s AddressSet) Find(kind AddressType, id int64) (Address, bool) {
	list := s.BillTo
	if kind == AddressShipTo {
		list = s.ShipTo
	}
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}

// ResolveAddresses builds the offered set from stored addresses (any order,
// both kinds mixed). A kind with no stored entry gets the party fallback.
// Unknown party (nil) with nothing stored gives empty lists.
func ResolveAddresses(p *Party, stored []Address) AddressSet {
	var set AddressSet
	for _, a := range stored {
		switch a.Type {
		case AddressBillTo:
			set.BillTo = append(set.BillTo, a)
		case AddressShipTo:
			set.ShipTo = append(set.ShipTo, a)
		}
	}

	if p == nil {
		if set.BillTo == nil {
			set.BillTo = []Address{}
		}
		if set.ShipTo == nil {
			set.ShipTo = []Address{}
		}
		return set
	}

	set.IsFallback = len(set.BillTo) == 0 && len(set.ShipTo) == 0
	if len(set.BillTo) == 0 {
		set.BillTo = []Address{FallbackAddress(*p, AddressBillTo)}
	}
	if len(set.ShipTo) == 0 {
		set.ShipTo = []Address{FallbackAddress(*p, AddressShipTo)}
	}
	return set
}

// Dispatch is a warehouse orders ship from.
type Dispatch struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Code string `json:"code" db:"code"`
	City string `json:"city" db:"city"`
}

// AddressSource loads the address set of a party.
type AddressSource interface {
	Addresses(ctx context.Context, cardCode string) (AddressSet, error)
}
