package entry

import (
	"context"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/domain/order"
	"orderdesk/internal/domain/party"
)

// SelectParty binds the party and loads its addresses. Choosing another party
// clears bill-to and ship-to; an address response for a party that has been
// replaced in the meantime is dropped. Choosing the bound party again is a
// no-op once its addresses have loaded, and a retry of the lookup before
// that. An empty card code unbinds the party.
func (s *Session) SelectParty(ctx context.Context, p party.Party) error {
	p.CardCode = trimmed(p.CardCode)

	s.mu.Lock()
	if cur := s.header.Party; cur != nil && cur.CardCode == p.CardCode && s.addressesLoaded {
		s.mu.Unlock()
		return nil
	}
	s.addressGen++
	s.addressesLoaded = false
	gen := s.addressGen
	s.header.BillTo = nil
	s.header.ShipTo = nil
	s.addressSet = party.AddressSet{}
	if p.CardCode == "" {
		s.header.Party = nil
		s.mu.Unlock()
		return nil
	}
	s.header.Party = &p
	src := s.addresses
	if src == nil {
		s.addressesLoaded = true
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	set, err := src.Addresses(ctx, p.CardCode)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.addressGen {
		return s.dropStale(ctx, apperror.NewStaleSelection(gen, s.addressGen))
	}
	if err != nil {
		return err
	}
	s.addressSet = set
	s.addressesLoaded = true
	return nil
}

// Addresses returns the address choices of the bound party.
func (s *Session) Addresses() party.AddressSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addressSet
}

// SelectBillTo picks a bill-to address from the loaded set.
func (s *Session) SelectBillTo(addressID int64) error {
	return s.selectAddress(party.AddressBillTo, addressID)
}

// SelectShipTo picks a ship-to address from the loaded set.
func (s *Session) SelectShipTo(addressID int64) error {
	return s.selectAddress(party.AddressShipTo, addressID)
}

func (s *Session) selectAddress(kind party.AddressType, addressID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	field := "bill_to"
	if kind == party.AddressShipTo {
		field = "ship_to"
	}
	a, ok := s.addressSet.Find(kind, addressID)
	if !ok {
		return apperror.NewValidation("address is not a valid option").
			WithDetail("field", field).
			WithDetail("value", addressID)
	}
	if kind == party.AddressShipTo {
		s.header.ShipTo = &a
	} else {
		s.header.BillTo = &a
	}
	return nil
}

// SetDispatch sets the dispatch location; nil unsets it.
func (s *Session) SetDispatch(d *party.Dispatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d == nil {
		s.header.Dispatch = nil
		return
	}
	cp := *d
	s.header.Dispatch = &cp
}

// SetCompany sets the selling company.
func (s *Session) SetCompany(company string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header.Company = trimmed(company)
}

// SetPONumber sets the customer's PO number.
func (s *Session) SetPONumber(po string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header.PONumber = trimmed(po)
}

// Header returns a copy of the order header.
func (s *Session) Header() order.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.header
	if h.Party != nil {
		p := *h.Party
		h.Party = &p
	}
	if h.BillTo != nil {
		a := *h.BillTo
		h.BillTo = &a
	}
	if h.ShipTo != nil {
		a := *h.ShipTo
		h.ShipTo = &a
	}
	if h.Dispatch != nil {
		d := *h.Dispatch
		h.Dispatch = &d
	}
	return h
}
