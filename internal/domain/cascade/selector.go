package cascade

import (
	"context"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/domain/catalog"
)

// Ticket tags an option fetch with the selection it was issued against.
// A ticket is honoured only while its generation is still current.
type Ticket struct {
	Generation uint64
	Selection  Selection
	Query      catalog.Query

	// Next is the level whose options the fetch fills in.
	Next Field

	// NeedsFetch is false for transitions that leave nothing to load
	// (clearing a level, picking the product).
	NeedsFetch bool
}

// Selector holds the cascade state and the option lists valid for it.
// Not safe for concurrent use; callers serialise access (see entry.Session).
type Selector struct {
	sel      Selection
	opts     catalog.Options
	gen      uint64
	products []catalog.Product

	// pending is the level whose options were asked for and have not
	// arrived yet; zero when nothing is owed.
	pending Field
}

// NewSelector returns an empty selector. Category options arrive with the
// first completed BeginLoad ticket.
func NewSelector() *Selector {
	return &Selector{}
}

// Selection returns a copy of the current selection.
func (s *Selector) Selection() Selection { return s.sel }

// State returns the current cascade position.
func (s *Selector) State() State { return s.sel.State() }

// Generation returns the current generation. Every state change bumps it.
func (s *Selector) Generation() uint64 { return s.gen }

// Pending reports the level whose options are still missing after the last
// ticket, e.g. because its fetch failed.
func (s *Selector) Pending() (Field, bool) {
	return s.pending, s.pending != 0
}

// Options returns the valid values for level f. For FieldProduct these are item codes.
func (s *Selector) Options(f Field) []string {
	switch f {
	case FieldCategory:
		return s.opts.Categories
	case FieldBrand:
		return s.opts.Brands
	case FieldVariety:
		return s.opts.Varieties
	case FieldType:
		return s.opts.Types
	case FieldProduct:
		codes := make([]string, 0, len(s.products))
		for _, p := range s.products {
			codes = append(codes, p.ItemCode)
		}
		return codes
	}
	return nil
}

// Products returns the products offered at the product level.
func (s *Selector) Products() []catalog.Product {
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product returns the chosen product in state ProductChosen.
func (s *Selector) Product() (catalog.Product, bool) {
	if s.sel.Product == "" {
		return catalog.Product{}, false
	}
	for _, p := range s.products {
		if p.ItemCode == s.sel.Product {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// Reset empties the selection. Category options are kept since they do not
// depend on any choice.
func (s *Selector) Reset() {
	s.gen++
	s.sel = Selection{}
	s.opts = catalog.Options{Categories: s.opts.Categories}
	s.products = nil
	s.pending = 0
}

// BeginLoad resets the selector and returns a ticket that (re)loads the
// category options.
func (s *Selector) BeginLoad() Ticket {
	s.Reset()
	s.pending = FieldCategory
	return Ticket{
		Generation: s.gen,
		Next:       FieldCategory,
		NeedsFetch: true,
	}
}

// Begin applies "f := v". A value absent from the current options of f is
// rejected with a validation error and leaves the state untouched; so does
// an unknown field. Assigning the value f already holds is a no-op and
// reports changed=false, unless the options below f never arrived: then a
// fresh ticket refetches them. An empty v clears f.
func (s *Selector) Begin(f Field, v string) (t Ticket, changed bool, err error) {
	if !f.Valid() {
		return Ticket{}, false, apperror.NewValidation("unknown cascade field").
			WithDetail("field", f.String())
	}
	if s.sel.Get(f) == v {
		if v == "" || s.pending != f+1 {
			return Ticket{}, false, nil
		}
		s.gen++
		return Ticket{
			Generation: s.gen,
			Selection:  s.sel,
			Query:      s.sel.Query(),
			Next:       f + 1,
			NeedsFetch: true,
		}, true, nil
	}
	if v != "" && !contains(s.Options(f), v) {
		return Ticket{}, false, apperror.NewValidation("value is not a valid option").
			WithDetail("field", f.String()).
			WithDetail("value", v)
	}

	s.gen++
	s.sel = Apply(s.sel, f, v)
	s.truncateBelow(f)

	t = Ticket{
		Generation: s.gen,
		Selection:  s.sel,
		Query:      s.sel.Query(),
		NeedsFetch: v != "" && f < FieldProduct,
	}
	s.pending = 0
	if t.NeedsFetch {
		t.Next = f + 1
		s.pending = t.Next
	}
	return t, true, nil
}

// Complete stores fetched options for t.Next. A ticket from an older
// generation is refused with a StaleSelection error and changes nothing.
func (s *Selector) Complete(t Ticket, opts catalog.Options) error {
	if t.Generation != s.gen {
		return apperror.NewStaleSelection(t.Generation, s.gen)
	}
	if !t.NeedsFetch {
		return nil
	}
	switch t.Next {
	case FieldCategory:
		s.opts.Categories = opts.Categories
	case FieldBrand:
		s.opts.Brands = opts.Brands
	case FieldVariety:
		s.opts.Varieties = opts.Varieties
	case FieldType:
		s.opts.Types = opts.Types
	case FieldProduct:
		s.products = opts.Products
	}
	s.pending = 0
	return nil
}

// Set runs Begin, the fetch and Complete in one go.
func (s *Selector) Set(ctx context.Context, filter catalog.Filterer, f Field, v string) error {
	t, changed, err := s.Begin(f, v)
	if err != nil || !changed || !t.NeedsFetch {
		return err
	}
	opts, err := filter.Filter(ctx, t.Query)
	if err != nil {
		return err
	}
	return s.Complete(t, opts)
}

// Load runs a BeginLoad ticket against filter.
func (s *Selector) Load(ctx context.Context, filter catalog.Filterer) error {
	t := s.BeginLoad()
	opts, err := filter.Filter(ctx, t.Query)
	if err != nil {
		return err
	}
	return s.Complete(t, opts)
}

// truncateBelow drops option lists that depended on the old value of f.
func (s *Selector) truncateBelow(f Field) {
	if f < FieldBrand {
		s.opts.Brands = nil
	}
	if f < FieldVariety {
		s.opts.Varieties = nil
	}
	if f < FieldType {
		s.opts.Types = nil
	}
	if f < FieldProduct {
		s.products = nil
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
