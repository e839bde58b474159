// Package entry is the order-entry session: one owned value holding the
// header, the cascade, the line being edited and the confirmed lines.
//
// Methods are safe to call from several goroutines. The lock is released
// while a fetch is in flight; results that come back for a superseded
// selection or party are dropped with a StaleSelection error.
package entry

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/core/id"
	"orderdesk/internal/domain/cascade"
	"orderdesk/internal/domain/catalog"
	"orderdesk/internal/domain/linecalc"
	"orderdesk/internal/domain/order"
	"orderdesk/internal/domain/party"
	"orderdesk/pkg/logger"
)

// Config wires a Session to its collaborators.
type Config struct {
	// Catalog is fetched once by LoadCatalog and indexed in memory.
	// Leave nil when Filter already answers option queries.
	Catalog catalog.Source

	// Filter answers option queries when Catalog is nil.
	Filter catalog.Filterer

	Addresses party.AddressSource
	Submitter order.Submitter
}

// Summary is the accumulator's totals.
type Summary struct {
	Lines         int             `json:"lines"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	TotalLitres   decimal.Decimal `json:"totalLitres"`
}

// Session is one order being entered.
type Session struct {
	mu sync.Mutex

	source    catalog.Source
	filter    catalog.Filterer
	addresses party.AddressSource
	submitter order.Submitter

	loaded     bool
	submitting bool

	selector *cascade.Selector
	line     *linecalc.Line
	lines    *order.Accumulator

	header     order.Header
	addressSet party.AddressSet
	addressGen uint64

	// addressesLoaded is set once the bound party's lookup has succeeded.
	addressesLoaded bool
}

// NewSession creates an empty session. Call LoadCatalog before selecting.
func NewSession(cfg Config) *Session {
	return &Session{
		source:    cfg.Catalog,
		filter:    cfg.Filter,
		addresses: cfg.Addresses,
		submitter: cfg.Submitter,
		selector:  cascade.NewSelector(),
		line:      linecalc.NewLine(),
		lines:     order.NewAccumulator(),
	}
}

// LoadCatalog fetches the catalog (when a Source is configured) and loads the
// category options.
func (s *Session) LoadCatalog(ctx context.Context) error {
	if s.source != nil {
		ix, err := catalog.Load(ctx, s.source)
		if err != nil {
			return err
		}
		logger.Info(ctx, "catalog loaded", "products", ix.Len())
		s.mu.Lock()
		s.filter = ix
		s.mu.Unlock()
	}

	s.mu.Lock()
	filter := s.filter
	if filter == nil {
		s.mu.Unlock()
		return apperror.NewCatalogNotLoaded()
	}
	t := s.selector.BeginLoad()
	s.line.Reset()
	s.mu.Unlock()

	opts, err := filter.Filter(ctx, t.Query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.selector.Complete(t, opts); err != nil {
		return s.dropStale(ctx, err)
	}
	s.loaded = true
	return nil
}

// IsCatalogLoaded distinguishes "not ready" from "no matches".
func (s *Session) IsCatalogLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Select sets one cascade level; an empty value clears it. The options of the
// next level are fetched with the lock released. When that fetch fails the
// value stays chosen, and choosing it again retries the fetch.
func (s *Session) Select(ctx context.Context, f cascade.Field, value string) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return apperror.NewCatalogNotLoaded()
	}
	t, changed, err := s.selector.Begin(f, value)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.bindLineProduct()
	filter := s.filter
	s.mu.Unlock()

	if !t.NeedsFetch {
		return nil
	}

	opts, err := filter.Filter(ctx, t.Query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if t.Generation != s.selector.Generation() {
			return s.dropStale(ctx, apperror.NewStaleSelection(t.Generation, s.selector.Generation()))
		}
		return err
	}
	if err := s.selector.Complete(t, opts); err != nil {
		return s.dropStale(ctx, err)
	}
	return nil
}

// bindLineProduct mirrors the cascade's product into the line being edited,
// so a product change always recomputes (or clears) derived fields.
func (s *Session) bindLineProduct() {
	p, ok := s.selector.Product()
	if !ok {
		s.line.SetProduct(nil)
		return
	}
	s.line.SetProduct(&p)
}

// Selection returns the current cascade selection.
func (s *Session) Selection() cascade.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector.Selection()
}

// Options returns the valid values for level f.
func (s *Session) Options(f cascade.Field) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector.Options(f)
}

// Products returns the products offered at the product level.
func (s *Session) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector.Products()
}

// SetQuantity stores the typed quantity (cases).
func (s *Session) SetQuantity(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.line.SetQuantity(text)
}

// SetMarketPrice stores the typed price per case.
func (s *Session) SetMarketPrice(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.line.SetMarketPrice(text)
}

// Preview returns the derived fields of the line being edited.
func (s *Session) Preview() linecalc.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line.Result()
}

// ConfirmLine validates the line being edited and appends it. On success the
// cascade and line inputs are reset for the next item.
func (s *Session) ConfirmLine() (order.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardSubmitting(); err != nil {
		return order.LineItem{}, err
	}

	sel := s.selector.Selection()
	c := order.Candidate{
		Category:    sel.Category,
		Brand:       sel.Brand,
		Variety:     sel.Variety,
		Type:        sel.Type,
		Quantity:    s.line.Quantity(),
		MarketPrice: s.line.MarketPrice(),
	}
	if p, ok := s.selector.Product(); ok {
		c.Product = &p
	}

	line, err := s.lines.Confirm(c)
	if err != nil {
		return order.LineItem{}, err
	}

	s.selector.Reset()
	s.line.Reset()
	return line, nil
}

// RemoveLine drops a confirmed line. Unknown ids are ignored.
func (s *Session) RemoveLine(lineID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardSubmitting(); err != nil {
		return err
	}
	s.lines.Remove(lineID)
	return nil
}

// Lines returns the confirmed lines in order.
func (s *Session) Lines() []order.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.Lines()
}

// GrandTotal is the sum of confirmed line totals.
func (s *Session) GrandTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.GrandTotal()
}

// Summary returns all accumulator totals at once.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Lines:         s.lines.Len(),
		GrandTotal:    s.lines.GrandTotal(),
		TaxTotal:      s.lines.TaxTotal(),
		TotalQuantity: s.lines.TotalQuantity(),
		TotalLitres:   s.lines.TotalLitres(),
	}
}

// Clear discards header, cascade, inputs and confirmed lines.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardSubmitting(); err != nil {
		return err
	}
	s.resetLocked()
	return nil
}

func (s *Session) resetLocked() {
	s.header = order.Header{}
	s.addressSet = party.AddressSet{}
	s.addressGen++
	s.addressesLoaded = false
	s.selector.Reset()
	s.line.Reset()
	s.lines.Clear()
}

func (s *Session) guardSubmitting() error {
	if s.submitting {
		return apperror.NewValidation("order submission in progress")
	}
	return nil
}

func (s *Session) dropStale(ctx context.Context, err error) error {
	if apperror.IsStaleSelection(err) {
		logger.Debug(ctx, "dropped stale response", "error", err)
	}
	return err
}

func trimmed(v string) string { return strings.TrimSpace(v) }
