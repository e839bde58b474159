package catalog

import (
	"context"
)

// Query binds zero or more cascade levels. Levels are read as a prefix:
// the first empty level ends the bound part, anything after it is ignored.
type Query struct {
	Category string
	Brand    string
	Variety  string
	Type     string
}

// depth returns how many leading levels are bound.
func (q Query) depth() int {
	switch {
	case q.Category == "":
		return 0
	case q.Brand == "":
		return 1
	case q.Variety == "":
		return 2
	case q.Type == "":
		return 3
	default:
		return 4
	}
}

// Options lists the valid values for each level below the bound prefix.
// Lists for levels that are not yet queryable are empty.
type Options struct {
	Categories []string
	Brands     []string
	Varieties  []string
	Types      []string

	// Products is filled only when all four levels are bound.
	Products []Product
}

// Filterer answers cascade option queries. Index is the in-memory
// implementation; a remote implementation may be slow, which is why callers
// tag requests (see cascade.Ticket).
type Filterer interface {
	Filter(ctx context.Context, q Query) (Options, error)
}

// Index is an immutable in-memory view of the catalog. A nil or zero Index is
// "not loaded": every query returns empty options and IsLoaded is false, so
// callers can tell "not ready" from "no matches".
type Index struct {
	loaded   bool
	products []Product
	byCode   map[string]int
}

// NewIndex builds a loaded index. Products keep fetch order; for duplicate
// item codes the first occurrence wins.
func NewIndex(products []Product) *Index {
	ix := &Index{
		loaded:   true,
		products: make([]Product, 0, len(products)),
		byCode:   make(map[string]int, len(products)),
	}
	for _, p := range products {
		p = p.Normalize()
		if p.ItemCode == "" {
			continue
		}
		if _, dup := ix.byCode[p.ItemCode]; dup {
			continue
		}
		ix.byCode[p.ItemCode] = len(ix.products)
		ix.products = append(ix.products, p)
	}
	return ix
}

// Load fetches the catalog from src and builds an index.
func Load(ctx context.Context, src Source) (*Index, error) {
	products, err := src.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(products), nil
}

// IsLoaded reports whether the catalog fetch has completed.
func (ix *Index) IsLoaded() bool {
	return ix != nil && ix.loaded
}

// Len returns the number of indexed products.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.products)
}

// Product looks up a product by item code.
func (ix *Index) Product(itemCode string) (Product, bool) {
	if ix == nil {
		return Product{}, false
	}
	i, ok := ix.byCode[itemCode]
	if !ok {
		return Product{}, false
	}
	return ix.products[i], true
}

// Filter implements Filterer. It never fails.
func (ix *Index) Filter(_ context.Context, q Query) (Options, error) {
	return ix.Options(q), nil
}

// Options lists the distinct values of each level among reachable products
// matching the bound prefix. Categories are always listed; brands need a
// category; varieties need category and brand; types need all three.
func (ix *Index) Options(q Query) Options {
	var opts Options
	if !ix.IsLoaded() {
		return opts
	}

	depth := q.depth()
	categories := newDistinct()
	brands := newDistinct()
	varieties := newDistinct()
	types := newDistinct()

	for _, p := range ix.products {
		if !p.reachable() {
			continue
		}
		categories.add(p.Category)
		if depth < 1 || p.Category != q.Category {
			continue
		}
		brands.add(p.Brand)
		if depth < 2 || p.Brand != q.Brand {
			continue
		}
		varieties.add(p.Variety)
		if depth < 3 || p.Variety != q.Variety {
			continue
		}
		types.add(p.Type)
		if depth < 4 || p.Type != q.Type {
			continue
		}
		opts.Products = append(opts.Products, p)
	}

	opts.Categories = categories.values
	opts.Brands = brands.values
	opts.Varieties = varieties.values
	opts.Types = othersLast(types.values)
	return opts
}

// Products returns the products under a fully bound query, or nil.
func (ix *Index) Products(q Query) []Product {
	if q.depth() < 4 {
		return nil
	}
	return ix.Options(q).Products
}

// distinct keeps first-seen order.
type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: make(map[string]struct{}), values: []string{}}
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.values = append(d.values, v)
}

func othersLast(types []string) []string {
	for i, t := range types {
		if t != TypeOthers {
			continue
		}
		out := make([]string, 0, len(types))
		out = append(out, types[:i]...)
		out = append(out, types[i+1:]...)
		return append(out, TypeOthers)
	}
	return types
}

var _ Filterer = (*Index)(nil)
