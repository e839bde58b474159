// Package cascade implements the dependent selector chain
// category → brand → variety → type → product.
package cascade

import (
	"orderdesk/internal/domain/catalog"
)

// Field is one level of the cascade. Levels are strictly ordered.
type Field int

const (
	FieldCategory Field = iota + 1
	FieldBrand
	FieldVariety
	FieldType
	FieldProduct
)

// Fields lists all levels in cascade order.
var Fields = []Field{FieldCategory, FieldBrand, FieldVariety, FieldType, FieldProduct}

func (f Field) String() string {
	switch f {
	case FieldCategory:
		return "category"
	case FieldBrand:
		return "brand"
	case FieldVariety:
		return "variety"
	case FieldType:
		return "type"
	case FieldProduct:
		return "product"
	default:
		return "unknown"
	}
}

// Valid reports whether f is a known level.
func (f Field) Valid() bool {
	return f >= FieldCategory && f <= FieldProduct
}

// ParseField maps a field name back to its level.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if f.String() == s {
			return f, true
		}
	}
	return 0, false
}

// Selection is the current partial choice. Empty string means "not chosen".
// Product holds the chosen item code.
//
// Invariant: a non-empty level implies every level above it is non-empty.
type Selection struct {
	Category string `json:"category,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Variety  string `json:"variety,omitempty"`
	Type     string `json:"type,omitempty"`
	Product  string `json:"product,omitempty"`
}

// Get returns the value held at level f.
func (s Selection) Get(f Field) string {
	switch f {
	case FieldCategory:
		return s.Category
	case FieldBrand:
		return s.Brand
	case FieldVariety:
		return s.Variety
	case FieldType:
		return s.Type
	case FieldProduct:
		return s.Product
	}
	return ""
}

func (s Selection) with(f Field, v string) Selection {
	switch f {
	case FieldCategory:
		s.Category = v
	case FieldBrand:
		s.Brand = v
	case FieldVariety:
		s.Variety = v
	case FieldType:
		s.Type = v
	case FieldProduct:
		s.Product = v
	}
	return s
}

// Apply is the one transition function of the cascade. Setting f to the value
// it already holds returns s untouched; any other assignment (clearing
// included) empties every level below f and leaves the levels above it alone.
func Apply(s Selection, f Field, v string) Selection {
	if !f.Valid() || s.Get(f) == v {
		return s
	}
	s = s.with(f, v)
	for g := f + 1; g <= FieldProduct; g++ {
		s = s.with(g, "")
	}
	return s
}

// Depth returns the number of leading chosen levels.
func (s Selection) Depth() int {
	n := 0
	for _, f := range Fields {
		if s.Get(f) == "" {
			break
		}
		n++
	}
	return n
}

// Consistent reports whether the no-orphan invariant holds.
func (s Selection) Consistent() bool {
	for _, f := range Fields[s.Depth():] {
		if s.Get(f) != "" {
			return false
		}
	}
	return true
}

// IsEmpty reports whether nothing is chosen.
func (s Selection) IsEmpty() bool {
	return s == Selection{}
}

// Query converts the first four levels to a catalog query.
func (s Selection) Query() catalog.Query {
	return catalog.Query{
		Category: s.Category,
		Brand:    s.Brand,
		Variety:  s.Variety,
		Type:     s.Type,
	}
}

// State names the cascade position.
type State int

const (
	StateEmpty State = iota
	StateCategoryChosen
	StateBrandChosen
	StateVarietyChosen
	StateTypeChosen
	StateProductChosen
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateCategoryChosen:
		return "CategoryChosen"
	case StateBrandChosen:
		return "BrandChosen"
	case StateVarietyChosen:
		return "VarietyChosen"
	case StateTypeChosen:
		return "TypeChosen"
	case StateProductChosen:
		return "ProductChosen"
	default:
		return "Unknown"
	}
}

// State returns the cascade position of s.
func (s Selection) State() State {
	return State(s.Depth())
}
