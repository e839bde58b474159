package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns lists the "db" tags of T in field order, descending into
// embedded structs. Fields tagged "-" or untagged are skipped.
func ExtractDBColumns[T any]() []string {
	var zero T
	meta := metadataOf(reflect.TypeOf(zero))
	cols := make([]string, 0, len(meta.fields))
	for _, f := range meta.fields {
		cols = append(cols, f.column)
	}
	return cols
}

// StructToMap maps column name to field value for a struct or struct pointer.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := metadataOf(rv.Type())
	out := make(map[string]any, len(meta.fields))
	for _, f := range meta.fields {
		out[f.column] = rv.FieldByIndex(f.index).Interface()
	}
	return out
}

// StructValues returns field values in the order of columns; unknown columns
// yield nil.
func StructValues(v any, columns []string) []any {
	m := StructToMap(v)
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = m[c]
	}
	return out
}

type column struct {
	column string
	index  []int
}

type typeMetadata struct {
	fields []column
}

var typeCache sync.Map // reflect.Type -> *typeMetadata

func metadataOf(t reflect.Type) *typeMetadata {
	if t == nil {
		return &typeMetadata{}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		collect(t, nil, meta)
	}
	typeCache.Store(t, meta)
	return meta
}

func collect(t reflect.Type, prefix []int, meta *typeMetadata) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int{}, prefix...), i)

		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				continue
			}
			if ft.Kind() == reflect.Struct {
				collect(ft, index, meta)
			}
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		meta.fields = append(meta.fields, column{column: tag, index: index})
	}
}
