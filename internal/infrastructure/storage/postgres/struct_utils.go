package postgres

import (
	"reflect"
	"slices"
	"sync"
)

// ExtractDBColumns lists column names from struct "db" tags, descending into
// embedded structs such as entity.Timestamps. Columns named in omit are left
// out. Repositories call it once when they are built.
//
// Usage:
//
//	columns := ExtractDBColumns[stock.Stock]()
//	// Returns: ["id", "name", "quantity", "created_at", "updated_at"]
func ExtractDBColumns[T any](omit ...string) []string {
	var zero T
	var cols []string
	for _, col := range extractColumnsFromType(reflect.TypeOf(zero)) {
		if !slices.Contains(omit, col) {
			cols = append(cols, col)
		}
	}
	return cols
}

func extractColumnsFromType(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

type fieldInfo struct {
	index int
	dbTag string
}

type typeMetadata struct {
	fields          []fieldInfo
	embeddedIndices []int
}

// typeCache maps reflect.Type to *typeMetadata.
var typeCache sync.Map

func getOrCreateTypeMetadata(t reflect.Type) *typeMetadata {
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.embeddedIndices = append(meta.embeddedIndices, i)
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.fields = append(meta.fields, fieldInfo{index: i, dbTag: tag})
		}
	}

	typeCache.Store(t, meta)
	return meta
}

// StructToMap converts a struct to a column → value map using "db" tags,
// for squirrel's SetMap. Columns named in omit are left out.
func StructToMap(v any, omit ...string) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	res := make(map[string]any)
	collectFields(rv, res)
	for _, col := range omit {
		delete(res, col)
	}
	return res
}

func collectFields(rv reflect.Value, res map[string]any) {
	meta := getOrCreateTypeMetadata(rv.Type())
	for _, fi := range meta.fields {
		res[fi.dbTag] = rv.Field(fi.index).Interface()
	}
	for _, embIdx := range meta.embeddedIndices {
		emb := rv.Field(embIdx)
		if emb.Kind() == reflect.Ptr {
			if emb.IsNil() {
				continue
			}
			emb = emb.Elem()
		}
		if emb.Kind() == reflect.Struct {
			collectFields(emb, res)
		}
	}
}
