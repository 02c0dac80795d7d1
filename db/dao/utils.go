package dao

import (
	"reflect"
	"slices"
	"strings"
)

// columnValues lists the columns of entity and their values in declaration
// order. Fields of embedded structs are promoted, columns in skip are left out.
func columnValues(entity interface{}, skip ...string) (columns []string, values []interface{}) {
	v := reflect.Indirect(reflect.ValueOf(entity))
	for _, f := range reflect.VisibleFields(v.Type()) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		column := f.Tag.Get("db")
		if column == "" {
			column = strings.ToLower(f.Name)
		}
		if column == "-" || slices.Contains(skip, column) {
			continue
		}
		columns = append(columns, column)
		values = append(values, v.FieldByIndex(f.Index).Interface())
	}
	return
}
