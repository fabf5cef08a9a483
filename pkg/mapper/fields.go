package mapper

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/persistor/pkg/core"
)

// TagName is the struct tag consulted when fields are discovered by reflection.
// `persist:"name"` renames a field, `persist:"-"` skips it.
const TagName = "persist"

// Field binds a label to the storage of one entity field.
//
// Ptr must point into the entity and be one of *string, *bool, *int, *int64,
// *float64, *time.Time, or a pointer to a slice of those element types.
type Field struct {
	Name string
	Ptr  any
}

// Bind is shorthand for Field{Name: name, Ptr: ptr}.
func Bind(name string, ptr any) Field {
	return Field{Name: name, Ptr: ptr}
}

// Fielder is implemented by entities that list their persisted fields
// explicitly. It takes precedence over reflection.
//
//	func (s *Signal) Fields() []mapper.Field {
//		return []mapper.Field{
//			mapper.Bind("cantidad", &s.Count),
//			mapper.Bind("valores", &s.Values),
//		}
//	}
type Fielder interface {
	Fields() []Field
}

// FieldsOf returns the persisted fields of entity in a fixed order:
// the order returned by Fields for a Fielder, declaration order otherwise.
func FieldsOf(entity core.Entity) ([]Field, error) {
	if core.IsNil(entity) {
		return nil, &core.UnsupportedFieldError{Type: fmt.Sprintf("%T", entity), Reason: "entity is nil"}
	}
	if f, ok := entity.(Fielder); ok {
		fields := f.Fields()
		for _, field := range fields {
			if unbound(field) {
				return nil, &core.UnsupportedFieldError{Field: field.Name, Reason: "field is not bound to any storage"}
			}
		}
		return fields, nil
	}

	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, &core.UnsupportedFieldError{
			Type:   fmt.Sprintf("%T", entity),
			Reason: "entity must be a non-nil pointer to a struct or implement mapper.Fielder",
		}
	}

	var fields []Field
	collectFields(v.Elem(), &fields)
	return fields, nil
}

func collectFields(v reflect.Value, out *[]Field) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get(TagName)
		if tag == "-" {
			continue
		}
		// Embedded structs are flattened into the parent's field set.
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && tag == "" {
			collectFields(v.Field(i), out)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag != "" {
			name = tag
		}
		*out = append(*out, Field{Name: name, Ptr: v.Field(i).Addr().Interface()})
	}
}

// isCollection reports whether f is bound to a slice.
func isCollection(f Field) bool {
	switch f.Ptr.(type) {
	case *[]string, *[]bool, *[]int, *[]int64, *[]float64, *[]time.Time:
		return true
	}
	return false
}

// formatScalar renders a scalar field, unescaped.
func formatScalar(f Field) (string, error) {
	switch p := f.Ptr.(type) {
	case *string:
		return *p, nil
	case *bool:
		return strconv.FormatBool(*p), nil
	case *int:
		return strconv.Itoa(*p), nil
	case *int64:
		return strconv.FormatInt(*p, 10), nil
	case *float64:
		return formatFloat(*p), nil
	case *time.Time:
		return formatTime(*p), nil
	}
	return "", unsupported(f)
}

// formatItems renders a collection field, one string per element, unescaped.
func formatItems(f Field) ([]string, error) {
	switch p := f.Ptr.(type) {
	case *[]string:
		return mapItems(*p, func(s string) string { return s }), nil
	case *[]bool:
		return mapItems(*p, strconv.FormatBool), nil
	case *[]int:
		return mapItems(*p, strconv.Itoa), nil
	case *[]int64:
		return mapItems(*p, func(n int64) string { return strconv.FormatInt(n, 10) }), nil
	case *[]float64:
		return mapItems(*p, formatFloat), nil
	case *[]time.Time:
		return mapItems(*p, formatTime), nil
	}
	return nil, unsupported(f)
}

// parseScalar assigns raw to a scalar field, coercing it to the field's type.
func parseScalar(f Field, raw string) error {
	var err error
	switch p := f.Ptr.(type) {
	case *string:
		*p = raw
	case *bool:
		*p, err = strconv.ParseBool(raw)
	case *int:
		*p, err = strconv.Atoi(raw)
	case *int64:
		*p, err = strconv.ParseInt(raw, 10, 64)
	case *float64:
		*p, err = strconv.ParseFloat(raw, 64)
	case *time.Time:
		*p, err = parseTime(raw)
	default:
		return unsupported(f)
	}
	if err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	return nil
}

// parseItems replaces a collection field with the indexed entries. The
// result has length max index + 1; missing indices keep the zero value.
func parseItems(f Field, entries map[int]string) error {
	var err error
	switch p := f.Ptr.(type) {
	case *[]string:
		*p, err = fillItems(entries, func(s string) (string, error) { return s, nil })
	case *[]bool:
		*p, err = fillItems(entries, strconv.ParseBool)
	case *[]int:
		*p, err = fillItems(entries, strconv.Atoi)
	case *[]int64:
		*p, err = fillItems(entries, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
	case *[]float64:
		*p, err = fillItems(entries, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	case *[]time.Time:
		*p, err = fillItems(entries, parseTime)
	default:
		return unsupported(f)
	}
	if err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	return nil
}

func mapItems[T any](values []T, format func(T) string) []string {
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = format(v)
	}
	return items
}

func fillItems[T any](entries map[int]string, parse func(string) (T, error)) ([]T, error) {
	n := 0
	for i := range entries {
		n = max(n, i+1)
	}
	out := make([]T, n)
	for i, raw := range entries {
		v, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// unbound reports whether f has no storage: a nil Ptr or a nil typed pointer.
func unbound(f Field) bool {
	if f.Ptr == nil {
		return true
	}
	v := reflect.ValueOf(f.Ptr)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func unsupported(f Field) error {
	if unbound(f) {
		return &core.UnsupportedFieldError{Field: f.Name, Reason: "field is not bound to any storage"}
	}
	t := reflect.TypeOf(f.Ptr)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	reason := "type is not supported by the text format"
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		if k := t.Elem().Kind(); k == reflect.Slice || k == reflect.Array || k == reflect.Map {
			reason = "nested collections are not supported"
		}
	}
	return &core.UnsupportedFieldError{Field: f.Name, Type: t.String(), Reason: reason}
}

// describe is used in error messages for fields bound to the wrong shape.
func describe(f Field) string {
	if f.Ptr == nil {
		return "<nil>"
	}
	return strings.TrimPrefix(reflect.TypeOf(f.Ptr).String(), "*")
}
