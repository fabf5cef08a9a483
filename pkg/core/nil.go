package core

import "reflect"

// IsNil reports whether e is nil or holds a nil pointer, map, slice, func,
// channel or interface. A typed nil such as (*Signal)(nil) is not == nil
// once stored in an Entity, but has nothing to persist.
func IsNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
