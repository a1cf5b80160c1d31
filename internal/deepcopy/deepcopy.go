// Package deepcopy produces independent copies of nested maps, slices and
// sets so that template merging never aliases shared definition data.
//
// Sets are represented as map[K]struct{}. Ordered maps from
// github.com/wk8/go-ordered-map are rebuilt pair by pair in the same order.
// Other pointers, structs and scalars are returned unchanged.
package deepcopy

import (
	"encoding/json"
	"reflect"
)

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// Copy returns a deep copy of v.
func Copy[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	out, _ := copyValue(rv).Interface().(T)
	return out
}

func copyValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		inner := copyValue(v.Elem())
		out := reflect.New(v.Type()).Elem()
		out.Set(inner)
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(copyValue(iter.Key()), copyValue(iter.Value()))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(copyValue(v.Index(i)))
		}
		return out

	case reflect.Pointer:
		if v.IsNil() || !isOrderedMap(v.Type()) {
			return v
		}
		return copyOrderedMap(v)

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(copyValue(v.Index(i)))
		}
		return out

	default:
		return v
	}
}

// isOrderedMap reports whether t has the *orderedmap.OrderedMap[K, V]
// method shape.
func isOrderedMap(t reflect.Type) bool {
	for _, name := range []string{"Oldest", "Set", "Len"} {
		if _, ok := t.MethodByName(name); !ok {
			return false
		}
	}
	return t.Implements(unmarshalerType)
}

func copyOrderedMap(v reflect.Value) reflect.Value {
	out := reflect.New(v.Type().Elem())
	// the zero OrderedMap is only usable once initialized, which
	// UnmarshalJSON does for an empty object
	if err := out.Interface().(json.Unmarshaler).UnmarshalJSON([]byte("{}")); err != nil {
		return v
	}

	set := out.MethodByName("Set")
	for pair := v.MethodByName("Oldest").Call(nil)[0]; !pair.IsNil(); pair = pair.MethodByName("Next").Call(nil)[0] {
		key := pair.Elem().FieldByName("Key")
		value := pair.Elem().FieldByName("Value")
		set.Call([]reflect.Value{copyValue(key), copyValue(value)})
	}
	return out
}
