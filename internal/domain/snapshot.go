package domain

import (
	"reflect"
	"time"
)

// deepCopyValue creates a deep copy of a value so that snapshots are
// independently owned. It handles slices, maps, pointers, and structs;
// anything else is copied by value.
func deepCopyValue(value any) any {
	if value == nil {
		return nil
	}

	// time.Time is immutable and can be returned directly.
	if val, ok := value.(time.Time); ok {
		return val
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v.Interface()
		}
		newSlice := reflect.MakeSlice(v.Type(), v.Len(), v.Cap())
		for i := 0; i < v.Len(); i++ {
			if copied := deepCopyValue(v.Index(i).Interface()); copied != nil {
				newSlice.Index(i).Set(reflect.ValueOf(copied))
			}
		}
		return newSlice.Interface()

	case reflect.Map:
		if v.IsNil() {
			return v.Interface()
		}
		newMap := reflect.MakeMap(v.Type())
		for _, key := range v.MapKeys() {
			copiedKey := deepCopyValue(key.Interface())
			copiedValue := reflect.Zero(v.Type().Elem())
			if copied := deepCopyValue(v.MapIndex(key).Interface()); copied != nil {
				copiedValue = reflect.ValueOf(copied)
			}
			newMap.SetMapIndex(reflect.ValueOf(copiedKey), copiedValue)
		}
		return newMap.Interface()

	case reflect.Ptr:
		if v.IsNil() {
			return v.Interface()
		}
		newPtr := reflect.New(v.Elem().Type())
		newPtr.Elem().Set(reflect.ValueOf(deepCopyValue(v.Elem().Interface())))
		return newPtr.Interface()

	case reflect.Struct:
		// Unexported fields are left at their zero value; domain records
		// carry only exported fields.
		newStruct := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			if !newStruct.Field(i).CanSet() {
				continue
			}
			if copied := deepCopyValue(v.Field(i).Interface()); copied != nil {
				newStruct.Field(i).Set(reflect.ValueOf(copied))
			}
		}
		return newStruct.Interface()

	default:
		return value
	}
}

// Clone returns a plain, independently-owned deep copy of a record.
// The persistence layer takes a Clone of every record immediately before a
// write, so the stored snapshot is immune to later in-memory mutation of
// the source while the evaluator keeps working on it.
func Clone[T any](record T) T {
	copied := deepCopyValue(record)
	if copied == nil {
		var zero T
		return zero
	}
	return copied.(T)
}
