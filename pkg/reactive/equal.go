package reactive

import "reflect"

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals(a, b any) bool {
	switch av := a.(type) {
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case uint64:
		bv, ok := b.(uint64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		// Slices, maps, structs etc.
		return reflect.DeepEqual(a, b)
	}
}

// typedEquals adapts a typed equality function to the node table.
func typedEquals[T any](fn func(a, b T) bool) func(a, b any) bool {
	return func(a, b any) bool {
		return fn(as[T](a), as[T](b))
	}
}

// as converts a stored value back to T. A nil interface yields the zero T.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
