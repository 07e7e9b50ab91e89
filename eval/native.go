package eval

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
)

// FromNative converts a Go value to a [Value]. Numbers of any width become
// numbers, strings text, bools truth values, and slices or arrays lists of
// their converted elements. nil becomes nothing.
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Nothing, nil
	case Value:
		return x, nil
	case string:
		return Text(x), nil
	case bool:
		return Truth(x), nil
	case float64:
		return Number(x), nil
	case int:
		return Number(float64(x)), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Bool:
		return Truth(rv.Bool()), nil
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())

		for i := range elems {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Nothing, err
			}

			elems[i] = v
		}

		return ListOf(&List{elems: elems}), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Nothing, nil
		}

		return FromNative(rv.Elem().Interface())
	default:
		return Nothing, ErrType.With(slog.String("go_type", fmt.Sprintf("%T", x)))
	}
}

// ToNative converts v to a Go value: float64, string, bool, []any, or nil.
// A list that contains itself converts to nil where it recurs.
func ToNative(v Value) any { return toNative(v, nil) }

func toNative(v Value, open []*List) any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	case KindTruth:
		return v.truth
	case KindList:
		if slices.Contains(open, v.list) {
			return nil
		}

		open = append(open, v.list)
		out := make([]any, 0, v.list.Len())

		for _, e := range v.list.elems {
			out = append(out, toNative(e, open))
		}

		return out
	default:
		return nil
	}
}
