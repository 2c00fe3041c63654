package selection

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Decoder decodes one field value. Decoders built from Object carry the
// nested selection requested under the field.
//
// All base decoders reject null; wrap them in Nullable to accept it.
type Decoder[A any] struct {
	children []*node
	err      error
	decode   func(p Path, v any) (A, error)
}

func nullError(p Path) error {
	field := ""
	if len(p) > 0 {
		field, _ = p[len(p)-1].(string)
	}
	return &UnexpectedNullError{Path: p, Field: field}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64, float32, int, int32, int64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func scalar[A any](expected string, conv func(v any) (A, bool)) Decoder[A] {
	return Decoder[A]{decode: func(p Path, v any) (A, error) {
		if v == nil {
			var zero A
			return zero, nullError(p)
		}
		out, ok := conv(v)
		if !ok {
			var zero A
			return zero, &TypeMismatchError{Path: p, Expected: expected, Actual: jsonKind(v)}
		}
		return out, nil
	}}
}

// String decodes a GraphQL String.
var String = scalar("String", func(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
})

// Int decodes a GraphQL Int, a whole number in the signed 32-bit range.
var Int = scalar("Int", func(v any) (int32, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, 32)
		return int32(i), err == nil
	case float64:
		f = n
	case int:
		f = float64(n)
	case int32:
		return n, true
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int32(f), true
})

// Float decodes a GraphQL Float. Integral JSON numbers are accepted.
var Float = scalar("Float", func(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
})

// Boolean decodes a GraphQL Boolean.
var Boolean = scalar("Boolean", func(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
})

// ID decodes a GraphQL ID. Servers may serialize IDs as numbers; those are
// returned in their decimal text form.
var ID = scalar("ID", func(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case json.Number:
		return n.String(), true
	case float64:
		if n == math.Trunc(n) {
			return strconv.FormatFloat(n, 'f', -1, 64), true
		}
	case int:
		return strconv.Itoa(n), true
	}
	return "", false
})

// Any decodes a custom scalar, returning the raw JSON value. Numbers are
// json.Number when decoded through DecodeResponse.
var Any = scalar("any", func(v any) (any, bool) { return v, true })

// Nullable accepts null (or a missing field) and decodes it to nil.
func Nullable[A any](d Decoder[A]) Decoder[*A] {
	return Decoder[*A]{
		children: d.children,
		err:      d.err,
		decode: func(p Path, v any) (*A, error) {
			if v == nil {
				return nil, nil
			}
			out, err := d.decode(p, v)
			if err != nil {
				return nil, err
			}
			return &out, nil
		},
	}
}

// List decodes a JSON array element-wise with d.
func List[A any](d Decoder[A]) Decoder[[]A] {
	return Decoder[[]A]{
		children: d.children,
		err:      d.err,
		decode: func(p Path, v any) ([]A, error) {
			if v == nil {
				return nil, nullError(p)
			}
			items, ok := v.([]any)
			if !ok {
				return nil, &TypeMismatchError{Path: p, Expected: "list", Actual: jsonKind(v)}
			}
			out := make([]A, len(items))
			for i, item := range items {
				x, err := d.decode(p.With(i), item)
				if err != nil {
					return nil, err
				}
				out[i] = x
			}
			return out, nil
		},
	}
}

// Object decodes a response object with the nested selection s.
func Object[T, A any](s Selection[T, A]) Decoder[A] {
	err := s.err
	if err == nil && len(s.nodes) == 0 {
		err = errEmptySelection
	}
	return Decoder[A]{
		children: s.nodes,
		err:      err,
		decode: func(p Path, v any) (A, error) {
			if v == nil {
				var zero A
				return zero, nullError(p)
			}
			obj, ok := v.(map[string]any)
			if !ok {
				var zero A
				return zero, &TypeMismatchError{Path: p, Expected: "object", Actual: jsonKind(v)}
			}
			return s.run(p, obj)
		},
	}
}

// EnumOf decodes a value of the enum typeName restricted to values.
func EnumOf[E ~string](typeName string, values ...E) Decoder[E] {
	known := make(map[string]E, len(values))
	for _, v := range values {
		known[string(v)] = v
	}
	return Decoder[E]{decode: func(p Path, v any) (E, error) {
		if v == nil {
			return "", nullError(p)
		}
		s, ok := v.(string)
		if !ok {
			return "", &TypeMismatchError{Path: p, Expected: typeName, Actual: jsonKind(v)}
		}
		e, ok := known[s]
		if !ok {
			return "", &TypeMismatchError{Path: p, Expected: typeName, Actual: strconv.Quote(s)}
		}
		return e, nil
	}}
}
