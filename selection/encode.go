package selection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dolmen-go/jsonmap"
)

// Argument binds a value to a field argument. Type is the declared GraphQL
// type text, e.g. "Origin!" or "[ID!]". When Value is nil and Default is set,
// Default is the GraphQL literal the server applies.
//
// Type names other than the built-in scalars are checked only through the
// value: an Enum or InputObject must report the same type name, anything
// else is encoded as a custom scalar. A plain string given for an enum type
// is therefore sent quoted, which servers reject; pass the generated enum
// constant instead.
type Argument struct {
	Name    string
	Type    string
	Value   any
	Default string
}

// InputField is one field of an input object value.
type InputField struct {
	Name  string
	Type  string
	Value any
}

// Enum is implemented by generated enum types. Enum values are encoded as
// bare identifiers.
type Enum interface {
	EnumName() string
}

// InputObject is implemented by generated input object types. The fields are
// encoded in the returned order.
type InputObject interface {
	InputTypeName() string
	InputFields() []InputField
}

type enumLit string

type typeRef struct {
	name    string
	nonNull bool
	elem    *typeRef
}

func (t *typeRef) String() string {
	var s string
	if t.elem != nil {
		s = "[" + t.elem.String() + "]"
	} else {
		s = t.name
	}
	if t.nonNull {
		s += "!"
	}
	return s
}

func parseType(s string) (*typeRef, error) {
	s = strings.TrimSpace(s)
	t := &typeRef{}
	if strings.HasSuffix(s, "!") {
		t.nonNull = true
		s = strings.TrimSpace(s[:len(s)-1])
	}
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("selection: malformed type %q", s)
		}
		elem, err := parseType(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		t.elem = elem
		return t, nil
	}
	if !nameRe.MatchString(s) {
		return nil, fmt.Errorf("selection: malformed type %q", s)
	}
	t.name = s
	return t, nil
}

type encoder struct {
	arg string
	// literal is set when the value is written into the query text, where
	// object keys must be names.
	literal bool
}

func (e *encoder) fail(path string, t *typeRef, v any) error {
	actual := "nil"
	if v != nil {
		actual = fmt.Sprintf("%T", v)
	}
	return &EncodingError{Argument: e.arg, Path: path, Expected: t.String(), Actual: actual}
}

// str accepts s unless it is not valid UTF-8, which neither a GraphQL string
// nor a JSON string can carry unchanged.
func (e *encoder) str(path string, t *typeRef, s string) (any, error) {
	if !utf8.ValidString(s) {
		return nil, e.fail(path, t, s)
	}
	return s, nil
}

func joinPath(path string, elem any) string {
	switch k := elem.(type) {
	case int:
		return path + "[" + strconv.Itoa(k) + "]"
	default:
		if path == "" {
			return fmt.Sprint(k)
		}
		return path + "." + fmt.Sprint(k)
	}
}

func indirect(v any) any {
	for v != nil {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return nil
			}
			// Generated types implement the hooks on values.
			if _, ok := v.(Enum); ok {
				return v
			}
			if _, ok := v.(InputObject); ok {
				return v
			}
			v = rv.Elem().Interface()
		default:
			return v
		}
	}
	return nil
}

// normalize checks v against t and converts it to a JSON-ready value: nil,
// string, enumLit, int64, float64, bool, json.Number, []any or
// *jsonmap.Ordered.
func (e *encoder) normalize(path string, t *typeRef, v any) (any, error) {
	v = indirect(v)
	if v == nil {
		if t.nonNull {
			return nil, e.fail(path, t, nil)
		}
		return nil, nil
	}
	if t.elem != nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, e.fail(path, t, v)
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			if t.nonNull {
				return nil, e.fail(path, t, nil)
			}
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			x, err := e.normalize(joinPath(path, i), t.elem, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	}
	if en, ok := v.(Enum); ok {
		ev := reflect.ValueOf(indirectValue(v))
		if en.EnumName() != t.name || ev.Kind() != reflect.String || !nameRe.MatchString(ev.String()) {
			return nil, e.fail(path, t, v)
		}
		return enumLit(ev.String()), nil
	}
	if in, ok := v.(InputObject); ok {
		if in.InputTypeName() != t.name {
			return nil, e.fail(path, t, v)
		}
		return e.inputObject(path, in)
	}
	rv := reflect.ValueOf(v)
	switch t.name {
	case "String":
		if rv.Kind() == reflect.String {
			return e.str(path, t, rv.String())
		}
	case "ID":
		switch rv.Kind() {
		case reflect.String:
			return e.str(path, t, rv.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return strconv.FormatUint(rv.Uint(), 10), nil
		}
	case "Int":
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if n := rv.Int(); n >= math.MinInt32 && n <= math.MaxInt32 {
				return n, nil
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if n := rv.Uint(); n <= math.MaxInt32 {
				return int64(n), nil
			}
		}
	case "Float":
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			if f := rv.Float(); !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, nil
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		}
	case "Boolean":
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	default:
		return e.custom(path, t, v)
	}
	return nil, e.fail(path, t, v)
}

func indirectValue(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	return rv.Interface()
}

func (e *encoder) inputObject(path string, in InputObject) (*jsonmap.Ordered, error) {
	fields := in.InputFields()
	out := &jsonmap.Ordered{Data: make(map[string]any, len(fields)), Order: make([]string, 0, len(fields))}
	for _, f := range fields {
		ft, err := parseType(f.Type)
		if err != nil {
			return nil, err
		}
		fp := joinPath(path, f.Name)
		if indirect(f.Value) == nil && !ft.nonNull {
			continue
		}
		x, err := e.normalize(fp, ft, f.Value)
		if err != nil {
			return nil, err
		}
		out.Data[f.Name] = x
		out.Order = append(out.Order, f.Name)
	}
	return out, nil
}

// custom encodes a custom scalar by its runtime shape.
func (e *encoder) custom(path string, t *typeRef, v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		return x, nil
	case string:
		return e.str(path, t, x)
	case bool:
		return x, nil
	case json.RawMessage:
		return e.fromJSON(path, t, x)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return e.str(path, t, rv.String())
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return json.Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
		return nil, e.fail(path, t, v)
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			x, err := e.custom(joinPath(path, i), t, indirect(rv.Index(i).Interface()))
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, e.fail(path, t, v)
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		out := &jsonmap.Ordered{Data: make(map[string]any, len(keys)), Order: keys}
		for _, k := range keys {
			if e.literal && !nameRe.MatchString(k) {
				return nil, &EncodingError{Argument: e.arg, Path: joinPath(path, k), Expected: "object key name", Actual: strconv.Quote(k)}
			}
			x, err := e.custom(joinPath(path, k), t, indirect(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
			if err != nil {
				return nil, err
			}
			out.Data[k] = x
		}
		return out, nil
	case reflect.Struct:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, e.fail(path, t, v)
		}
		return e.fromJSON(path, t, b)
	}
	if v == nil {
		return nil, nil
	}
	return nil, e.fail(path, t, v)
}

func (e *encoder) fromJSON(path string, t *typeRef, b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, e.fail(path, t, b)
	}
	if raw == nil {
		return nil, nil
	}
	return e.custom(path, t, raw)
}

// renderLiteral writes a normalized value as a GraphQL literal.
func renderLiteral(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		b.WriteString(quote(x))
	case enumLit:
		b.WriteString(string(x))
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case float64:
		b.WriteString(formatFloat(x))
	case float32:
		b.WriteString(formatFloat(float64(x)))
	case json.Number:
		b.WriteString(x.String())
	case []any:
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			renderLiteral(b, item)
		}
		b.WriteByte(']')
	case *jsonmap.Ordered:
		b.WriteByte('{')
		for i, k := range x.Order {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteByte(':')
			renderLiteral(b, x.Data[k])
		}
		b.WriteByte('}')
	}
}

// formatFloat keeps a decimal point or exponent so the literal stays a
// GraphQL FloatValue.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quote renders s as a GraphQL string value.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
