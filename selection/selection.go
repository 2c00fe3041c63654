package selection

import (
	"fmt"
	"regexp"
)

const typenameField = "__typename"

var nameRe = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// RootQuery is the origin of selections on the schema's query type.
type RootQuery struct{}

// RootMutation is the origin of selections on the schema's mutation type.
type RootMutation struct{}

// Root is satisfied by the operation roots a document can be built from.
type Root interface {
	RootQuery | RootMutation
}

// Named is implemented by generated origin types of concrete object types.
// OnType uses it to match the server reported __typename.
type Named interface {
	TypeName() string
}

// Pair is the result of combining two selections.
type Pair[A, B any] struct {
	First  A
	Second B
}

// node is one entry of a selection set. Nodes are shared between selections
// and never mutated after construction.
type node struct {
	name     string
	alias    string
	args     []Argument
	children []*node

	// typeCondition marks an inline fragment; name is empty then.
	typeCondition string
}

func (n *node) key() string {
	if n.alias != "" {
		return n.alias
	}
	return n.name
}

type decodeFunc[A any] func(p Path, obj map[string]any) (A, error)

// Selection requests fields on the GraphQL type O and decodes them into A.
// The zero value is an empty selection that cannot be built.
type Selection[O, A any] struct {
	nodes  []*node
	decode decodeFunc[A]
	err    error

	// rekey is set on single-field selections and rebuilds decode for a new
	// response key.
	rekey func(key string) decodeFunc[A]
}

func (s Selection[O, A]) run(p Path, obj map[string]any) (A, error) {
	if s.decode == nil {
		var zero A
		return zero, errEmptySelection
	}
	return s.decode(p, obj)
}

// Field selects the field name of O, decoding its value with d. When d was
// built from Object the field is an object field and d's nested selection is
// requested under it.
func Field[O, A any](name string, d Decoder[A], args ...Argument) Selection[O, A] {
	n := &node{name: name, args: args, children: d.children}
	rekey := func(key string) decodeFunc[A] {
		return func(p Path, obj map[string]any) (A, error) {
			fp := p.With(key)
			raw, ok := obj[key]
			if !ok {
				v, err := d.decode(fp, nil)
				if err != nil && isNullAt(err, fp) {
					var zero A
					return zero, &MissingFieldError{Path: fp, Field: key}
				}
				return v, err
			}
			return d.decode(fp, raw)
		}
	}
	s := Selection[O, A]{nodes: []*node{n}, decode: rekey(name), rekey: rekey, err: d.err}
	if s.err == nil && !nameRe.MatchString(name) {
		s.err = fmt.Errorf("selection: invalid field name %q", name)
	}
	return s
}

// Typename selects the __typename meta field of O.
func Typename[O any]() Selection[O, string] {
	return Field[O](typenameField, String)
}

// WithAlias requests the field under alias. It applies to selections of
// exactly one field, possibly mapped; on any other selection Build reports
// an error.
func (s Selection[O, A]) WithAlias(alias string) Selection[O, A] {
	if s.err != nil {
		return s
	}
	if s.rekey == nil || len(s.nodes) != 1 {
		s.err = fmt.Errorf("selection: alias %q requires a single field selection", alias)
		return s
	}
	if !nameRe.MatchString(alias) {
		s.err = fmt.Errorf("selection: invalid alias %q", alias)
		return s
	}
	n := *s.nodes[0]
	n.alias = alias
	return Selection[O, A]{
		nodes:  []*node{&n},
		decode: s.rekey(alias),
		rekey:  s.rekey,
	}
}

// Combine selects the fields of a and b on the same origin. Both sides decode
// against the same response object, a first. Fields of the two sides that
// share a response key must request the same field with the same arguments;
// Build reports an error otherwise.
func Combine[O, A, B any](a Selection[O, A], b Selection[O, B]) Selection[O, Pair[A, B]] {
	nodes := make([]*node, 0, len(a.nodes)+len(b.nodes))
	nodes = append(nodes, a.nodes...)
	nodes = append(nodes, b.nodes...)
	err := a.err
	if err == nil {
		err = b.err
	}
	if err == nil && (len(a.nodes) == 0 || len(b.nodes) == 0) {
		err = errEmptySelection
	}
	return Selection[O, Pair[A, B]]{
		nodes: nodes,
		err:   err,
		decode: func(p Path, obj map[string]any) (Pair[A, B], error) {
			first, err := a.run(p, obj)
			if err != nil {
				return Pair[A, B]{}, err
			}
			second, err := b.run(p, obj)
			if err != nil {
				return Pair[A, B]{}, err
			}
			return Pair[A, B]{First: first, Second: second}, nil
		},
	}
}

// Map transforms the decoded result of s with f.
func Map[O, A, B any](s Selection[O, A], f func(A) B) Selection[O, B] {
	wrap := func(dec decodeFunc[A]) decodeFunc[B] {
		return func(p Path, obj map[string]any) (B, error) {
			if dec == nil {
				var zero B
				return zero, errEmptySelection
			}
			v, err := dec(p, obj)
			if err != nil {
				var zero B
				return zero, err
			}
			return f(v), nil
		}
	}
	out := Selection[O, B]{nodes: s.nodes, err: s.err, decode: wrap(s.decode)}
	if s.rekey != nil {
		out.rekey = func(key string) decodeFunc[B] { return wrap(s.rekey(key)) }
	}
	return out
}

// MapErr is Map for transforms that can fail. A failure is reported as a
// TransformError at the path of the object s decodes.
func MapErr[O, A, B any](s Selection[O, A], f func(A) (B, error)) Selection[O, B] {
	wrap := func(dec decodeFunc[A]) decodeFunc[B] {
		return func(p Path, obj map[string]any) (B, error) {
			var zero B
			if dec == nil {
				return zero, errEmptySelection
			}
			v, err := dec(p, obj)
			if err != nil {
				return zero, err
			}
			out, err := f(v)
			if err != nil {
				return zero, &TransformError{Path: p, Err: err}
			}
			return out, nil
		}
	}
	out := Selection[O, B]{nodes: s.nodes, err: s.err, decode: wrap(s.decode)}
	if s.rekey != nil {
		out.rekey = func(key string) decodeFunc[B] { return wrap(s.rekey(key)) }
	}
	return out
}

// Map2 combines a and b and maps both results with f.
func Map2[O, A, B, R any](a Selection[O, A], b Selection[O, B], f func(A, B) R) Selection[O, R] {
	return Map(Combine(a, b), func(p Pair[A, B]) R {
		return f(p.First, p.Second)
	})
}

// Map3 combines three selections and maps their results with f.
func Map3[O, A, B, C, R any](a Selection[O, A], b Selection[O, B], c Selection[O, C], f func(A, B, C) R) Selection[O, R] {
	return Map(Combine(Combine(a, b), c), func(p Pair[Pair[A, B], C]) R {
		return f(p.First.First, p.First.Second, p.Second)
	})
}

// Map4 combines four selections and maps their results with f.
func Map4[O, A, B, C, D, R any](a Selection[O, A], b Selection[O, B], c Selection[O, C], d Selection[O, D], f func(A, B, C, D) R) Selection[O, R] {
	return Map(Combine(Combine(Combine(a, b), c), d), func(p Pair[Pair[Pair[A, B], C], D]) R {
		return f(p.First.First.First, p.First.First.Second, p.First.Second, p.Second)
	})
}

// Variant is one branch of OnType: a selection on a concrete type with its
// origin erased.
type Variant[A any] struct {
	typeName string
	nodes    []*node
	decode   decodeFunc[A]
	err      error
}

// On turns a selection on the concrete type T into an OnType branch.
func On[T Named, A any](s Selection[T, A]) Variant[A] {
	var t T
	return Variant[A]{typeName: t.TypeName(), nodes: s.nodes, decode: s.run, err: s.err}
}

// OnType selects fields on the abstract type O depending on the concrete
// type the server returns. The request carries __typename and one inline
// fragment per variant; a __typename without a variant fails decoding with
// UnknownVariantError.
func OnType[O, A any](variants ...Variant[A]) Selection[O, A] {
	nodes := make([]*node, 0, len(variants)+1)
	nodes = append(nodes, &node{name: typenameField})
	byType := make(map[string]Variant[A], len(variants))
	var err error
	if len(variants) == 0 {
		err = fmt.Errorf("selection: OnType requires at least one variant")
	}
	for _, v := range variants {
		if err == nil {
			err = v.err
		}
		if _, dup := byType[v.typeName]; dup && err == nil {
			err = fmt.Errorf("selection: duplicate variant %q", v.typeName)
		}
		if len(v.nodes) == 0 && err == nil {
			err = fmt.Errorf("selection: variant %q selects no fields", v.typeName)
		}
		byType[v.typeName] = v
		nodes = append(nodes, &node{typeCondition: v.typeName, children: v.nodes})
	}
	return Selection[O, A]{
		nodes: nodes,
		err:   err,
		decode: func(p Path, obj map[string]any) (A, error) {
			var zero A
			tp := p.With(typenameField)
			raw, ok := obj[typenameField]
			if !ok {
				return zero, &MissingFieldError{Path: tp, Field: typenameField}
			}
			name, err := String.decode(tp, raw)
			if err != nil {
				return zero, err
			}
			v, ok := byType[name]
			if !ok {
				return zero, &UnknownVariantError{Path: p, TypeName: name}
			}
			return v.decode(p, obj)
		},
	}
}
