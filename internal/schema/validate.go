package schema

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaError lists the problems found in a schema.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 1 {
		return "schema: " + e.Violations[0]
	}
	var b strings.Builder
	b.WriteString("schema: ")
	b.WriteString(fmt.Sprint(len(e.Violations)))
	b.WriteString(" problems")
	for _, v := range e.Violations {
		b.WriteString("\n- ")
		b.WriteString(v)
	}
	return b.String()
}

// Validate checks that every type reference resolves within s. It returns a
// *SchemaError listing all violations, or nil.
func (s *Schema) Validate() error {
	v := &validator{s: s}
	v.roots()

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v.typ(name, s.Types[name])
	}
	if len(v.violations) > 0 {
		return &SchemaError{Violations: v.violations}
	}
	return nil
}

type validator struct {
	s          *Schema
	violations []string
}

func (v *validator) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *validator) lookup(name string) *Type {
	if t := v.s.Types[name]; t != nil {
		return t
	}
	switch name {
	case "String":
		return stringType
	case "Int":
		return intType
	case "Float":
		return floatType
	case "Boolean":
		return booleanType
	case "ID":
		return idType
	}
	return nil
}

func (v *validator) roots() {
	if v.s.QueryType == "" {
		v.addf("schema has no query type")
	}
	for _, root := range []struct{ op, name string }{
		{"query", v.s.QueryType},
		{"mutation", v.s.MutationType},
		{"subscription", v.s.SubscriptionType},
	} {
		if root.name == "" {
			continue
		}
		t := v.lookup(root.name)
		switch {
		case t == nil:
			v.addf("%s type %q is not defined", root.op, root.name)
		case t.Kind != TypeKindObject:
			v.addf("%s type %q must be an object type, got %s", root.op, root.name, t.Kind)
		}
	}
}

func (v *validator) typ(name string, t *Type) {
	if t == nil {
		v.addf("type %q is nil", name)
		return
	}
	if t.Name != name {
		v.addf("type registered as %q is named %q", name, t.Name)
	}
	switch t.Kind {
	case TypeKindObject, TypeKindInterface:
		if len(t.Fields) == 0 {
			v.addf("%s %q has no fields", strings.ToLower(string(t.Kind)), name)
		}
		for _, f := range t.Fields {
			where := name + "." + f.Name
			v.ref(where, f.Type, false)
			for _, a := range f.Arguments {
				v.ref(where+"("+a.Name+":)", a.Type, true)
			}
		}
		for _, iface := range t.Interfaces {
			it := v.lookup(iface)
			switch {
			case it == nil:
				v.addf("%s implements undefined type %q", name, iface)
			case it.Kind != TypeKindInterface:
				v.addf("%s implements %q, which is not an interface", name, iface)
			}
		}
	case TypeKindUnion:
		if len(t.PossibleTypes) == 0 {
			v.addf("union %q has no members", name)
		}
		for _, member := range t.PossibleTypes {
			mt := v.lookup(member)
			switch {
			case mt == nil:
				v.addf("union %s references undefined type %q", name, member)
			case mt.Kind != TypeKindObject:
				v.addf("union %s member %q is not an object type", name, member)
			}
		}
	case TypeKindEnum:
		if len(t.EnumValues) == 0 {
			v.addf("enum %q has no values", name)
		}
	case TypeKindInputObject:
		for _, f := range t.InputFields {
			v.ref(name+"."+f.Name, f.Type, true)
		}
	case TypeKindScalar:
	default:
		v.addf("type %q has unknown kind %q", name, t.Kind)
	}
}

func (v *validator) ref(where string, ref *TypeRef, input bool) {
	if ref == nil {
		v.addf("%s has no type", where)
		return
	}
	named := ref.GetNamedType()
	t := v.lookup(named)
	if t == nil {
		v.addf("%s references undefined type %q", where, named)
		return
	}
	switch t.Kind {
	case TypeKindScalar, TypeKindEnum:
	case TypeKindInputObject:
		if !input {
			v.addf("%s uses input type %q in output position", where, named)
		}
	default:
		if input {
			v.addf("%s uses output type %q in input position", where, named)
		}
	}
}
