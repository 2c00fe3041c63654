package schema

import (
	"strings"

	"github.com/hanpama/gqlclient/internal/language"
)

// BuildFromSDL parses and validates sdl and converts it into a Schema.
// Fields, arguments, enum values and input fields keep their declaration
// order; default values become Literals.
func BuildFromSDL(name, sdl string) (*Schema, error) {
	doc, err := language.LoadSchema(name, sdl)
	if err != nil {
		return nil, err
	}
	return FromAST(doc), nil
}

// FromAST converts a gqlparser schema. Built-in definitions and
// introspection fields are skipped.
func FromAST(doc *language.Schema) *Schema {
	s := NewSchema(doc.Description)
	if doc.Query != nil {
		s.SetQueryType(doc.Query.Name)
	}
	if doc.Mutation != nil {
		s.SetMutationType(doc.Mutation.Name)
	}
	if doc.Subscription != nil {
		s.SetSubscriptionType(doc.Subscription.Name)
	}
	for name, def := range doc.Types {
		if def.BuiltIn || strings.HasPrefix(name, "__") {
			continue
		}
		s.AddType(typeFromAST(def))
	}
	for _, d := range doc.Directives {
		if d.Position != nil && d.Position.Src != nil && d.Position.Src.BuiltIn {
			continue
		}
		s.AddDirective(directiveFromAST(d))
	}
	return s
}

func typeFromAST(def *language.Definition) *Type {
	t := NewType(def.Name, TypeKind(def.Kind), def.Description)
	switch def.Kind {
	case language.Object, language.Interface:
		for _, iface := range def.Interfaces {
			t.AddInterface(iface)
		}
		for _, f := range def.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			t.AddField(fieldFromAST(f))
		}
	case language.Union:
		for _, member := range def.Types {
			t.AddPossibleType(member)
		}
	case language.Enum:
		for _, v := range def.EnumValues {
			e := NewEnumValue(v.Name, v.Description)
			if reason, ok := deprecation(v.Directives); ok {
				e.Deprecate(reason)
			}
			t.AddEnumValue(e)
		}
	case language.InputObject:
		for _, f := range def.Fields {
			t.AddInputField(inputValueFromAST(f.Name, f.Description, f.Type, f.DefaultValue, f.Directives))
		}
		t.SetOneOf(def.Directives.ForName("oneOf") != nil)
	case language.Scalar:
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if url := d.Arguments.ForName("url"); url != nil && url.Value != nil {
				t.SetSpecifiedByURL(url.Value.Raw)
			}
		}
	}
	return t
}

func fieldFromAST(f *language.FieldDefinition) *Field {
	out := NewField(f.Name, f.Description, typeRefFromAST(f.Type))
	for _, a := range f.Arguments {
		out.AddArgument(inputValueFromAST(a.Name, a.Description, a.Type, a.DefaultValue, a.Directives))
	}
	if reason, ok := deprecation(f.Directives); ok {
		out.Deprecate(reason)
	}
	return out
}

func inputValueFromAST(name, description string, typ *language.Type, def *language.Value, dirs language.DirectiveList) *InputValue {
	v := NewInputValue(name, description, typeRefFromAST(typ))
	if def != nil {
		v.SetDefault(Literal(def.String()))
	}
	if reason, ok := deprecation(dirs); ok {
		v.Deprecate(reason)
	}
	return v
}

func directiveFromAST(d *language.DirectiveDefinition) *Directive {
	out := NewDirective(d.Name, d.Description).SetRepeatable(d.IsRepeatable)
	for _, loc := range d.Locations {
		out.AddLocation(string(loc))
	}
	for _, a := range d.Arguments {
		out.AddArgument(inputValueFromAST(a.Name, a.Description, a.Type, a.DefaultValue, a.Directives))
	}
	return out
}

func typeRefFromAST(t *language.Type) *TypeRef {
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(typeRefFromAST(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		ref = NonNullType(ref)
	}
	return ref
}

func deprecation(dirs language.DirectiveList) (string, bool) {
	d := dirs.ForName("deprecated")
	if d == nil {
		return "", false
	}
	if reason := d.Arguments.ForName("reason"); reason != nil && reason.Value != nil {
		return reason.Value.Raw, true
	}
	return "", true
}
