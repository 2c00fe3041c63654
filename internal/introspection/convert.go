package introspection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hanpama/gqlclient/client"
	"github.com/hanpama/gqlclient/internal/schema"
	"github.com/hanpama/gqlclient/selection"
)

var builtinDirectives = map[string]bool{
	"include":     true,
	"skip":        true,
	"deprecated":  true,
	"specifiedBy": true,
	"oneOf":       true,
	"defer":       true,
}

// Fetch sends Query to endpoint with c and converts the result.
func Fetch(ctx context.Context, c *client.Client, endpoint string) (*schema.Schema, error) {
	doc := selection.WireDocument{Query: Query, Operation: "query", OperationName: "IntrospectionQuery"}
	body, err := c.Do(ctx, endpoint, doc)
	if err != nil {
		return nil, err
	}
	return FromJSON(body)
}

// FromJSON converts an introspection response body. Response errors are
// returned as a *selection.ServerError.
func FromJSON(body []byte) (*schema.Schema, error) {
	resp, err := selection.ParseResponse(body)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &selection.ServerError{Errors: resp.Errors, Data: resp.Data}
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("introspection: response has no data")
	}
	var r Result
	if err := json.Unmarshal(resp.Data, &r); err != nil {
		return nil, fmt.Errorf("introspection: %w", err)
	}
	return ToSchema(&r)
}

// ToSchema converts an introspection result. Introspection types and
// built-in directives are skipped.
func ToSchema(r *Result) (*schema.Schema, error) {
	v := r.Schema
	if v.QueryType == nil {
		return nil, fmt.Errorf("introspection: schema has no query type")
	}
	s := schema.NewSchema(deref(v.Description))
	s.SetQueryType(v.QueryType.Name)
	if v.MutationType != nil {
		s.SetMutationType(v.MutationType.Name)
	}
	if v.SubscriptionType != nil {
		s.SetSubscriptionType(v.SubscriptionType.Name)
	}

	for _, ft := range v.Types {
		if strings.HasPrefix(ft.Name, "__") || schema.IsBuiltinScalar(ft.Name) {
			continue
		}
		t, err := convertType(ft)
		if err != nil {
			return nil, err
		}
		s.AddType(t)
	}
	for _, d := range v.Directives {
		if builtinDirectives[d.Name] {
			continue
		}
		dir := schema.NewDirective(d.Name, deref(d.Description)).SetRepeatable(d.IsRepeatable)
		for _, loc := range d.Locations {
			dir.AddLocation(loc)
		}
		for _, a := range d.Args {
			in, err := convertInputValue(a)
			if err != nil {
				return nil, fmt.Errorf("introspection: directive @%s: %w", d.Name, err)
			}
			dir.AddArgument(in)
		}
		s.AddDirective(dir)
	}
	return s, nil
}

func convertType(ft FullType) (*schema.Type, error) {
	t := schema.NewType(ft.Name, schema.TypeKind(ft.Kind), deref(ft.Description))
	switch t.Kind {
	case schema.TypeKindObject, schema.TypeKindInterface:
		for _, ref := range ft.Interfaces {
			if ref.Name == nil {
				return nil, fmt.Errorf("introspection: %s has an unnamed interface", ft.Name)
			}
			t.AddInterface(*ref.Name)
		}
		for _, fv := range ft.Fields {
			typ, err := convertTypeRef(&fv.Type)
			if err != nil {
				return nil, fmt.Errorf("introspection: %s.%s: %w", ft.Name, fv.Name, err)
			}
			f := schema.NewField(fv.Name, deref(fv.Description), typ)
			for _, a := range fv.Args {
				in, err := convertInputValue(a)
				if err != nil {
					return nil, fmt.Errorf("introspection: %s.%s: %w", ft.Name, fv.Name, err)
				}
				f.AddArgument(in)
			}
			if fv.IsDeprecated {
				f.Deprecate(deref(fv.DeprecationReason))
			}
			t.AddField(f)
		}
	case schema.TypeKindUnion:
		for _, ref := range ft.PossibleTypes {
			if ref.Name == nil {
				return nil, fmt.Errorf("introspection: union %s has an unnamed member", ft.Name)
			}
			t.AddPossibleType(*ref.Name)
		}
	case schema.TypeKindEnum:
		for _, ev := range ft.EnumValues {
			e := schema.NewEnumValue(ev.Name, deref(ev.Description))
			if ev.IsDeprecated {
				e.Deprecate(deref(ev.DeprecationReason))
			}
			t.AddEnumValue(e)
		}
	case schema.TypeKindInputObject:
		for _, iv := range ft.InputFields {
			in, err := convertInputValue(iv)
			if err != nil {
				return nil, fmt.Errorf("introspection: %s: %w", ft.Name, err)
			}
			t.AddInputField(in)
		}
		t.SetOneOf(ft.IsOneOf)
	case schema.TypeKindScalar:
		if ft.SpecifiedByURL != nil {
			t.SetSpecifiedByURL(*ft.SpecifiedByURL)
		}
	default:
		return nil, fmt.Errorf("introspection: type %s has unknown kind %q", ft.Name, ft.Kind)
	}
	return t, nil
}

func convertInputValue(iv InputValue) (*schema.InputValue, error) {
	typ, err := convertTypeRef(&iv.Type)
	if err != nil {
		return nil, fmt.Errorf("argument %s: %w", iv.Name, err)
	}
	in := schema.NewInputValue(iv.Name, deref(iv.Description), typ)
	if iv.DefaultValue != nil {
		in.SetDefault(schema.Literal(*iv.DefaultValue))
	}
	return in, nil
}

func convertTypeRef(ref *TypeRef) (*schema.TypeRef, error) {
	if ref == nil {
		return nil, fmt.Errorf("missing type")
	}
	switch ref.Kind {
	case "NON_NULL", "LIST":
		inner, err := convertTypeRef(ref.OfType)
		if err != nil {
			return nil, err
		}
		if ref.Kind == "LIST" {
			return schema.ListType(inner), nil
		}
		return schema.NonNullType(inner), nil
	default:
		if ref.Name == nil {
			return nil, fmt.Errorf("unnamed %s type", ref.Kind)
		}
		return schema.NamedType(*ref.Name), nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
