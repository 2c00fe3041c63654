// Package codegen renders the typed accessor file for a schema: marker
// types, field accessors, enums, input objects and custom scalars built on
// package selection.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/hanpama/gqlclient/internal/schema"
)

const selectionImport = "github.com/hanpama/gqlclient/selection"

// Options control the generated file.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// Source names the schema in the file header.
	Source string
}

// Generate renders the accessor file for s. The schema and the generated
// identifiers are checked first; problems are reported as a
// *schema.SchemaError and nothing is rendered. The output is gofmt
// formatted and depends only on s and opts.
func Generate(s *schema.Schema, opts Options) ([]byte, error) {
	if opts.Package == "" {
		return nil, errors.New("codegen: package name is required")
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("codegen: invalid package name %q", opts.Package)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g := &generator{s: s, opts: opts, idents: make(map[string]string)}
	g.plan()
	if len(g.problems) > 0 {
		return nil, &schema.SchemaError{Violations: g.problems}
	}
	g.tparam = "A"
	for i := 1; g.idents[g.tparam] != ""; i++ {
		g.tparam = "A" + strconv.Itoa(i)
	}

	g.file()
	src, err := format.Source(g.b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: format generated source: %w", err)
	}
	return src, nil
}

type generator struct {
	s      *schema.Schema
	opts   Options
	b      bytes.Buffer
	tparam string

	// idents maps every package level identifier to what declared it.
	idents   map[string]string
	problems []string
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.b, format, args...)
}

// types returns the types to render sorted by name. Built-in scalars and
// the subscription root are left out.
func (g *generator) types() []*schema.Type {
	var out []*schema.Type
	for name, t := range g.s.Types {
		if schema.IsBuiltinScalar(name) || strings.HasPrefix(name, "__") {
			continue
		}
		if g.s.SubscriptionType != "" && name == g.s.SubscriptionType {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (g *generator) isRoot(name string) bool {
	return name == g.s.QueryType || (g.s.MutationType != "" && name == g.s.MutationType)
}

// origin returns the Go type standing for selections on the named type.
func (g *generator) origin(name string) string {
	switch {
	case name == g.s.QueryType:
		return "selection.RootQuery"
	case g.s.MutationType != "" && name == g.s.MutationType:
		return "selection.RootMutation"
	}
	return exported(name)
}

// variants returns the object types a union or interface selection can
// resolve to, in declared order for unions and by name for interfaces.
func (g *generator) variants(t *schema.Type) []string {
	if t.Kind == schema.TypeKindUnion {
		return t.PossibleTypes
	}
	var out []string
	for name, o := range g.s.Types {
		if o.Kind != schema.TypeKindObject {
			continue
		}
		for _, iface := range o.Interfaces {
			if iface == t.Name {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

func concat(parts ...string) string {
	for _, p := range parts {
		if p == "" {
			return ""
		}
	}
	return strings.Join(parts, "")
}

func (g *generator) declare(ident, what string) {
	if ident == "" {
		g.problems = append(g.problems, fmt.Sprintf("%s has no usable Go identifier", what))
		return
	}
	if prev, ok := g.idents[ident]; ok {
		g.problems = append(g.problems, fmt.Sprintf("Go identifier %s is generated for both %s and %s", ident, prev, what))
		return
	}
	g.idents[ident] = what
}

// plan declares every identifier the file will hold and collects
// collisions.
func (g *generator) plan() {
	for _, t := range g.types() {
		name := exported(t.Name)
		switch t.Kind {
		case schema.TypeKindObject, schema.TypeKindInterface, schema.TypeKindUnion:
			if !g.isRoot(t.Name) {
				g.declare(name, "type "+t.Name)
			}
			for _, f := range t.Fields {
				g.declare(concat(name, exported(f.Name)), "field "+t.Name+"."+f.Name)
			}
			if t.Kind != schema.TypeKindObject && len(g.variants(t)) > 0 {
				g.declare(concat(name, "On"), "variants of "+t.Name)
			}
		case schema.TypeKindEnum:
			g.declare(name, "enum "+t.Name)
			for _, v := range t.EnumValues {
				g.declare(enumConst(t.Name, v.Name), "enum value "+t.Name+"."+v.Name)
			}
			if name != "" {
				g.declare(decoderVar(t.Name), "decoder of "+t.Name)
			}
		case schema.TypeKindInputObject:
			g.declare(name, "input "+t.Name)
			seen := map[string]string{"InputFields": "method InputFields", "InputTypeName": "method InputTypeName"}
			for _, f := range t.InputFields {
				field := exported(f.Name)
				if field == "" {
					g.problems = append(g.problems, fmt.Sprintf("input field %s.%s has no usable Go identifier", t.Name, f.Name))
					continue
				}
				if prev, ok := seen[field]; ok {
					g.problems = append(g.problems, fmt.Sprintf("input %s: Go field %s is generated for both %s and %s", t.Name, field, prev, f.Name))
					continue
				}
				seen[field] = f.Name
			}
		case schema.TypeKindScalar:
			g.declare(name, "scalar "+t.Name)
		}
	}
}

func (g *generator) file() {
	from := ""
	if g.opts.Source != "" {
		from = " from " + g.opts.Source
	}
	g.printf("// Code generated by gqlclient%s. DO NOT EDIT.\n\n", from)
	g.printf("package %s\n\n", g.opts.Package)
	g.printf("import %q\n", selectionImport)

	for _, t := range g.types() {
		switch t.Kind {
		case schema.TypeKindObject, schema.TypeKindInterface, schema.TypeKindUnion:
			g.composite(t)
		case schema.TypeKindEnum:
			g.enum(t)
		case schema.TypeKindInputObject:
			g.inputObject(t)
		case schema.TypeKindScalar:
			g.printf("\n")
			g.doc(t.Description, false, "")
			g.printf("type %s = any\n", exported(t.Name))
		}
	}
}

// doc writes a comment block from a schema description, followed by a
// Deprecated paragraph when asked.
func (g *generator) doc(description string, deprecated bool, reason string) {
	var lines []string
	if d := strings.TrimSpace(description); d != "" {
		lines = strings.Split(d, "\n")
	}
	if deprecated {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		if reason = strings.Join(strings.Fields(reason), " "); reason != "" {
			lines = append(lines, "Deprecated: "+reason)
		} else {
			lines = append(lines, "Deprecated: no longer supported.")
		}
	}
	for _, l := range lines {
		if l = strings.TrimRight(l, " \t\r"); l == "" {
			g.printf("//\n")
		} else {
			g.printf("// %s\n", l)
		}
	}
}

func (g *generator) composite(t *schema.Type) {
	name := exported(t.Name)
	origin := g.origin(t.Name)
	if !g.isRoot(t.Name) {
		g.printf("\n")
		g.doc(t.Description, false, "")
		g.printf("type %s struct{}\n\n", name)
		g.printf("func (%s) TypeName() string { return %q }\n", name, t.Name)
	}

	var plain []*schema.Field
	for _, f := range t.Fields {
		if _, _, composite := g.output(f.Type); !composite && len(f.Arguments) == 0 {
			plain = append(plain, f)
		}
	}
	if len(plain) > 0 {
		g.printf("\nvar (\n")
		for i, f := range plain {
			if i > 0 && (f.Description != "" || f.IsDeprecated) {
				g.printf("\n")
			}
			_, dec, _ := g.output(f.Type)
			g.doc(f.Description, f.IsDeprecated, f.DeprecationReason)
			g.printf("%s = selection.Field[%s](%q, %s)\n", name+exported(f.Name), origin, f.Name, dec)
		}
		g.printf(")\n")
	}

	for _, f := range t.Fields {
		if _, _, composite := g.output(f.Type); composite || len(f.Arguments) > 0 {
			g.accessor(t, f)
		}
	}

	if t.Kind != schema.TypeKindObject {
		g.on(t)
	}
}

func (g *generator) accessor(t *schema.Type, f *schema.Field) {
	origin := g.origin(t.Name)
	goType, dec, composite := g.output(f.Type)

	var params, args []string
	used := map[string]bool{g.tparam: true}
	for _, a := range f.Arguments {
		p := paramName(a.Name, g.idents)
		for used[p] {
			p += "_"
		}
		used[p] = true
		params = append(params, p+" "+g.argType(a))

		arg := fmt.Sprintf("selection.Argument{Name: %q, Type: %q, Value: %s", a.Name, schema.RenderTypeRef(a.Type), p)
		if a.DefaultValue != nil {
			arg += fmt.Sprintf(", Default: %q", schema.RenderValue(a.DefaultValue))
		}
		args = append(args, arg+"}")
	}

	tparams := ""
	if composite {
		tparams = "[" + g.tparam + " any]"
		params = append(params, "sel selection.Selection["+g.origin(f.Type.GetNamedType())+", "+g.tparam+"]")
	}

	g.printf("\n")
	g.doc(f.Description, f.IsDeprecated, f.DeprecationReason)
	g.printf("func %s%s(%s) selection.Selection[%s, %s] {\n",
		exported(t.Name)+exported(f.Name), tparams, strings.Join(params, ", "), origin, goType)
	if len(args) == 0 {
		g.printf("\treturn selection.Field[%s](%q, %s)\n}\n", origin, f.Name, dec)
		return
	}
	g.printf("\treturn selection.Field[%s](%q, %s,\n", origin, f.Name, dec)
	for _, a := range args {
		g.printf("\t\t%s,\n", a)
	}
	g.printf("\t)\n}\n")
}

// on writes the variant mapping of a union or interface.
func (g *generator) on(t *schema.Type) {
	members := g.variants(t)
	if len(members) == 0 {
		return
	}
	name := exported(t.Name)
	var params, variants []string
	used := map[string]bool{g.tparam: true}
	for _, m := range members {
		p := paramName(unexported(exported(m)), g.idents)
		for used[p] {
			p += "_"
		}
		used[p] = true
		params = append(params, fmt.Sprintf("%s selection.Selection[%s, %s]", p, exported(m), g.tparam))
		variants = append(variants, "selection.On("+p+")")
	}
	g.printf("\n// %sOn decodes %s by its concrete type.\n", name, t.Name)
	g.printf("func %sOn[%s any](%s) selection.Selection[%s, %s] {\n", name, g.tparam, strings.Join(params, ", "), name, g.tparam)
	g.printf("\treturn selection.OnType[%s](%s)\n}\n", name, strings.Join(variants, ", "))
}

func (g *generator) enum(t *schema.Type) {
	name := exported(t.Name)
	g.printf("\n")
	g.doc(t.Description, false, "")
	g.printf("type %s string\n\n", name)

	consts := make([]string, 0, len(t.EnumValues))
	g.printf("const (\n")
	for i, v := range t.EnumValues {
		if i > 0 && (v.Description != "" || v.IsDeprecated) {
			g.printf("\n")
		}
		c := enumConst(t.Name, v.Name)
		consts = append(consts, c)
		g.doc(v.Description, v.IsDeprecated, v.DeprecationReason)
		g.printf("%s %s = %q\n", c, name, v.Name)
	}
	g.printf(")\n\n")
	g.printf("func (%s) EnumName() string { return %q }\n\n", name, t.Name)
	g.printf("var %s = selection.EnumOf(%q, %s)\n", decoderVar(t.Name), t.Name, strings.Join(consts, ", "))
}

func (g *generator) inputObject(t *schema.Type) {
	name := exported(t.Name)
	g.printf("\n")
	g.doc(t.Description, false, "")
	g.printf("type %s struct {\n", name)
	for _, f := range t.InputFields {
		g.doc(f.Description, f.IsDeprecated, f.DeprecationReason)
		g.printf("%s %s\n", exported(f.Name), g.argType(f))
	}
	g.printf("}\n\n")

	g.printf("func (%s) InputTypeName() string { return %q }\n\n", name, t.Name)
	g.printf("func (in %s) InputFields() []selection.InputField {\n", name)
	g.printf("\treturn []selection.InputField{\n")
	for _, f := range t.InputFields {
		g.printf("\t\t{Name: %q, Type: %q, Value: in.%s},\n", f.Name, schema.RenderTypeRef(f.Type), exported(f.Name))
	}
	g.printf("\t}\n}\n")
}

// output returns the Go result type and decoder expression for a field
// type. composite reports whether the named type needs a nested selection,
// in which case the result is the type parameter.
func (g *generator) output(ref *schema.TypeRef) (goType, decoder string, composite bool) {
	nonNull := ref.Kind == schema.TypeRefKindNonNull
	if nonNull {
		ref = ref.OfType
	}
	if ref.Kind == schema.TypeRefKindList {
		goType, decoder, composite = g.output(ref.OfType)
		goType, decoder = "[]"+goType, "selection.List("+decoder+")"
	} else {
		goType, decoder, composite = g.outputNamed(ref.Named)
	}
	if !nonNull {
		goType, decoder = "*"+goType, "selection.Nullable("+decoder+")"
	}
	return goType, decoder, composite
}

func (g *generator) outputNamed(name string) (string, string, bool) {
	if goType, ok := builtinGoType(name); ok {
		return goType, "selection." + name, false
	}
	switch g.s.Types[name].Kind {
	case schema.TypeKindEnum:
		return exported(name), decoderVar(name), false
	case schema.TypeKindScalar:
		return exported(name), "selection.Any", false
	}
	return g.tparam, "selection.Object(sel)", true
}

// argType returns the parameter or struct field type of an input value.
// Values the server requires are taken as is, others through a pointer.
func (g *generator) argType(v *schema.InputValue) string {
	if v.Type.IsNonNull() && v.DefaultValue != nil {
		return "*" + g.inputBase(v.Type.OfType)
	}
	return g.inputType(v.Type)
}

func (g *generator) inputType(ref *schema.TypeRef) string {
	if ref.IsNonNull() {
		return g.inputBase(ref.OfType)
	}
	return "*" + g.inputBase(ref)
}

func (g *generator) inputBase(ref *schema.TypeRef) string {
	if ref.IsList() {
		return "[]" + g.inputType(ref.OfType)
	}
	if goType, ok := builtinGoType(ref.Named); ok {
		return goType
	}
	return exported(ref.Named)
}

func builtinGoType(name string) (string, bool) {
	switch name {
	case "String", "ID":
		return "string", true
	case "Int":
		return "int32", true
	case "Float":
		return "float64", true
	case "Boolean":
		return "bool", true
	}
	return "", false
}
