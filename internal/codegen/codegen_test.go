package codegen

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlclient/internal/schema"
)

const fleetSDL = `
"""
Where a ship was built.
"""
enum Origin {
  EARTH
  MARS
  BELT @deprecated(reason: "merged into MARS")
}

interface Node {
  id: ID!
}

"""
A ship in the fleet.
"""
type Ship implements Node {
  id: ID!
  name: String!
  origin: Origin
  tags: [String!]
  escorts(first: Int = 10, type: String): [Ship!]!
  registry: Stamp
}

type Station implements Node {
  id: ID!
}

union Contact = Ship | Station

input ShipFilter {
  origin: Origin! = MARS
  name_like: String
  ids: [ID!]
}

scalar Stamp

type Query {
  node(id: ID!): Node
  contacts(filter: ShipFilter): [Contact!]!
  count(origin: Origin): Int!
}

type Mutation {
  launch(name: String!): Ship @deprecated
}

type Subscription {
  docked: Ship
}
`

func generate(t *testing.T, sdl string) string {
	t.Helper()
	s, err := schema.BuildFromSDL("fleet.graphql", sdl)
	require.NoError(t, err)
	src, err := Generate(s, Options{Package: "fleet", Source: "fleet.graphql"})
	require.NoError(t, err)
	return string(src)
}

// squash collapses whitespace so checks do not depend on gofmt alignment.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestGenerateDeclarations(t *testing.T) {
	src := generate(t, fleetSDL)

	file, err := parser.ParseFile(token.NewFileSet(), "fleet_gen.go", src, parser.ParseComments)
	require.NoError(t, err, src)
	require.Equal(t, "fleet", file.Name.Name)
	require.True(t, ast.IsGenerated(file))

	var names []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, sp.Name.Name)
				case *ast.ValueSpec:
					for _, n := range sp.Names {
						names = append(names, n.Name)
					}
				}
			}
		}
	}
	sort.Strings(names)
	want := []string{
		"Contact", "ContactOn", "MutationLaunch", "Node", "NodeId", "NodeOn",
		"Origin", "OriginBelt", "OriginEarth", "OriginMars",
		"QueryContacts", "QueryCount", "QueryNode",
		"Ship", "ShipEscorts", "ShipFilter", "ShipId", "ShipName", "ShipOrigin", "ShipRegistry", "ShipTags",
		"Stamp", "Station", "StationId", "originDecoder",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateShapes(t *testing.T) {
	src := squash(generate(t, fleetSDL))
	require.True(t, strings.HasPrefix(src, "// Code generated by gqlclient from fleet.graphql. DO NOT EDIT. package fleet"), src)

	for _, want := range []string{
		`import "github.com/hanpama/gqlclient/selection"`,
		`// A ship in the fleet. type Ship struct{} func (Ship) TypeName() string { return "Ship" }`,
		`ShipTags = selection.Field[Ship]("tags", selection.Nullable(selection.List(selection.String)))`,
		`ShipOrigin = selection.Field[Ship]("origin", selection.Nullable(originDecoder))`,
		`ShipRegistry = selection.Field[Ship]("registry", selection.Nullable(selection.Any))`,
		`func ShipEscorts[A any](first *int32, typeArg *string, sel selection.Selection[Ship, A]) selection.Selection[Ship, []A] {`,
		`return selection.Field[Ship]("escorts", selection.List(selection.Object(sel)), ` +
			`selection.Argument{Name: "first", Type: "Int", Value: first, Default: "10"}, ` +
			`selection.Argument{Name: "type", Type: "String", Value: typeArg}, )`,
		`func QueryCount(origin *Origin) selection.Selection[selection.RootQuery, int32] {`,
		`func QueryNode[A any](id string, sel selection.Selection[Node, A]) selection.Selection[selection.RootQuery, *A] {`,
		`func QueryContacts[A any](filter *ShipFilter, sel selection.Selection[Contact, A]) selection.Selection[selection.RootQuery, []A] {`,
		`// Deprecated: no longer supported. func MutationLaunch[A any](name string, sel selection.Selection[Ship, A]) selection.Selection[selection.RootMutation, *A] {`,
		`func ContactOn[A any](ship selection.Selection[Ship, A], station selection.Selection[Station, A]) selection.Selection[Contact, A] { return selection.OnType[Contact](selection.On(ship), selection.On(station)) }`,
		`func NodeOn[A any](ship selection.Selection[Ship, A], station selection.Selection[Station, A]) selection.Selection[Node, A] {`,
		`// Where a ship was built. type Origin string`,
		`OriginMars Origin = "MARS" // Deprecated: merged into MARS OriginBelt Origin = "BELT" )`,
		`func (Origin) EnumName() string { return "Origin" }`,
		`var originDecoder = selection.EnumOf("Origin", OriginEarth, OriginMars, OriginBelt)`,
		`type ShipFilter struct { Origin *Origin NameLike *string Ids *[]string }`,
		`func (ShipFilter) InputTypeName() string { return "ShipFilter" }`,
		`{Name: "origin", Type: "Origin!", Value: in.Origin}, {Name: "name_like", Type: "String", Value: in.NameLike},`,
		`type Stamp = any`,
	} {
		require.Contains(t, src, want)
	}
	require.NotContains(t, src, "Docked")
	require.NotContains(t, src, "type Query ")
}

func TestGenerateDeterministic(t *testing.T) {
	first := generate(t, fleetSDL)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, generate(t, fleetSDL))
	}
}

func TestGenerateTypeParameter(t *testing.T) {
	src := squash(generate(t, `type A { x: Int } type Query { a: A! }`))
	require.Contains(t, src, `func QueryA[A1 any](sel selection.Selection[A, A1]) selection.Selection[selection.RootQuery, A1] {`)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("identifier collision", func(t *testing.T) {
		s, err := schema.BuildFromSDL("c.graphql", `
type Ship { name: String }
type ShipName { x: Int }
enum Kind { a_b A_B }
input Filter { inputFields: Int }
type Query { ship: Ship shipName: ShipName kind: Kind f(filter: Filter): Int }
`)
		require.NoError(t, err)
		_, err = Generate(s, Options{Package: "c"})
		var se *schema.SchemaError
		require.True(t, errors.As(err, &se), "got %v", err)
		want := []string{
			"input Filter: Go field InputFields is generated for both method InputFields and inputFields",
			"Go identifier KindAB is generated for both enum value Kind.a_b and enum value Kind.A_B",
			"Go identifier ShipName is generated for both field Ship.name and type ShipName",
		}
		if diff := cmp.Diff(want, se.Violations); diff != "" {
			t.Fatalf("violations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid schema", func(t *testing.T) {
		s := schema.NewSchema("").SetQueryType("Query")
		s.AddType(schema.NewType("Query", schema.TypeKindObject, "").
			AddField(schema.NewField("hero", "", schema.NamedType("Hero"))))
		_, err := Generate(s, Options{Package: "c"})
		var se *schema.SchemaError
		require.ErrorAs(t, err, &se)
		require.Equal(t, []string{`Query.hero references undefined type "Hero"`}, se.Violations)
	})

	t.Run("package name", func(t *testing.T) {
		s, err := schema.BuildFromSDL("c.graphql", `type Query { a: Int }`)
		require.NoError(t, err)
		_, err = Generate(s, Options{})
		require.ErrorContains(t, err, "package name is required")
		_, err = Generate(s, Options{Package: "not-valid"})
		require.ErrorContains(t, err, "invalid package name")
	})
}
