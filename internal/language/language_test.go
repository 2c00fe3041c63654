package language

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const sdl = `
enum Origin { EARTH MARS }
type Character { name: String! origin: Origin! }
type Query { characters(origin: Origin!): [Character!]! }
`

func TestValidateQuery(t *testing.T) {
	s, err := LoadSchema("test.graphql", sdl)
	require.NoError(t, err)
	require.Equal(t, "Query", s.Query.Name)

	doc, err := ValidateQuery(s, `query{characters(origin:MARS){name origin}}`)
	require.NoError(t, err)
	require.Len(t, doc.Operations, 1)
	require.Equal(t, Query, doc.Operations[0].Operation)

	_, err = ValidateQuery(s, `query{characters{name}}`)
	var list gqlerror.List
	require.ErrorAs(t, err, &list)
	require.NotEmpty(t, list)
}

func TestParseQuery(t *testing.T) {
	doc, err := ParseQuery(`mutation M($id: ID!){rename(id:$id){name}}`)
	require.NoError(t, err)
	require.Equal(t, Mutation, doc.Operations[0].Operation)
	require.Equal(t, "M", doc.Operations[0].Name)

	_, err = ParseQuery(`query{`)
	require.Error(t, err)
}

func TestLoadSchemaError(t *testing.T) {
	_, err := LoadSchema("bad.graphql", `type Query { a: Nope }`)
	require.Error(t, err)
}
