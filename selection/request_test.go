package selection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// requireValid checks the built query against the fixture schema.
func requireValid(t *testing.T, query string) {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "fixture.graphql", Input: testSchemaSDL})
	require.NoError(t, err)
	_, errs := gqlparser.LoadQuery(s, query)
	require.Empty(t, errs, "query %s", query)
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		doc  func() (WireDocument, error)
		want string
	}{
		{
			name: "inline enum argument",
			doc:  func() (WireDocument, error) { return Build(QueryCharacters(OriginMars, character)) },
			want: `query{characters(origin:MARS){name nicknames origin}}`,
		},
		{
			name: "default applied for nil optional",
			doc:  func() (WireDocument, error) { return Build(QuerySearch(nil, nil, Typename[Being]())) },
			want: `query{search(first:10){__typename}}`,
		},
		{
			name: "input object in field order",
			doc: func() (WireDocument, error) {
				f := &CharacterFilter{Origin: OriginBelt, Limit: ptr[int32](3)}
				return Build(QuerySearch(f, ptr[int32](5), Typename[Being]()))
			},
			want: `query{search(filter:{origin:BELT,limit:3},first:5){__typename}}`,
		},
		{
			name: "inline fragments",
			doc:  func() (WireDocument, error) { return Build(QuerySearch(nil, nil, beingSelection())) },
			want: `query{search(first:10){__typename ... on Droid{name primaryFunction} ... on Human{name}}}`,
		},
		{
			name: "mutation with escaped string",
			doc: func() (WireDocument, error) {
				return Build(MutationRename("1000", "Luke \"Red Five\"\n", CharacterName))
			},
			want: `mutation{rename(id:"1000",name:"Luke \"Red Five\"\n"){name}}`,
		},
		{
			name: "operation name",
			doc: func() (WireDocument, error) {
				return Build(QueryCharacters(OriginEarth, CharacterName), OperationName("Earthlings"))
			},
			want: `query Earthlings{characters(origin:EARTH){name}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tt.doc()
			require.NoError(t, err)
			require.Equal(t, tt.want, doc.Query)
			require.Nil(t, doc.Variables)
			requireValid(t, doc.Query)
		})
	}
}

func TestBuildVariables(t *testing.T) {
	sel := QueryCharacters(OriginMars, character)

	doc, err := Build(sel, UseVariables())
	require.NoError(t, err)
	require.Equal(t, `query($origin:Origin!){characters(origin:$origin){name nicknames origin}}`, doc.Query)
	require.Equal(t, []string{"origin"}, doc.Variables.Order)
	require.Len(t, doc.Variables.Data, 1)
	requireValid(t, doc.Query)

	body, err := json.Marshal(doc)
	require.NoError(t, err)
	require.JSONEq(t, `{"query":"query($origin:Origin!){characters(origin:$origin){name nicknames origin}}","variables":{"origin":"MARS"}}`, string(body))

	t.Run("default declared without payload", func(t *testing.T) {
		doc, err := Build(QuerySearch(nil, nil, Typename[Being]()), UseVariables())
		require.NoError(t, err)
		require.Equal(t, `query($first:Int=10){search(first:$first){__typename}}`, doc.Query)
		require.Empty(t, doc.Variables.Order)
		requireValid(t, doc.Query)
	})

	t.Run("unique names", func(t *testing.T) {
		sel := Combine(
			QueryCharacters(OriginMars, CharacterName).WithAlias("a"),
			QueryCharacters(OriginEarth, CharacterName).WithAlias("b"),
		)
		doc, err := Build(sel, UseVariables())
		require.NoError(t, err)
		require.Equal(t, `query($origin:Origin!,$origin1:Origin!){a:characters(origin:$origin){name} b:characters(origin:$origin1){name}}`, doc.Query)
		require.Equal(t, []string{"origin", "origin1"}, doc.Variables.Order)
		requireValid(t, doc.Query)
	})

	t.Run("input object payload", func(t *testing.T) {
		f := &CharacterFilter{Origin: OriginBelt, NameLike: ptr("Nao")}
		doc, err := Build(QuerySearch(f, nil, Typename[Being]()), UseVariables())
		require.NoError(t, err)
		body, err := json.Marshal(doc.Variables)
		require.NoError(t, err)
		require.Equal(t, `{"filter":{"origin":"BELT","nameLike":"Nao"}}`, string(body))
	})
}

func TestBuildDeterministic(t *testing.T) {
	f := &CharacterFilter{Origin: OriginBelt, NameLike: ptr("Nao"), Limit: ptr[int32](2)}
	sel := Combine(QueryCharacters(OriginMars, character), QuerySearch(f, nil, beingSelection()))

	for _, opts := range [][]BuildOption{nil, {UseVariables()}} {
		first, err := Build(sel, opts...)
		require.NoError(t, err)
		a, err := json.Marshal(first)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := Build(sel, opts...)
			require.NoError(t, err)
			b, err := json.Marshal(again)
			require.NoError(t, err)
			require.Equal(t, string(a), string(b))
		}
	}
}

func TestBuildErrors(t *testing.T) {
	t.Run("empty selection", func(t *testing.T) {
		_, err := Build(Selection[RootQuery, int]{})
		require.Error(t, err)
	})
	t.Run("encoding error names the argument", func(t *testing.T) {
		sel := Field[RootMutation]("rename", Nullable(Object(CharacterName)),
			Argument{Name: "id", Type: "ID!", Value: []string{"1000"}})
		_, err := Build(sel)
		var ee *EncodingError
		require.ErrorAs(t, err, &ee)
		require.Equal(t, "id", ee.Argument)
		require.Equal(t, "ID!", ee.Expected)
		require.Equal(t, "[]string", ee.Actual)
	})
	t.Run("empty side of a combine", func(t *testing.T) {
		_, err := Build(Combine(Selection[RootQuery, int]{}, QueryCharacters(OriginMars, CharacterName)))
		require.ErrorIs(t, err, errEmptySelection)
		_, err = Build(Map2(QueryCharacters(OriginMars, CharacterName), Selection[RootQuery, int]{}, func([]string, int) int { return 0 }))
		require.ErrorIs(t, err, errEmptySelection)
	})
	t.Run("same key with different arguments", func(t *testing.T) {
		_, err := Build(Combine(QueryCharacters(OriginMars, CharacterName), QueryCharacters(OriginEarth, CharacterName)))
		var fc *FieldConflictError
		require.ErrorAs(t, err, &fc)
		require.Equal(t, FieldConflictError{Key: "characters", First: "characters(origin:MARS)", Second: "characters(origin:EARTH)"}, *fc)
	})
	t.Run("same key with different fields", func(t *testing.T) {
		sel := QueryCharacters(OriginMars, Combine(CharacterName, Map(CharacterOrigin, func(o Origin) string { return string(o) }).WithAlias("name")))
		_, err := Build(sel, UseVariables())
		var fc *FieldConflictError
		require.ErrorAs(t, err, &fc)
		require.Equal(t, FieldConflictError{Key: "name", First: "name", Second: "origin"}, *fc)
	})
	t.Run("fragment field against outer field", func(t *testing.T) {
		outer := Field[Being]("name", String)
		inner := BeingOn(Map(DroidPrimaryFunction, func(*string) string { return "" }).WithAlias("name"), HumanName)
		_, err := Build(QuerySearch(nil, nil, Combine(outer, inner)))
		var fc *FieldConflictError
		require.ErrorAs(t, err, &fc)
		require.Equal(t, "name", fc.Key)
	})
	t.Run("invalid operation name", func(t *testing.T) {
		_, err := Build(QueryCharacters(OriginMars, CharacterName), OperationName("1st"))
		require.Error(t, err)
	})
}

func TestBuildMergesSameField(t *testing.T) {
	sel := Combine(
		QueryCharacters(OriginMars, CharacterName),
		QueryCharacters(OriginMars, CharacterOrigin),
	)
	doc, err := Build(sel)
	require.NoError(t, err)
	require.Equal(t, `query{characters(origin:MARS){name} characters(origin:MARS){origin}}`, doc.Query)
	requireValid(t, doc.Query)

	got, err := DecodeResponse(sel, []byte(`{"data":{"characters":[{"name":"Bobbie","origin":"MARS"}]}}`))
	require.NoError(t, err)
	require.Equal(t, Pair[[]string, []Origin]{First: []string{"Bobbie"}, Second: []Origin{OriginMars}}, got)

	aliased := Combine(
		QueryCharacters(OriginMars, CharacterName).WithAlias("mars"),
		QueryCharacters(OriginEarth, CharacterName).WithAlias("earth"),
	)
	doc, err = Build(aliased)
	require.NoError(t, err)
	require.Equal(t, `query{mars:characters(origin:MARS){name} earth:characters(origin:EARTH){name}}`, doc.Query)
	requireValid(t, doc.Query)

	pair, err := DecodeResponse(aliased, []byte(`{"data":{"mars":[{"name":"Bobbie"}],"earth":[{"name":"Amos"}]}}`))
	require.NoError(t, err)
	require.Equal(t, Pair[[]string, []string]{First: []string{"Bobbie"}, Second: []string{"Amos"}}, pair)
}
