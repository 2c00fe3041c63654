package selection

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponse(t *testing.T) {
	sel := QueryCharacters(OriginMars, character)

	t.Run("data", func(t *testing.T) {
		body := `{"data":{"characters":[{"name":"Naomi","nicknames":[],"origin":"BELT"}]}}`
		got, err := DecodeResponse(sel, []byte(body))
		require.NoError(t, err)
		want := []Pair[Pair[string, []string], Origin]{{
			First:  Pair[string, []string]{First: "Naomi", Second: []string{}},
			Second: OriginBelt,
		}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("decoded value mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("server errors are not decoded", func(t *testing.T) {
		body := `{"data":{"characters":null},"errors":[{"message":"boom","path":["characters"]},{"message":"again"}]}`
		_, err := DecodeResponse(sel, []byte(body))
		var se *ServerError
		require.ErrorAs(t, err, &se)
		require.Len(t, se.Errors, 2)
		require.Equal(t, "server error: boom; again", se.Error())
		require.JSONEq(t, `{"characters":null}`, string(se.Data))
		require.NotErrorIs(t, err, ErrDecode)
	})

	t.Run("null data", func(t *testing.T) {
		_, err := DecodeResponse(sel, []byte(`{"data":null}`))
		var me *MissingFieldError
		require.ErrorAs(t, err, &me)
		require.Equal(t, "data", me.Field)
	})

	t.Run("data is not an object", func(t *testing.T) {
		_, err := DecodeResponse(sel, []byte(`{"data":[1]}`))
		var tm *TypeMismatchError
		require.ErrorAs(t, err, &tm)
		require.Equal(t, "list", tm.Actual)
	})

	t.Run("invalid body", func(t *testing.T) {
		_, err := DecodeResponse(sel, []byte(`<html>`))
		require.ErrorIs(t, err, ErrDecode)
	})
}

type sample struct {
	Name      string
	Nicknames []string
	Origin    Origin
}

var sampleSelection = Map3(CharacterName, CharacterNicknames, CharacterOrigin, func(n string, nn []string, o Origin) sample {
	return sample{Name: n, Nicknames: nn, Origin: o}
})

func (s sample) response() map[string]any {
	return map[string]any{"name": s.Name, "nicknames": s.Nicknames, "origin": s.Origin}
}

// TestRoundTrip encodes sample values as a response and decodes them back.
func TestRoundTrip(t *testing.T) {
	samples := []sample{
		{Name: "Luke", Nicknames: []string{"Red Five"}, Origin: OriginMars},
		{Name: "Amos", Nicknames: []string{}, Origin: OriginEarth},
		{Name: "", Nicknames: []string{"a", "b", "c"}, Origin: OriginBelt},
	}
	for _, s := range samples {
		raw, err := json.Marshal(map[string]any{"data": s.response()})
		require.NoError(t, err)
		got, err := DecodeResponse(sampleSelection, raw)
		require.NoError(t, err)
		if diff := cmp.Diff(s, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRoundTripNested(t *testing.T) {
	type world struct {
		Hero  *sample
		Crew  []sample
		Found []being
	}
	sel := Map3(
		Field[RootQuery]("hero", Nullable(Object(sampleSelection))),
		QueryCharacters(OriginMars, sampleSelection),
		QuerySearch(nil, nil, beingSelection()),
		func(hero *sample, crew []sample, found []being) world {
			return world{Hero: hero, Crew: crew, Found: found}
		},
	)

	luke := sample{Name: "Luke", Nicknames: []string{"Red Five"}, Origin: OriginMars}
	naomi := sample{Name: "Naomi", Nicknames: []string{}, Origin: OriginBelt}
	worlds := []world{
		{Hero: &luke, Crew: []sample{luke, naomi}, Found: []being{{Kind: "droid", Name: "R2-D2"}, {Kind: "human", Name: "Leia"}}},
		{Hero: nil, Crew: []sample{}, Found: []being{}},
		{Hero: &naomi, Crew: []sample{naomi}, Found: []being{{Kind: "human", Name: "Han"}}},
	}
	for _, w := range worlds {
		var hero any
		if w.Hero != nil {
			hero = w.Hero.response()
		}
		crew := make([]any, 0, len(w.Crew))
		for _, c := range w.Crew {
			crew = append(crew, c.response())
		}
		found := make([]any, 0, len(w.Found))
		for _, b := range w.Found {
			switch b.Kind {
			case "droid":
				found = append(found, map[string]any{"__typename": "Droid", "name": b.Name, "primaryFunction": nil})
			case "human":
				found = append(found, map[string]any{"__typename": "Human", "name": b.Name})
			}
		}
		raw, err := json.Marshal(map[string]any{
			"data": map[string]any{"hero": hero, "characters": crew, "search": found},
		})
		require.NoError(t, err)
		got, err := DecodeResponse(sel, raw)
		require.NoError(t, err)
		if diff := cmp.Diff(w, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}
