package selection

// Hand-written accessors in the shape cmd/gqlclient generates for:
//
//	enum Origin { EARTH MARS BELT }
//	type Character { name: String! nicknames: [String!]! origin: Origin! }
//	type Droid { name: String! primaryFunction: String }
//	type Human { name: String! height: Float }
//	union Being = Droid | Human
//	input CharacterFilter { origin: Origin! nameLike: String limit: Int }
//	type Query {
//	  characters(origin: Origin!): [Character!]!
//	  search(filter: CharacterFilter, first: Int = 10): [Being!]!
//	}
//	type Mutation { rename(id: ID!, name: String!): Character }

const testSchemaSDL = `
enum Origin { EARTH MARS BELT }
type Character { name: String! nicknames: [String!]! origin: Origin! }
type Droid { name: String! primaryFunction: String }
type Human { name: String! height: Float }
union Being = Droid | Human
input CharacterFilter { origin: Origin! nameLike: String limit: Int }
type Query {
  characters(origin: Origin!): [Character!]!
  search(filter: CharacterFilter, first: Int = 10): [Being!]!
}
type Mutation { rename(id: ID!, name: String!): Character }
`

type Character struct{}

func (Character) TypeName() string { return "Character" }

type Droid struct{}

func (Droid) TypeName() string { return "Droid" }

type Human struct{}

func (Human) TypeName() string { return "Human" }

type Being struct{}

func (Being) TypeName() string { return "Being" }

type Origin string

const (
	OriginEarth Origin = "EARTH"
	OriginMars  Origin = "MARS"
	OriginBelt  Origin = "BELT"
)

func (Origin) EnumName() string { return "Origin" }

var originDecoder = EnumOf("Origin", OriginEarth, OriginMars, OriginBelt)

type CharacterFilter struct {
	Origin   Origin
	NameLike *string
	Limit    *int32
}

func (CharacterFilter) InputTypeName() string { return "CharacterFilter" }

func (in CharacterFilter) InputFields() []InputField {
	return []InputField{
		{Name: "origin", Type: "Origin!", Value: in.Origin},
		{Name: "nameLike", Type: "String", Value: in.NameLike},
		{Name: "limit", Type: "Int", Value: in.Limit},
	}
}

var (
	CharacterName      = Field[Character]("name", String)
	CharacterNicknames = Field[Character]("nicknames", List(String))
	CharacterOrigin    = Field[Character]("origin", originDecoder)

	DroidName            = Field[Droid]("name", String)
	DroidPrimaryFunction = Field[Droid]("primaryFunction", Nullable(String))

	HumanName   = Field[Human]("name", String)
	HumanHeight = Field[Human]("height", Nullable(Float))
)

func QueryCharacters[A any](origin Origin, sel Selection[Character, A]) Selection[RootQuery, []A] {
	return Field[RootQuery]("characters", List(Object(sel)),
		Argument{Name: "origin", Type: "Origin!", Value: origin})
}

func QuerySearch[A any](filter *CharacterFilter, first *int32, sel Selection[Being, A]) Selection[RootQuery, []A] {
	return Field[RootQuery]("search", List(Object(sel)),
		Argument{Name: "filter", Type: "CharacterFilter", Value: filter},
		Argument{Name: "first", Type: "Int", Value: first, Default: "10"})
}

func MutationRename[A any](id string, name string, sel Selection[Character, A]) Selection[RootMutation, *A] {
	return Field[RootMutation]("rename", Nullable(Object(sel)),
		Argument{Name: "id", Type: "ID!", Value: id},
		Argument{Name: "name", Type: "String!", Value: name})
}

func BeingOn[A any](droid Selection[Droid, A], human Selection[Human, A]) Selection[Being, A] {
	return OnType[Being](On(droid), On(human))
}

// character is the Character selection used throughout the tests.
var character = Combine(Combine(CharacterName, CharacterNicknames), CharacterOrigin)

func ptr[T any](v T) *T { return &v }
