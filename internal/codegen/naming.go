package codegen

import (
	"go/token"
	"strings"
	"unicode"
)

// exported turns a GraphQL name into an exported Go identifier by
// capitalizing each underscore separated part: primary_function becomes
// PrimaryFunction. It returns "" when name has no letters or digits.
func exported(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(capitalize(part))
	}
	out := b.String()
	if out == "" || !unicode.IsLetter(rune(out[0])) {
		return ""
	}
	return out
}

// enumConst names the constant for an enum value. Upper case values are
// folded first, so NEW_HOPE on Episode becomes EpisodeNewHope.
func enumConst(enum, value string) string {
	v := value
	if strings.ToUpper(v) == v {
		v = strings.ToLower(v)
	}
	part := exported(v)
	if part == "" {
		return ""
	}
	return exported(enum) + part
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// unexported lowers the leading upper case run of an identifier, keeping
// the last letter of the run when it starts a new word: URLKind becomes
// urlKind.
func unexported(s string) string {
	n := 0
	for n < len(s) && unicode.IsUpper(rune(s[n])) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == len(s):
		return strings.ToLower(s)
	case n > 1 && unicode.IsLower(rune(s[n])):
		n--
	}
	return strings.ToLower(s[:n]) + s[n:]
}

func decoderVar(enum string) string {
	return unexported(exported(enum)) + "Decoder"
}

// paramName maps a GraphQL argument or type name to a parameter name that
// is neither a keyword nor shadows a package level identifier.
func paramName(name string, reserved map[string]string) string {
	p := name
	if strings.Trim(p, "_") == "" {
		p = "arg"
	}
	if token.IsKeyword(p) || p == "sel" || p == "selection" || reserved[p] != "" {
		p += "Arg"
	}
	return p
}
