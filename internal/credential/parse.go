package credential

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Shape tags how a persisted value carried its token.
type Shape int

const (
	// ShapeNone: the value was a JSON object with no usable token, or was empty.
	ShapeNone Shape = iota
	// ShapeNested: {"session": {"access_token": "..."}}
	ShapeNested
	// ShapeFlat: {"access_token": "..."}
	ShapeFlat
	// ShapeRaw: not a JSON object; the whole value is a legacy plain token.
	ShapeRaw
)

func (s Shape) String() string {
	switch s {
	case ShapeNested:
		return "nested"
	case ShapeFlat:
		return "flat"
	case ShapeRaw:
		return "raw"
	default:
		return "none"
	}
}

// Parsed is the result of unwrapping a persisted credential value.
type Parsed struct {
	Shape Shape
	Token string
}

// OK reports whether a token was found.
func (p Parsed) OK() bool { return p.Shape != ShapeNone && p.Token != "" }

// ParseToken unwraps a persisted value. The nested session form wins over
// the flat form. A value that is not a JSON object (plain text, a bare number)
// is returned as-is.
func ParseToken(raw string) Parsed {
	if strings.TrimSpace(raw) == "" {
		return Parsed{Shape: ShapeNone}
	}
	if !gjson.Valid(raw) {
		return Parsed{Shape: ShapeRaw, Token: raw}
	}

	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return Parsed{Shape: ShapeRaw, Token: raw}
	}
	if tok := stringField(doc, "session.access_token"); tok != "" {
		return Parsed{Shape: ShapeNested, Token: tok}
	}
	if tok := stringField(doc, "access_token"); tok != "" {
		return Parsed{Shape: ShapeFlat, Token: tok}
	}
	return Parsed{Shape: ShapeNone}
}

func stringField(doc gjson.Result, path string) string {
	v := doc.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}
