package annotation

import (
	"strconv"
	"strings"

	"deriver/internal/common"
	"deriver/internal/diagnostic"
)

// Attribute is the name of the attribute the resolvers read. Attributes with
// any other name are ignored.
const Attribute = "derive"

// Kind is the syntactic shape of a Meta.
type Kind int

const (
	KindMarker Kind = iota
	KindList
	KindKeyValue
)

// String returns the shape name.
func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindList:
		return "list"
	case KindKeyValue:
		return "key-value"
	default:
		return common.UnknownStr
	}
}

// LiteralKind is the type of a Literal.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitInt
	LitBool
)

// Literal is a constant value in a list item or on the right of `=`.
type Literal struct {
	Kind LiteralKind
	// Value is the unquoted value for strings and the source text otherwise.
	Value string
	Pos   diagnostic.Position
}

// String renders the literal in source form.
func (l Literal) String() string {
	if l.Kind == LitString {
		return strconv.Quote(l.Value)
	}

	return l.Value
}

// Bool returns the boolean value of a LitBool literal.
func (l Literal) Bool() (bool, bool) {
	if l.Kind != LitBool {
		return false, false
	}

	return l.Value == "true", true
}

// Item is one element of a list: exactly one of Meta and Lit is set.
type Item struct {
	Meta *Meta
	Lit  *Literal
}

// Pos returns the position of whichever element is set.
func (it Item) Pos() diagnostic.Position {
	if it.Meta != nil {
		return it.Meta.Pos
	}

	if it.Lit != nil {
		return it.Lit.Pos
	}

	return diagnostic.Position{}
}

// String renders the item in source form.
func (it Item) String() string {
	if it.Meta != nil {
		return it.Meta.String()
	}

	if it.Lit != nil {
		return it.Lit.String()
	}

	return ""
}

// Meta is a named annotation entry.
type Meta struct {
	Name  string
	Kind  Kind
	Items []Item  // KindList only
	Value Literal // KindKeyValue only
	Pos   diagnostic.Position
}

// String renders the meta in canonical source form.
func (m *Meta) String() string {
	switch m.Kind {
	case KindList:
		parts := make([]string, 0, len(m.Items))
		for _, it := range m.Items {
			parts = append(parts, it.String())
		}

		return m.Name + "(" + strings.Join(parts, ", ") + ")"
	case KindKeyValue:
		return m.Name + " = " + m.Value.String()
	default:
		return m.Name
	}
}

// Marker builds a marker meta.
func Marker(name string) *Meta {
	return &Meta{Name: name, Kind: KindMarker}
}

// List builds a list meta from nested metas.
func List(name string, metas ...*Meta) *Meta {
	m := &Meta{Name: name, Kind: KindList}
	for _, nested := range metas {
		m.Items = append(m.Items, Item{Meta: nested})
	}

	return m
}

// KeyValue builds a key-value meta with a string literal.
func KeyValue(name, value string) *Meta {
	return &Meta{Name: name, Kind: KindKeyValue, Value: Literal{Kind: LitString, Value: value}}
}

// Derive builds a `derive(...)` attribute from nested metas.
func Derive(metas ...*Meta) *Meta {
	return List(Attribute, metas...)
}

// Annotations is the ordered list of raw attributes attached to one entity.
type Annotations []*Meta

// Derive returns the attributes named Attribute, in order.
func (a Annotations) Derive() []*Meta {
	var out []*Meta

	for _, m := range a {
		if m != nil && m.Name == Attribute {
			out = append(out, m)
		}
	}

	return out
}
