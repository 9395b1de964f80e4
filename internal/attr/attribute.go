package attr

import (
	"deriver/internal/common"
	"deriver/internal/diagnostic"
)

// Body is a piece of target-language code taken verbatim from an annotation.
type Body struct {
	Code string
	Pos  diagnostic.Position
}

// SelectionKind distinguishes the three states of a selection.
type SelectionKind int

const (
	SelectionUnset SelectionKind = iota
	SelectionFlag
	SelectionExpression
)

// String returns the state name.
func (k SelectionKind) String() string {
	switch k {
	case SelectionUnset:
		return "unset"
	case SelectionFlag:
		return "flag"
	case SelectionExpression:
		return "expression"
	default:
		return common.UnknownStr
	}
}

// Selection is either unset, a bare flag, or an expression override. A flag
// and an expression can never be set together.
type Selection struct {
	Kind SelectionKind
	Expr Body // SelectionExpression only
	Pos  diagnostic.Position
}

// FlagAt returns a flag selection.
func FlagAt(pos diagnostic.Position) Selection {
	return Selection{Kind: SelectionFlag, Pos: pos}
}

// ExpressionAt returns an expression selection.
func ExpressionAt(body Body, pos diagnostic.Position) Selection {
	return Selection{Kind: SelectionExpression, Expr: body, Pos: pos}
}

// IsActive reports whether the selection is a flag or an expression.
func (s Selection) IsActive() bool {
	return s.Kind != SelectionUnset
}

// IsFlag reports whether the selection is a bare flag.
func (s Selection) IsFlag() bool {
	return s.Kind == SelectionFlag
}

// Expression returns the override body, if any.
func (s Selection) Expression() (Body, bool) {
	if s.Kind != SelectionExpression {
		return Body{}, false
	}

	return s.Expr, true
}

// BoundMode selects how generic constraints are produced.
type BoundMode int

const (
	// BoundAuto infers constraints from the field types that fall back to
	// the capability. It is the default.
	BoundAuto BoundMode = iota
	// BoundExplicit uses the user supplied constraints verbatim.
	BoundExplicit
	// BoundNone emits no constraints.
	BoundNone
)

// String returns the mode name.
func (m BoundMode) String() string {
	switch m {
	case BoundAuto:
		return "auto"
	case BoundExplicit:
		return "explicit"
	case BoundNone:
		return "none"
	default:
		return common.UnknownStr
	}
}

// Constraint requires a generic parameter to satisfy Bound.
type Constraint struct {
	Param string
	// Bound is the requirement in target-language syntax, e.g. "fmt.Stringer"
	// or "Default() K".
	Bound string
}

// String renders the constraint as "Param: Bound".
func (c Constraint) String() string {
	return c.Param + ": " + c.Bound
}

// Bound is the resolved bound directive of a type attribute.
type Bound struct {
	Mode        BoundMode
	Constraints []Constraint // BoundExplicit only
}

// TypeAttribute holds the type-wide directives of one capability.
type TypeAttribute struct {
	// Selection is a flag for the bare `Cap` form or an expression override
	// for the whole implementation body.
	Selection Selection
	// New requests an auxiliary zero-argument constructor.
	New   bool
	Bound Bound
	// Pos is the position of the resolved entry; zero when absent.
	Pos diagnostic.Position
}

// Flag reports whether the bare flag form was used.
func (a TypeAttribute) Flag() bool {
	return a.Selection.IsFlag()
}

// Expression returns the type-level override body, if any.
func (a TypeAttribute) Expression() (Body, bool) {
	return a.Selection.Expression()
}

// FieldAttribute holds the per-field directives of one capability.
type FieldAttribute struct {
	Selection Selection
	// Pos is the position of the resolved entry; zero when absent.
	Pos diagnostic.Position
}

// IsActive reports whether the field selects itself (flag or expression).
func (a FieldAttribute) IsActive() bool {
	return a.Selection.IsActive()
}

// Flag reports whether the bare flag form was used.
func (a FieldAttribute) Flag() bool {
	return a.Selection.IsFlag()
}

// Expression returns the field override body, if any.
func (a FieldAttribute) Expression() (Body, bool) {
	return a.Selection.Expression()
}
