package analyze

import (
	"strconv"
	"strings"

	"deriver/internal/annotation"
	"deriver/internal/common"
	"deriver/internal/diagnostic"
)

// AggregateKind tags how the fields of an aggregate are laid out.
type AggregateKind int

const (
	// KindRecord stores every field.
	KindRecord AggregateKind = iota
	// KindUnion stores one member at a time.
	KindUnion
	// KindTaggedUnion stores one variant at a time together with its tag.
	KindTaggedUnion
)

// String returns the manifest spelling of the kind.
func (k AggregateKind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindTaggedUnion:
		return "tagged"
	default:
		return common.UnknownStr
	}
}

// IsUnion reports whether only one member is stored at a time.
func (k AggregateKind) IsUnion() bool {
	return k == KindUnion || k == KindTaggedUnion
}

// ParseAggregateKind parses a manifest kind name. The empty string is a record.
func ParseAggregateKind(s string) (AggregateKind, bool) {
	switch s {
	case "", "record", "struct":
		return KindRecord, true
	case "union":
		return KindUnion, true
	case "tagged", "tagged-union", "enum":
		return KindTaggedUnion, true
	default:
		return KindRecord, false
	}
}

// TypeParam is a generic parameter of an aggregate.
type TypeParam struct {
	Name string
	// Constraint is the declared constraint; nil means any.
	Constraint *TypeRef
}

// ConstraintString renders the declared constraint.
func (p TypeParam) ConstraintString() string {
	if p.Constraint == nil {
		return "any"
	}

	return p.Constraint.String()
}

// Field is an immutable view of one aggregate member.
type Field struct {
	// Name is empty for unnamed (embedded or positional) members.
	Name        string
	Type        *TypeRef
	Embedded    bool
	Pos         diagnostic.Position
	Annotations annotation.Annotations
}

// AccessName returns the selector used to reach the field: its name, or the
// base type name for embedded fields.
func (f Field) AccessName() string {
	if f.Name != "" {
		return f.Name
	}

	if f.Type != nil {
		return f.Type.BaseName()
	}

	return ""
}

// Label names the field in diagnostics; index is its declaration index.
func (f Field) Label(index int) string {
	if name := f.AccessName(); name != "" {
		return name
	}

	return "#" + strconv.Itoa(index)
}

// Aggregate describes one user-defined type a capability is derived for.
type Aggregate struct {
	Name        string
	PkgPath     string
	PkgName     string
	Kind        AggregateKind
	TypeParams  []TypeParam
	Fields      []Field
	Pos         diagnostic.Position
	Annotations annotation.Annotations
}

// ParamNames returns the type parameter names in declaration order.
func (a *Aggregate) ParamNames() []string {
	names := make([]string, 0, len(a.TypeParams))
	for _, p := range a.TypeParams {
		names = append(names, p.Name)
	}

	return names
}

// TypeExpr renders the aggregate instantiated with its own parameters,
// e.g. "Pair[K, V]".
func (a *Aggregate) TypeExpr() string {
	if len(a.TypeParams) == 0 {
		return a.Name
	}

	return a.Name + "[" + strings.Join(a.ParamNames(), ", ") + "]"
}

// ID returns the qualified name used in logs and diagnostics.
func (a *Aggregate) ID() string {
	if a.PkgPath == "" {
		return a.Name
	}

	return a.PkgPath + "." + a.Name
}
