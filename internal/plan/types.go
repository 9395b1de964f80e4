package plan

import (
	"deriver/internal/analyze"
	"deriver/internal/attr"
	"deriver/internal/capability"
	"deriver/internal/common"
	"deriver/internal/diagnostic"
)

// DerivationPlan is the final output of the resolution pipeline.
// It contains everything needed for code generation.
type DerivationPlan struct {
	// Types holds one result per input aggregate, in input order.
	Types []TypeResult
	// Diagnostics merges the diagnostics of every type result.
	Diagnostics diagnostic.Diagnostics
}

// Implementations returns every successful implementation, in order.
func (p *DerivationPlan) Implementations() []Implementation {
	var out []Implementation
	for _, t := range p.Types {
		out = append(out, t.Implementations...)
	}

	return out
}

// TypeResult is the outcome of deriving every active capability of one aggregate.
type TypeResult struct {
	Aggregate *analyze.Aggregate
	// Active is the sorted set of capabilities declared on the type.
	Active capability.Set
	// Implementations holds the capabilities that derived successfully.
	Implementations []Implementation
	// Diagnostics holds the failures of the other capabilities.
	Diagnostics diagnostic.Diagnostics
}

// Implementation is the generated implementation of one capability for one
// aggregate, ready for emission.
type Implementation struct {
	Capability capability.Capability
	// Target is the aggregate the capability is implemented for.
	Target *analyze.Aggregate
	// GenericParams are the target's type parameters.
	GenericParams []analyze.TypeParam
	// Constraints are the additional requirements on GenericParams.
	Constraints []attr.Constraint
	Body        Body
	// Constructor is the optional auxiliary zero-argument constructor.
	Constructor *Body
}

// ConstraintsFor returns the constraints on one generic parameter.
func (impl *Implementation) ConstraintsFor(param string) []attr.Constraint {
	var out []attr.Constraint

	for _, c := range impl.Constraints {
		if c.Param == param {
			out = append(out, c)
		}
	}

	return out
}

// BodyKind selects the shape of a generated body.
type BodyKind int

const (
	// BodyExpression is a user supplied override used verbatim.
	BodyExpression BodyKind = iota
	// BodyComposite builds the aggregate from per-field initializers.
	BodyComposite
	// BodyFieldAccess returns one selected field.
	BodyFieldAccess
	// BodyForward calls the implementation of Capability on the target.
	BodyForward
)

// String returns the kind name.
func (k BodyKind) String() string {
	switch k {
	case BodyExpression:
		return "expression"
	case BodyComposite:
		return "composite"
	case BodyFieldAccess:
		return "field-access"
	case BodyForward:
		return "forward"
	default:
		return common.UnknownStr
	}
}

// Body is a generated implementation body.
type Body struct {
	Kind BodyKind
	// Expr is set for BodyExpression.
	Expr attr.Body
	// Inits is set for BodyComposite, in declaration order.
	Inits []FieldInit
	// FieldIndex is set for BodyFieldAccess.
	FieldIndex int
	// Capability is set for BodyForward.
	Capability capability.Capability
}

// InitSource tells how a field is initialized in a composite body.
type InitSource int

const (
	// InitFallback calls the field type's own implementation of the capability.
	InitFallback InitSource = iota
	// InitExpression uses the field's override expression.
	InitExpression
)

// FieldInit initializes one field of a composite body.
type FieldInit struct {
	Field analyze.Field
	// Index is the field's declaration index.
	Index  int
	Source InitSource
	// Expr is set for InitExpression.
	Expr attr.Body
}
