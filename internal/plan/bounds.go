package plan

import (
	"deriver/internal/analyze"
	"deriver/internal/attr"
	"deriver/internal/capability"
)

// InferBounds computes the constraints on params required by an
// implementation of c whose fallback calls construct the fallback types.
//
//   - explicit: the user list, unchanged
//   - none: no constraints
//   - auto: one "P implements c" constraint per parameter appearing in any
//     fallback type, in parameter declaration order
func InferBounds(
	bound attr.Bound,
	fallback []*analyze.TypeRef,
	params []analyze.TypeParam,
	c capability.Capability,
) []attr.Constraint {
	switch bound.Mode {
	case attr.BoundExplicit:
		return append([]attr.Constraint(nil), bound.Constraints...)
	case attr.BoundNone:
		return nil
	}

	var out []attr.Constraint

	for _, p := range params {
		for _, t := range fallback {
			if t.Mentions(p.Name) {
				out = append(out, attr.Constraint{Param: p.Name, Bound: c.Method(p.Name)})
				break
			}
		}
	}

	return out
}
