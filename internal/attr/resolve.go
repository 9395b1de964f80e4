package attr

import (
	"deriver/internal/annotation"
	"deriver/internal/capability"
	"deriver/internal/diagnostic"
)

// walk visits every capability entry of the derive attributes in annots and
// calls apply for the single entry naming target.
func walk(
	annots annotation.Annotations,
	active capability.Set,
	target capability.Capability,
	apply func(*annotation.Meta) error,
) error {
	var seen bool

	for _, attribute := range annots.Derive() {
		if attribute.Kind != annotation.KindList {
			return diagnostic.MalformedAnnotationTree(
				"the "+annotation.Attribute+" attribute must be a list of capabilities", attribute.Pos)
		}

		for _, item := range attribute.Items {
			if item.Meta == nil {
				return diagnostic.MalformedAnnotationTree(
					"expected a capability name, found literal "+item.String(), item.Pos())
			}

			c, ok := capability.Parse(item.Meta.Name)
			if !ok || !active.Contains(c) {
				return diagnostic.CapabilityNotInUse(item.Meta.Name, item.Meta.Pos)
			}

			if c != target {
				continue
			}

			if seen {
				return diagnostic.CapabilityReused(c.String(), item.Meta.Pos)
			}

			seen = true

			if err := apply(item.Meta); err != nil {
				return err
			}
		}
	}

	return nil
}

// literalBody converts a literal into an expression body. String literals
// contribute their unquoted contents; other literals their source text.
func literalBody(lit annotation.Literal) Body {
	return Body{Code: lit.Value, Pos: lit.Pos}
}

// singleLiteral returns the only item of a list meta when it is a literal.
func singleLiteral(m *annotation.Meta) (annotation.Literal, bool) {
	if m.Kind != annotation.KindList || len(m.Items) != 1 || m.Items[0].Lit == nil {
		return annotation.Literal{}, false
	}

	return *m.Items[0].Lit, true
}

// expressionParam decodes `expression = "..."` and `expression("...")`.
func expressionParam(m *annotation.Meta) (Body, bool) {
	switch m.Kind {
	case annotation.KindKeyValue:
		return literalBody(m.Value), true
	case annotation.KindList:
		if lit, ok := singleLiteral(m); ok {
			return literalBody(lit), true
		}
	}

	return Body{}, false
}

// isExpressionName reports whether name spells the expression parameter.
func isExpressionName(name string) bool {
	return name == "expression" || name == "expr"
}
