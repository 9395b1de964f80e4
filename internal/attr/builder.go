package attr

import (
	"deriver/internal/annotation"
	"deriver/internal/capability"
	"deriver/internal/diagnostic"
)

// TypeAttributeBuilder resolves the type-level attribute of one capability.
type TypeAttributeBuilder struct {
	Capability capability.Capability
	Features
}

// FromAnnotations resolves the type's raw annotations. A type without an
// entry for the capability yields the zero attribute (auto bounds).
func (b TypeAttributeBuilder) FromAnnotations(annots annotation.Annotations, active capability.Set) (TypeAttribute, error) {
	var result TypeAttribute

	err := walk(annots, active, b.Capability, func(m *annotation.Meta) error {
		a, err := b.FromMeta(m)
		if err != nil {
			return err
		}

		result = a

		return nil
	})

	return result, err
}

// FromMeta decodes a single `Cap`, `Cap = "expr"` or `Cap(...)` entry.
func (b TypeAttributeBuilder) FromMeta(m *annotation.Meta) (TypeAttribute, error) {
	result := TypeAttribute{Pos: m.Pos}

	incorrect := func(pos diagnostic.Position) error {
		return diagnostic.IncorrectAttributeFormat(b.Capability.String(), typeUsages(b.Capability, b.Features), pos)
	}

	switch m.Kind {
	case annotation.KindMarker:
		if !b.Flag {
			return TypeAttribute{}, incorrect(m.Pos)
		}

		result.Selection = FlagAt(m.Pos)

	case annotation.KindKeyValue:
		if !b.Expression {
			return TypeAttribute{}, incorrect(m.Pos)
		}

		result.Selection = ExpressionAt(literalBody(m.Value), m.Pos)

	case annotation.KindList:
		if len(m.Items) == 0 {
			return TypeAttribute{}, incorrect(m.Pos)
		}

		var newSet, boundSet bool

		for _, it := range m.Items {
			pos := it.Pos()

			if it.Lit != nil {
				if !b.Expression || result.Selection.IsActive() {
					return TypeAttribute{}, incorrect(pos)
				}

				result.Selection = ExpressionAt(literalBody(*it.Lit), pos)

				continue
			}

			p := it.Meta

			switch {
			case p.Name == "new":
				if !b.New || newSet || p.Kind != annotation.KindMarker {
					return TypeAttribute{}, incorrect(pos)
				}

				newSet = true
				result.New = true

			case isExpressionName(p.Name):
				if !b.Expression || result.Selection.IsActive() {
					return TypeAttribute{}, incorrect(pos)
				}

				body, ok := expressionParam(p)
				if !ok {
					return TypeAttribute{}, incorrect(pos)
				}

				result.Selection = ExpressionAt(body, pos)

			case p.Name == "bound":
				if !b.Bound || boundSet {
					return TypeAttribute{}, incorrect(pos)
				}

				bound, err := parseBoundParam(p)
				if err != nil {
					e := diagnostic.IncorrectAttributeFormat(b.Capability.String(), typeUsages(b.Capability, b.Features), pos)
					e.Detail = err.Error()

					return TypeAttribute{}, e
				}

				boundSet = true
				result.Bound = bound

			default:
				return TypeAttribute{}, incorrect(pos)
			}
		}
	}

	return result, nil
}

// FieldAttributeBuilder resolves the field-level attribute of one capability.
// Only the Flag and Expression features apply to fields.
type FieldAttributeBuilder struct {
	Capability capability.Capability
	Features
}

// FromAnnotations resolves one field's raw annotations. A field without an
// entry for the capability yields an inactive attribute.
func (b FieldAttributeBuilder) FromAnnotations(annots annotation.Annotations, active capability.Set) (FieldAttribute, error) {
	var result FieldAttribute

	err := walk(annots, active, b.Capability, func(m *annotation.Meta) error {
		a, err := b.FromMeta(m)
		if err != nil {
			return err
		}

		result = a

		return nil
	})

	return result, err
}

// FromMeta decodes a single `Cap`, `Cap = "expr"`, `Cap("expr")` or
// `Cap(expression = "expr")` entry.
func (b FieldAttributeBuilder) FromMeta(m *annotation.Meta) (FieldAttribute, error) {
	incorrect := diagnostic.IncorrectAttributeFormat(b.Capability.String(), fieldUsages(b.Capability, b.Features), m.Pos)

	switch m.Kind {
	case annotation.KindMarker:
		if !b.Flag {
			return FieldAttribute{}, incorrect
		}

		return FieldAttribute{Selection: FlagAt(m.Pos), Pos: m.Pos}, nil

	case annotation.KindKeyValue:
		if !b.Expression {
			return FieldAttribute{}, incorrect
		}

		return FieldAttribute{Selection: ExpressionAt(literalBody(m.Value), m.Pos), Pos: m.Pos}, nil

	default:
		if !b.Expression || len(m.Items) != 1 {
			return FieldAttribute{}, incorrect
		}

		if lit, ok := singleLiteral(m); ok {
			return FieldAttribute{Selection: ExpressionAt(literalBody(lit), m.Pos), Pos: m.Pos}, nil
		}

		p := m.Items[0].Meta
		if p == nil || !isExpressionName(p.Name) {
			return FieldAttribute{}, incorrect
		}

		body, ok := expressionParam(p)
		if !ok {
			return FieldAttribute{}, incorrect
		}

		return FieldAttribute{Selection: ExpressionAt(body, m.Pos), Pos: m.Pos}, nil
	}
}
