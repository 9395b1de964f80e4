package plan

import (
	"deriver/internal/analyze"
	"deriver/internal/attr"
	"deriver/internal/capability"
	"deriver/internal/diagnostic"
)

var (
	defaultTypeBuilder = attr.TypeAttributeBuilder{
		Capability: capability.Default,
		Features:   attr.Features{Flag: true, New: true, Expression: true, Bound: true},
	}
	defaultFieldBuilder = attr.FieldAttributeBuilder{
		Capability: capability.Default,
		Features:   attr.Features{Flag: true, Expression: true},
	}
	// With a type-level expression, field annotations are parsed only to
	// surface mistakes; no field form is accepted.
	defaultFieldValidator = attr.FieldAttributeBuilder{
		Capability: capability.Default,
	}
)

// DeriveDefault derives the default-value capability for agg.
func DeriveDefault(agg *analyze.Aggregate, active capability.Set) (*Implementation, error) {
	typeAttr, err := defaultTypeBuilder.FromAnnotations(agg.Annotations, active)
	if err != nil {
		return nil, err
	}

	impl := &Implementation{
		Capability:    capability.Default,
		Target:        agg,
		GenericParams: agg.TypeParams,
	}

	var fallback []*analyze.TypeRef

	if expr, ok := typeAttr.Expression(); ok {
		for _, f := range agg.Fields {
			if _, err := defaultFieldValidator.FromAnnotations(f.Annotations, active); err != nil {
				return nil, err
			}
		}

		impl.Body = Body{Kind: BodyExpression, Expr: expr}
	} else {
		selected, selectedAttr, err := selectDefaultField(agg, active)
		if err != nil {
			return nil, err
		}

		impl.Body = Body{Kind: BodyComposite}

		for i, f := range agg.Fields {
			// Unions hold a single member; only the selected one is initialized.
			if agg.Kind.IsUnion() && i != selected {
				continue
			}

			init := FieldInit{Field: f, Index: i, Source: InitFallback}

			if i == selected {
				if expr, ok := selectedAttr.Expression(); ok {
					init.Source = InitExpression
					init.Expr = expr
				}
			}

			if init.Source == InitFallback {
				fallback = append(fallback, f.Type)
			}

			impl.Body.Inits = append(impl.Body.Inits, init)
		}
	}

	impl.Constraints = InferBounds(typeAttr.Bound, fallback, agg.TypeParams, capability.Default)

	if typeAttr.New {
		impl.Constructor = &Body{Kind: BodyForward, Capability: capability.Default}
	}

	return impl, nil
}

// selectDefaultField returns the index and attribute of the field that
// receives the default selection. A record without fields selects nothing
// and returns -1.
func selectDefaultField(agg *analyze.Aggregate, active capability.Set) (int, attr.FieldAttribute, error) {
	switch {
	case len(agg.Fields) == 0 && !agg.Kind.IsUnion():
		return NotSelected, attr.FieldAttribute{}, nil

	case len(agg.Fields) == 1:
		fa, err := defaultFieldBuilder.FromAnnotations(agg.Fields[0].Annotations, active)
		if err != nil {
			return NotSelected, attr.FieldAttribute{}, err
		}

		return 0, fa, nil
	}

	selected := NotSelected

	var selectedAttr attr.FieldAttribute

	for i, f := range agg.Fields {
		fa, err := defaultFieldBuilder.FromAnnotations(f.Annotations, active)
		if err != nil {
			return NotSelected, attr.FieldAttribute{}, err
		}

		if !fa.IsActive() {
			continue
		}

		if selected != NotSelected {
			return NotSelected, attr.FieldAttribute{}, diagnostic.MultipleDefaultFields(f.Pos)
		}

		selected, selectedAttr = i, fa
	}

	if selected == NotSelected {
		return NotSelected, attr.FieldAttribute{}, diagnostic.NoDefaultField(agg.Pos)
	}

	return selected, selectedAttr, nil
}
