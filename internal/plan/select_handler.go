package plan

import (
	"deriver/internal/analyze"
	"deriver/internal/attr"
	"deriver/internal/capability"
	"deriver/internal/diagnostic"
)

// NotSelected is the field index reported when no field is selected.
const NotSelected = -1

// SelectField returns the index of the single field flagged for c, or
// NotSelected. Selection is exclusive: a second flagged field is
// CapabilityReused. The caller decides what to do when nothing is selected.
func SelectField(fields []analyze.Field, active capability.Set, c capability.Capability) (int, error) {
	builder := attr.FieldAttributeBuilder{
		Capability: c,
		Features:   attr.Features{Flag: true},
	}

	selected := NotSelected

	for i, f := range fields {
		fa, err := builder.FromAnnotations(f.Annotations, active)
		if err != nil {
			return NotSelected, err
		}

		if !fa.Flag() {
			continue
		}

		if selected != NotSelected {
			return NotSelected, diagnostic.CapabilityReused(c.String(), fa.Pos)
		}

		selected = i
	}

	return selected, nil
}

// deriveFieldAccess derives a capability that exposes one field (Deref,
// DerefMut). Without a flagged field the first declared field is used and an
// info diagnostic records the choice.
func deriveFieldAccess(
	c capability.Capability,
	agg *analyze.Aggregate,
	active capability.Set,
	diags *diagnostic.Diagnostics,
) (*Implementation, error) {
	typeBuilder := attr.TypeAttributeBuilder{
		Capability: c,
		Features:   attr.Features{Flag: true},
	}

	if _, err := typeBuilder.FromAnnotations(agg.Annotations, active); err != nil {
		return nil, err
	}

	selected, err := SelectField(agg.Fields, active, c)
	if err != nil {
		return nil, err
	}

	if selected == NotSelected {
		if len(agg.Fields) == 0 {
			return nil, diagnostic.NoSelectableField(c.String(), agg.Pos)
		}

		selected = 0

		if len(agg.Fields) > 1 {
			diags.Infos = append(diags.Infos, diagnostic.Diagnostic{
				Severity:   diagnostic.DiagnosticInfo,
				Code:       "first_field_selected",
				Message:    "no field is flagged; using the first field " + agg.Fields[0].Label(0),
				TypeName:   agg.Name,
				Capability: c.String(),
				Pos:        agg.Pos,
			})
		}
	}

	return &Implementation{
		Capability:    c,
		Target:        agg,
		GenericParams: agg.TypeParams,
		Body:          Body{Kind: BodyFieldAccess, FieldIndex: selected},
	}, nil
}
