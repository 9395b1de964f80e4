package attr

import (
	"deriver/internal/annotation"
	"deriver/internal/capability"
)

// Features enables annotation shapes at a resolution site.
type Features struct {
	Flag       bool
	New        bool
	Expression bool
	Bound      bool
}

// typeUsages lists correct type-level spellings for the enabled features.
func typeUsages(c capability.Capability, f Features) []string {
	name := c.String()
	derive := func(inner string) string {
		return annotation.Attribute + "(" + inner + ")"
	}

	var usage []string

	if f.Flag {
		usage = append(usage, derive(name))
	}

	if f.New {
		usage = append(usage, derive(name+"(new)"))
	}

	if f.Expression {
		usage = append(usage,
			derive(name+`(expression = "value")`),
			derive(name+`("value")`))
	}

	if f.Bound {
		usage = append(usage,
			derive(name+`(bound = "T: Constraint")`),
			derive(name+"(bound)"),
			derive(name+"(bound = false)"))
	}

	return usage
}

// fieldUsages lists correct field-level spellings for the enabled features.
func fieldUsages(c capability.Capability, f Features) []string {
	name := c.String()
	derive := func(inner string) string {
		return annotation.Attribute + "(" + inner + ")"
	}

	var usage []string

	if f.Flag {
		usage = append(usage, derive(name))
	}

	if f.Expression {
		usage = append(usage,
			derive(name+` = "value"`),
			derive(name+`(expression = "value")`))
	}

	return usage
}
