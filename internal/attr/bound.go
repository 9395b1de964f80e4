package attr

import (
	"errors"
	"go/token"
	"strings"

	"deriver/internal/annotation"
)

// parseBoundParam decodes the bound parameter of a type attribute:
//
//	bound                     auto
//	bound = true              auto
//	bound = false | bound()   none
//	bound = "K: C, V: D"      explicit
//	bound("K: C", "V: D")     explicit
func parseBoundParam(m *annotation.Meta) (Bound, error) {
	switch m.Kind {
	case annotation.KindMarker:
		return Bound{Mode: BoundAuto}, nil

	case annotation.KindKeyValue:
		if b, ok := m.Value.Bool(); ok {
			if b {
				return Bound{Mode: BoundAuto}, nil
			}

			return Bound{Mode: BoundNone}, nil
		}

		if m.Value.Kind != annotation.LitString {
			return Bound{}, errors.New("bound must be a string or boolean")
		}

		constraints, err := ParseConstraints(m.Value.Value)
		if err != nil {
			return Bound{}, err
		}

		return Bound{Mode: BoundExplicit, Constraints: constraints}, nil

	default:
		if len(m.Items) == 0 {
			return Bound{Mode: BoundNone}, nil
		}

		var all []Constraint

		for _, it := range m.Items {
			if it.Lit == nil || it.Lit.Kind != annotation.LitString {
				return Bound{}, errors.New("bound list items must be strings")
			}

			constraints, err := ParseConstraints(it.Lit.Value)
			if err != nil {
				return Bound{}, err
			}

			all = append(all, constraints...)
		}

		return Bound{Mode: BoundExplicit, Constraints: all}, nil
	}
}

// ParseConstraints parses a comma separated list of "Param: Bound"
// predicates. Commas nested in brackets, braces or parentheses belong to
// the bound.
func ParseConstraints(s string) ([]Constraint, error) {
	var out []Constraint

	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		param, bound, ok := strings.Cut(part, ":")
		if !ok {
			return nil, errors.New("constraint " + part + " is missing ':'")
		}

		param = strings.TrimSpace(param)
		bound = strings.TrimSpace(bound)

		if !token.IsIdentifier(param) {
			return nil, errors.New("constraint parameter " + param + " is not an identifier")
		}

		if bound == "" {
			return nil, errors.New("constraint on " + param + " is empty")
		}

		out = append(out, Constraint{Param: param, Bound: bound})
	}

	if len(out) == 0 {
		return nil, errors.New("empty constraint list")
	}

	return out, nil
}

func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}
