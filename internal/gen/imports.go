package gen

import (
	"slices"
	"strings"

	"deriver/internal/analyze"
	"deriver/internal/common"
)

// importSet maps package qualifiers to import paths.
type importSet map[string]string

// addType records the packages referenced by t. Qualifiers without a known
// path are left to import resolution.
func (s importSet) addType(t *analyze.TypeRef) {
	for qualifier, path := range t.Qualifiers() {
		if path != "" {
			s[qualifier] = path
		}
	}
}

func (s importSet) sorted() []importSpec {
	out := make([]importSpec, 0, len(s))

	for qualifier, path := range s {
		spec := importSpec{Path: path}
		if common.PkgAlias(path) != qualifier {
			spec.Alias = qualifier
		}

		out = append(out, spec)
	}

	slices.SortFunc(out, func(a, b importSpec) int {
		return strings.Compare(a.Path, b.Path)
	})

	return out
}
