package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deriver/internal/analyze"
	"deriver/internal/attr"
	"deriver/internal/capability"
)

func TestInferBounds(t *testing.T) {
	params := []analyze.TypeParam{{Name: "K"}, {Name: "V"}, {Name: "E"}}
	names := []string{"K", "V", "E"}

	refs := func(exprs ...string) []*analyze.TypeRef {
		var out []*analyze.TypeRef

		for _, e := range exprs {
			ref, err := analyze.ParseTypeExpr(e, names)
			require.NoError(t, err)

			out = append(out, ref)
		}

		return out
	}

	explicit := []attr.Constraint{{Param: "E", Bound: "error"}}

	tests := []struct {
		name     string
		bound    attr.Bound
		fallback []*analyze.TypeRef
		want     []attr.Constraint
	}{
		{
			name:     "auto direct params",
			fallback: refs("V", "K"),
			want:     []attr.Constraint{{Param: "K", Bound: "Default() K"}, {Param: "V", Bound: "Default() V"}},
		},
		{
			name:     "auto nested params",
			fallback: refs("map[string][]V", "chan *E"),
			want:     []attr.Constraint{{Param: "V", Bound: "Default() V"}, {Param: "E", Bound: "Default() E"}},
		},
		{
			name:     "auto deduplicates",
			fallback: refs("K", "[]K", "map[K]K"),
			want:     []attr.Constraint{{Param: "K", Bound: "Default() K"}},
		},
		{
			name:     "auto ignores concrete types",
			fallback: refs("int", "time.Duration", "Vertex"),
		},
		{
			name:     "auto generic instance",
			fallback: refs("list.List[Pair[K, int]]"),
			want:     []attr.Constraint{{Param: "K", Bound: "Default() K"}},
		},
		{
			name:     "auto func type",
			fallback: refs("func(K) E"),
			want:     []attr.Constraint{{Param: "K", Bound: "Default() K"}, {Param: "E", Bound: "Default() E"}},
		},
		{
			name:     "auto ignores field and parameter names",
			fallback: refs("struct{ V int }", "func(K int) string"),
		},
		{
			name:     "auto struct and func element types",
			fallback: refs("struct{ V K }", "func(E int) V"),
			want:     []attr.Constraint{{Param: "K", Bound: "Default() K"}, {Param: "V", Bound: "Default() V"}},
		},
		{
			name:     "explicit unchanged",
			bound:    attr.Bound{Mode: attr.BoundExplicit, Constraints: explicit},
			fallback: refs("K", "V"),
			want:     explicit,
		},
		{
			name:     "none",
			bound:    attr.Bound{Mode: attr.BoundNone},
			fallback: refs("K", "V"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferBounds(tt.bound, tt.fallback, params, capability.Default)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferBounds_ExplicitIsCopied(t *testing.T) {
	bound := attr.Bound{Mode: attr.BoundExplicit, Constraints: []attr.Constraint{{Param: "T", Bound: "any"}}}

	got := InferBounds(bound, nil, []analyze.TypeParam{{Name: "T"}}, capability.Default)
	got[0].Bound = "comparable"

	assert.Equal(t, "any", bound.Constraints[0].Bound)
}

func TestInferBounds_OtherCapability(t *testing.T) {
	ref, err := analyze.ParseTypeExpr("[]T", []string{"T"})
	require.NoError(t, err)

	got := InferBounds(attr.Bound{}, []*analyze.TypeRef{ref}, []analyze.TypeParam{{Name: "T"}}, capability.Clone)
	assert.Equal(t, []attr.Constraint{{Param: "T", Bound: "Clone() T"}}, got)
}
