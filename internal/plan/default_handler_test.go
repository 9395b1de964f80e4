package plan

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deriver/internal/analyze"
	"deriver/internal/annotation"
	"deriver/internal/attr"
	"deriver/internal/capability"
	"deriver/internal/diagnostic"
)

func TestDeriveDefault_SingleFieldFallback(t *testing.T) {
	params := []string{"T"}
	agg := aggregate("Wrapper", analyze.KindRecord, params, []analyze.Field{
		field(t, "Value", "T", params, 3),
	})

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	assert.Equal(t, capability.Default, impl.Capability)
	assert.Equal(t, BodyComposite, impl.Body.Kind)
	require.Len(t, impl.Body.Inits, 1)
	assert.Equal(t, InitFallback, impl.Body.Inits[0].Source)
	assert.Equal(t, []attr.Constraint{{Param: "T", Bound: "Default() T"}}, impl.Constraints)
	assert.Nil(t, impl.Constructor)
}

func TestDeriveDefault_SingleFieldNoParams(t *testing.T) {
	agg := aggregate("Celsius", analyze.KindRecord, nil, []analyze.Field{
		field(t, "Degrees", "float64", nil, 3),
	})

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	require.Len(t, impl.Body.Inits, 1)
	assert.Empty(t, impl.Constraints)
}

func TestDeriveDefault_SingleFieldExpression(t *testing.T) {
	params := []string{"T"}
	agg := aggregate("Wrapper", analyze.KindRecord, params, []analyze.Field{
		field(t, "Value", "T", params, 3, ann(t, 3, `derive(Default = "zero[T]()")`)),
	})

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	require.Len(t, impl.Body.Inits, 1)
	assert.Equal(t, InitExpression, impl.Body.Inits[0].Source)
	assert.Equal(t, "zero[T]()", impl.Body.Inits[0].Expr.Code)
	assert.Empty(t, impl.Constraints)
}

func TestDeriveDefault_SelectedFieldExpression(t *testing.T) {
	params := []string{"K", "V"}
	agg := aggregate("Pair", analyze.KindRecord, params, []analyze.Field{
		field(t, "Key", "K", params, 3, ann(t, 3, `derive(Default(expression = "K(7)"))`)),
		field(t, "Value", "[]V", params, 4),
	})

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	want := []FieldInit{
		{Field: agg.Fields[0], Index: 0, Source: InitExpression, Expr: attr.Body{Code: "K(7)"}},
		{Field: agg.Fields[1], Index: 1, Source: InitFallback},
	}

	opts := cmp.Comparer(func(a, b attr.Body) bool { return a.Code == b.Code })
	if diff := cmp.Diff(want, impl.Body.Inits, opts); diff != "" {
		t.Errorf("inits mismatch (-want +got):\n%s", diff)
	}

	// Only V is reached through a fallback call.
	assert.Equal(t, []attr.Constraint{{Param: "V", Bound: "Default() V"}}, impl.Constraints)
}

func TestDeriveDefault_SelectedFieldFlag(t *testing.T) {
	params := []string{"K", "V"}
	agg := aggregate("Pair", analyze.KindRecord, params, []analyze.Field{
		field(t, "Key", "K", params, 3),
		field(t, "Value", "map[K]V", params, 4, ann(t, 4, `derive(Default)`)),
	})

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	for _, init := range impl.Body.Inits {
		assert.Equal(t, InitFallback, init.Source, "field %s", init.Field.Name)
	}

	assert.Equal(t, []attr.Constraint{
		{Param: "K", Bound: "Default() K"},
		{Param: "V", Bound: "Default() V"},
	}, impl.Constraints)
}

func TestDeriveDefault_MultipleDefaultFields(t *testing.T) {
	agg := aggregate("Pair", analyze.KindRecord, nil, []analyze.Field{
		field(t, "A", "int", nil, 3, ann(t, 3, `derive(Default)`)),
		field(t, "B", "int", nil, 4),
		field(t, "C", "int", nil, 5, ann(t, 5, `derive(Default("1"))`)),
	})

	_, err := DeriveDefault(agg, onlyDefault)

	de := requireKind(t, err, diagnostic.KindMultipleDefaultFields)
	assert.Equal(t, at(5), de.Pos)
}

func TestDeriveDefault_NoDefaultField(t *testing.T) {
	agg := aggregate("Pair", analyze.KindRecord, nil, []analyze.Field{
		field(t, "A", "int", nil, 3),
		field(t, "B", "string", nil, 4),
	})

	_, err := DeriveDefault(agg, onlyDefault)

	de := requireKind(t, err, diagnostic.KindNoDefaultField)
	assert.Equal(t, agg.Pos, de.Pos)
}

func TestDeriveDefault_TypeExpression(t *testing.T) {
	params := []string{"K", "V"}
	agg := aggregate("Pair", analyze.KindRecord, params, []analyze.Field{
		field(t, "Key", "K", params, 3),
		field(t, "Value", "V", params, 4),
	}, ann(t, 1, `derive(Default(expression = "NewPair[K, V]()"))`))

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err, spew.Sdump(agg.Annotations))

	assert.Equal(t, BodyExpression, impl.Body.Kind)
	assert.Equal(t, "NewPair[K, V]()", impl.Body.Expr.Code)
	assert.Empty(t, impl.Body.Inits)
	assert.Empty(t, impl.Constraints)
}

func TestDeriveDefault_TypeExpressionValidatesFields(t *testing.T) {
	tests := []struct {
		name  string
		annot string
		kind  diagnostic.ErrorKind
	}{
		{name: "flag", annot: `derive(Default)`, kind: diagnostic.KindIncorrectAttributeFormat},
		{name: "expression", annot: `derive(Default = "1")`, kind: diagnostic.KindIncorrectAttributeFormat},
		{name: "inactive capability", annot: `derive(Hash)`, kind: diagnostic.KindCapabilityNotInUse},
		{name: "not a list", annot: `derive = "Default"`, kind: diagnostic.KindMalformedAnnotationTree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := aggregate("Pair", analyze.KindRecord, nil, []analyze.Field{
				field(t, "A", "int", nil, 3),
				field(t, "B", "int", nil, 4, ann(t, 4, tt.annot)),
			}, ann(t, 1, `derive(Default("Pair{}"))`))

			_, err := DeriveDefault(agg, onlyDefault)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestDeriveDefault_Union(t *testing.T) {
	agg := aggregate("Shape", analyze.KindUnion, nil, []analyze.Field{
		field(t, "Circle", "*Circle", nil, 3),
		field(t, "Square", "*Square", nil, 4, ann(t, 4, `derive(Default)`)),
		field(t, "Triangle", "*Triangle", nil, 5),
	})

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	require.Len(t, impl.Body.Inits, 1)
	assert.Equal(t, 1, impl.Body.Inits[0].Index)
	assert.Equal(t, "Square", impl.Body.Inits[0].Field.Name)
}

func TestDeriveDefault_UnionOnlySelectedNeedsBound(t *testing.T) {
	params := []string{"L", "R"}
	agg := aggregate("Either", analyze.KindTaggedUnion, params, []analyze.Field{
		field(t, "Left", "L", params, 3, ann(t, 3, `derive(Default)`)),
		field(t, "Right", "R", params, 4),
	})

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	assert.Equal(t, []attr.Constraint{{Param: "L", Bound: "Default() L"}}, impl.Constraints)
}

func TestDeriveDefault_EmptyAggregates(t *testing.T) {
	record := aggregate("Unit", analyze.KindRecord, nil, nil)

	impl, err := DeriveDefault(record, onlyDefault)
	require.NoError(t, err)
	assert.Equal(t, BodyComposite, impl.Body.Kind)
	assert.Empty(t, impl.Body.Inits)

	union := aggregate("Never", analyze.KindUnion, nil, nil)

	_, err = DeriveDefault(union, onlyDefault)
	requireKind(t, err, diagnostic.KindNoDefaultField)
}

func TestDeriveDefault_NewConstructor(t *testing.T) {
	agg := aggregate("Config", analyze.KindRecord, nil, []analyze.Field{
		field(t, "Port", "int", nil, 3),
	}, ann(t, 1, `derive(Default(new))`))

	impl, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	require.NotNil(t, impl.Constructor)
	assert.Equal(t, BodyForward, impl.Constructor.Kind)
	assert.Equal(t, capability.Default, impl.Constructor.Capability)
}

func TestDeriveDefault_Bounds(t *testing.T) {
	params := []string{"K", "V"}
	fields := func() []analyze.Field {
		return []analyze.Field{
			field(t, "Key", "K", params, 3, ann(t, 3, `derive(Default)`)),
			field(t, "Value", "V", params, 4),
		}
	}

	tests := []struct {
		name  string
		annot string
		want  []attr.Constraint
	}{
		{
			name:  "auto marker",
			annot: `derive(Default(bound))`,
			want:  []attr.Constraint{{Param: "K", Bound: "Default() K"}, {Param: "V", Bound: "Default() V"}},
		},
		{
			name:  "explicit",
			annot: `derive(Default(bound = "K: comparable, V: fmt.Stringer"))`,
			want:  []attr.Constraint{{Param: "K", Bound: "comparable"}, {Param: "V", Bound: "fmt.Stringer"}},
		},
		{
			name:  "explicit list",
			annot: `derive(Default(bound("K: comparable")))`,
			want:  []attr.Constraint{{Param: "K", Bound: "comparable"}},
		},
		{name: "none", annot: `derive(Default(bound = false))`},
		{name: "empty list", annot: `derive(Default(bound()))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := aggregate("Pair", analyze.KindRecord, params, fields(), ann(t, 1, tt.annot))

			impl, err := DeriveDefault(agg, onlyDefault)
			require.NoError(t, err)
			assert.Equal(t, tt.want, impl.Constraints)
		})
	}
}

func TestDeriveDefault_CapabilityGating(t *testing.T) {
	// Well-formed annotations naming capabilities outside the active set fail.
	tests := []struct {
		name   string
		typ    string
		fieldA string
	}{
		{name: "type level", typ: `derive(Default, Clone)`},
		{name: "field level", fieldA: `derive(Hash)`},
		{name: "unknown name", fieldA: `derive(Defualt)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fieldAnnots []*annotation.Meta
			if tt.fieldA != "" {
				fieldAnnots = append(fieldAnnots, ann(t, 3, tt.fieldA))
			}

			agg := aggregate("Wrapper", analyze.KindRecord, nil, []analyze.Field{
				field(t, "Value", "int", nil, 3, fieldAnnots...),
			})

			if tt.typ != "" {
				agg.Annotations = append(agg.Annotations, ann(t, 1, tt.typ))
			}

			_, err := DeriveDefault(agg, onlyDefault)
			requireKind(t, err, diagnostic.KindCapabilityNotInUse)
		})
	}
}

func TestDeriveDefault_IncorrectTypeFormat(t *testing.T) {
	tests := []string{
		`derive(Default())`,
		`derive(Default(new, new))`,
		`derive(Default(new = true))`,
		`derive(Default("a", "b"))`,
		`derive(Default(bound, bound))`,
		`derive(Default(bound = "K"))`,
		`derive(Default(unknown))`,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			agg := aggregate("Wrapper", analyze.KindRecord, []string{"K"}, []analyze.Field{
				field(t, "Value", "K", []string{"K"}, 3),
			}, ann(t, 1, src))

			_, err := DeriveDefault(agg, onlyDefault)
			de := requireKind(t, err, diagnostic.KindIncorrectAttributeFormat)
			assert.Equal(t, "Default", de.Capability)
			assert.NotEmpty(t, de.Usages)
		})
	}
}

func TestDeriveDefault_Deterministic(t *testing.T) {
	params := []string{"K", "V"}
	agg := aggregate("Pair", analyze.KindRecord, params, []analyze.Field{
		field(t, "Key", "K", params, 3, ann(t, 3, `derive(Default)`)),
		field(t, "Value", "[]V", params, 4),
	}, ann(t, 1, `derive(Default(new))`))

	first, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	second, err := DeriveDefault(agg, onlyDefault)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated derivation differs (-first +second):\n%s", diff)
	}
}
