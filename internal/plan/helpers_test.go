package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deriver/internal/analyze"
	"deriver/internal/annotation"
	"deriver/internal/capability"
	"deriver/internal/diagnostic"
)

func at(line int) diagnostic.Position {
	return diagnostic.Position{File: "types.go", Line: line, Column: 1}
}

func ann(t *testing.T, line int, src string) *annotation.Meta {
	t.Helper()

	m, err := annotation.Parse(src, at(line))
	require.NoError(t, err)

	return m
}

func field(t *testing.T, name, typ string, params []string, line int, annots ...*annotation.Meta) analyze.Field {
	t.Helper()

	ref, err := analyze.ParseTypeExpr(typ, params)
	require.NoError(t, err)

	return analyze.Field{
		Name:        name,
		Type:        ref,
		Pos:         at(line),
		Annotations: annots,
	}
}

func aggregate(name string, kind analyze.AggregateKind, params []string, fields []analyze.Field, annots ...*annotation.Meta) *analyze.Aggregate {
	agg := &analyze.Aggregate{
		Name:        name,
		PkgPath:     "example.com/shapes",
		PkgName:     "shapes",
		Kind:        kind,
		Fields:      fields,
		Pos:         at(1),
		Annotations: annots,
	}

	for _, p := range params {
		agg.TypeParams = append(agg.TypeParams, analyze.TypeParam{Name: p})
	}

	return agg
}

func requireKind(t *testing.T, err error, kind diagnostic.ErrorKind) *diagnostic.Error {
	t.Helper()

	require.Error(t, err)
	require.True(t, diagnostic.IsKind(err, kind), "unexpected error %v", err)

	de, ok := err.(*diagnostic.Error)
	require.True(t, ok)

	return de
}

var onlyDefault = capability.NewSet(capability.Default)
