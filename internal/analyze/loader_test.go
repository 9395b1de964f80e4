package analyze

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deriver/internal/diagnostic"
)

func loadByName(t *testing.T, patterns ...string) map[string]*Aggregate {
	t.Helper()

	aggs, err := NewAnalyzer(nil).LoadPackages(patterns...)
	require.NoError(t, err)

	out := make(map[string]*Aggregate, len(aggs))
	for _, a := range aggs {
		out[a.Name] = a
	}

	return out
}

func fieldByName(t *testing.T, agg *Aggregate, name string) Field {
	t.Helper()

	for _, f := range agg.Fields {
		if f.Name == name {
			return f
		}
	}

	require.Failf(t, "field not found", "%s.%s", agg.Name, name)

	return Field{}
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	aggs, err := NewAnalyzer(nil).LoadPackages("deriver/store", "deriver/warehouse")
	require.NoError(t, err)

	var names []string
	for _, a := range aggs {
		names = append(names, a.Name)
	}

	// Only annotated structs, in source order.
	assert.Equal(t, []string{
		"Product", "Customer", "Order", "Payment", "Tracked",
		"Pair", "Slot", "Bin", "Shelf", "Either",
	}, names)
}

func TestAnalyzer_TypeDirectives(t *testing.T) {
	aggs := loadByName(t, "deriver/store")

	product := aggs["Product"]
	require.NotNil(t, product)
	assert.Equal(t, "deriver/store", product.PkgPath)
	assert.Equal(t, "store", product.PkgName)
	assert.Equal(t, KindRecord, product.Kind)
	require.Len(t, product.Annotations, 1)
	assert.Equal(t, "derive(Default(new))", product.Annotations[0].String())

	assert.Equal(t, "types.go", filepath.Base(product.Pos.File))
	assert.Positive(t, product.Pos.Line)
	assert.Equal(t, product.Annotations[0].Pos.Line, product.Pos.Line-1)

	payment := aggs["Payment"]
	require.NotNil(t, payment)
	assert.Equal(t, KindUnion, payment.Kind)
	assert.Equal(t, "derive(Default)", payment.Annotations[0].String())
}

func TestAnalyzer_FieldDirectives(t *testing.T) {
	aggs := loadByName(t, "deriver/store")

	tests := []struct {
		typ, field, want string
	}{
		{typ: "Product", field: "Inventory", want: `derive(Default("1"))`},
		{typ: "Customer", field: "IsActive", want: `derive(Default("true"))`},
		{typ: "Order", field: "Status", want: `derive(Default("StatusPending"))`},
		{typ: "Order", field: "Items", want: `derive(DerefMut)`},
		{typ: "Payment", field: "Card", want: `derive(Default)`},
	}

	for _, tt := range tests {
		t.Run(tt.typ+"."+tt.field, func(t *testing.T) {
			f := fieldByName(t, aggs[tt.typ], tt.field)
			require.Len(t, f.Annotations, 1)
			assert.Equal(t, tt.want, f.Annotations[0].String())
			assert.Equal(t, f.Pos.File, f.Annotations[0].Pos.File)
		})
	}

	assert.Empty(t, fieldByName(t, aggs["Order"], "ID").Annotations)
}

func TestDirectives_KindPlacement(t *testing.T) {
	const src = `package p

//derive:kind union
//derive:use Default
type Shape struct {
	//derive:kind union
	Circle *int
}
`

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "shape.go", src, parser.ParseComments)
	require.NoError(t, err)

	gen := file.Decls[0].(*ast.GenDecl)
	st := gen.Specs[0].(*ast.TypeSpec).Type.(*ast.StructType)

	annots, kind, err := directives(fset, true, gen.Doc)
	require.NoError(t, err)
	assert.Equal(t, KindUnion, kind)
	require.Len(t, annots, 1)

	_, _, err = directives(fset, false, st.Fields.List[0].Doc)
	require.Error(t, err)
	assert.True(t, diagnostic.IsKind(err, diagnostic.KindMalformedAnnotationTree), "unexpected error %v", err)

	var de *diagnostic.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 6, de.Pos.Line)
	assert.Contains(t, de.Error(), "only allowed on type declarations")
}

func TestAnalyzer_FieldTypes(t *testing.T) {
	aggs := loadByName(t, "deriver/store")

	order := aggs["Order"]
	require.NotNil(t, order)
	require.Len(t, order.Fields, 5)

	items := fieldByName(t, order, "Items")
	assert.Equal(t, TypeKindSlice, items.Type.Kind)
	assert.Equal(t, "[]OrderItem", items.Type.String())

	orderedAt := fieldByName(t, order, "OrderedAt")
	assert.Equal(t, "time.Time", orderedAt.Type.String())
	assert.Equal(t, map[string]string{"time": "time"}, orderedAt.Type.Qualifiers())

	address := fieldByName(t, aggs["Customer"], "Address")
	assert.Equal(t, TypeKindPointer, address.Type.Kind)
	assert.Equal(t, "*string", address.Type.String())

	tracked := aggs["Tracked"]
	require.NotNil(t, tracked)
	assert.True(t, tracked.Fields[0].Embedded)
	assert.Empty(t, tracked.Fields[0].Name)
	assert.Equal(t, "Order", tracked.Fields[0].AccessName())
	assert.Equal(t, "*Order", tracked.Fields[0].Type.String())
}

func TestAnalyzer_Generics(t *testing.T) {
	aggs := loadByName(t, "deriver/warehouse")

	pair := aggs["Pair"]
	require.NotNil(t, pair)
	assert.Equal(t, []string{"K", "V"}, pair.ParamNames())
	assert.Equal(t, "Pair[K, V]", pair.TypeExpr())
	assert.Equal(t, "comparable", pair.TypeParams[0].ConstraintString())
	assert.Equal(t, "any", pair.TypeParams[1].ConstraintString())

	key := fieldByName(t, pair, "Key")
	assert.Equal(t, TypeKindParam, key.Type.Kind)
	assert.Equal(t, "derive(Default, Deref)", key.Annotations[0].String())

	bin := aggs["Bin"]
	require.NotNil(t, bin)
	assert.Equal(t, "fmt.Stringer", bin.TypeParams[0].ConstraintString())
	assert.Equal(t, "fmt", bin.TypeParams[0].Constraint.PkgPath)
	assert.True(t, fieldByName(t, bin, "Items").Type.Mentions("T"))

	shelf := aggs["Shelf"]
	require.NotNil(t, shelf)
	assert.Equal(t, "map[string]Slot[int]", fieldByName(t, shelf, "Slots").Type.String())

	either := aggs["Either"]
	require.NotNil(t, either)
	assert.Equal(t, KindTaggedUnion, either.Kind)
	assert.Equal(t, "*R", fieldByName(t, either, "Right").Type.String())
}

func TestAnalyzer_MissingPackage(t *testing.T) {
	_, err := NewAnalyzer(nil).LoadPackages("deriver/does/not/exist")
	require.Error(t, err)
}

func TestAggregateKind(t *testing.T) {
	tests := []struct {
		in   string
		want AggregateKind
		ok   bool
	}{
		{in: "", want: KindRecord, ok: true},
		{in: "struct", want: KindRecord, ok: true},
		{in: "union", want: KindUnion, ok: true},
		{in: "tagged-union", want: KindTaggedUnion, ok: true},
		{in: "enum", want: KindTaggedUnion, ok: true},
		{in: "variant", want: KindRecord, ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseAggregateKind(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	assert.True(t, KindTaggedUnion.IsUnion())
	assert.False(t, KindRecord.IsUnion())
	assert.Equal(t, "tagged", KindTaggedUnion.String())
}

func TestField_Label(t *testing.T) {
	assert.Equal(t, "Name", Field{Name: "Name"}.Label(0))
	assert.Equal(t, "Order", Field{Type: &TypeRef{Kind: TypeKindPointer, Elem: Named("", "Order")}}.Label(0))
	assert.Equal(t, "#2", Field{}.Label(2))
}
