package manifest

import (
	"fmt"
	"go/token"
	"maps"
	"slices"

	"deriver/internal/analyze"
	"deriver/internal/annotation"
	"deriver/internal/diagnostic"
)

// Validate checks the manifest structure: names, kinds, type expressions,
// imports and annotation syntax. Capability semantics are left to the
// resolver.
func Validate(m *Manifest) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if m == nil {
		res.AddError("manifest_is_nil", "manifest is nil", "", diagnostic.Position{})
		return res
	}

	newConverter(m, res).convert()

	return res
}

// ToAggregates converts the manifest into aggregates for the resolver. Any
// structural error fails the whole conversion; warnings are dropped.
func ToAggregates(m *Manifest) ([]*analyze.Aggregate, error) {
	if m == nil {
		return nil, fmt.Errorf("manifest is nil")
	}

	res := &diagnostic.Diagnostics{}

	aggs := newConverter(m, res).convert()
	if err := res.Error(); err != nil {
		return nil, err
	}

	return aggs, nil
}

type converter struct {
	m   *Manifest
	res *diagnostic.Diagnostics
}

func newConverter(m *Manifest, res *diagnostic.Diagnostics) *converter {
	return &converter{m: m, res: res}
}

func (c *converter) position(mark Mark) diagnostic.Position {
	return diagnostic.Position{File: c.m.path, Line: mark.Line, Column: mark.Column}
}

func (c *converter) convert() []*analyze.Aggregate {
	if c.m.Version != CurrentVersion {
		c.res.AddError("unsupported_version",
			fmt.Sprintf("unsupported manifest version %q (want %q)", c.m.Version, CurrentVersion),
			"", c.position(Mark{}))
	}

	if !token.IsIdentifier(c.m.Package) {
		c.res.AddError("invalid_package", fmt.Sprintf("invalid package name %q", c.m.Package), "", c.position(Mark{}))
	}

	for _, q := range slices.Sorted(maps.Keys(c.m.Imports)) {
		if path := c.m.Imports[q]; !token.IsIdentifier(q) || path == "" {
			c.res.AddError("invalid_import", fmt.Sprintf("invalid import %q: %q", q, path), "", c.position(Mark{}))
		}
	}

	seen := make(map[string]struct{}, len(c.m.Types))
	aggs := make([]*analyze.Aggregate, 0, len(c.m.Types))

	for i := range c.m.Types {
		td := &c.m.Types[i]
		pos := c.position(td.Mark)

		if !token.IsIdentifier(td.Name) {
			c.res.AddError("invalid_type_name", fmt.Sprintf("invalid type name %q", td.Name), td.Name, pos)
			continue
		}

		if _, dup := seen[td.Name]; dup {
			c.res.AddError("duplicate_type", fmt.Sprintf("type %q is declared more than once", td.Name), td.Name, pos)
			continue
		}

		seen[td.Name] = struct{}{}

		if agg := c.aggregate(td); agg != nil {
			aggs = append(aggs, agg)
		}
	}

	return aggs
}

func (c *converter) aggregate(td *TypeDef) *analyze.Aggregate {
	pos := c.position(td.Mark)
	errs := len(c.res.Errors)

	kind, ok := analyze.ParseAggregateKind(td.Kind)
	if !ok {
		c.res.AddError("unknown_kind", fmt.Sprintf("unknown kind %q (want record, union or tagged)", td.Kind), td.Name, pos)
	}

	agg := &analyze.Aggregate{
		Name:    td.Name,
		PkgPath: c.m.PkgPath,
		PkgName: c.m.Package,
		Kind:    kind,
		Pos:     pos,
	}

	agg.TypeParams = c.typeParams(td, pos)
	agg.Annotations = c.annotations(td.Name, td.Annotations, pos)

	params := agg.ParamNames()
	fieldNames := make(map[string]struct{}, len(td.Fields))

	for i := range td.Fields {
		if f, ok := c.field(td.Name, &td.Fields[i], params, fieldNames); ok {
			agg.Fields = append(agg.Fields, f)
		}
	}

	if kind.IsUnion() && len(td.Fields) == 0 {
		c.res.AddWarning("empty_union", "union declares no members", td.Name, pos)
	}

	if len(c.res.Errors) > errs {
		return nil
	}

	return agg
}

func (c *converter) typeParams(td *TypeDef, pos diagnostic.Position) []analyze.TypeParam {
	names := make([]string, 0, len(td.TypeParams))
	for _, tp := range td.TypeParams {
		names = append(names, tp.Name)
	}

	out := make([]analyze.TypeParam, 0, len(td.TypeParams))
	seen := make(map[string]struct{}, len(td.TypeParams))

	for _, tp := range td.TypeParams {
		if !token.IsIdentifier(tp.Name) {
			c.res.AddError("invalid_type_param", fmt.Sprintf("invalid type parameter name %q", tp.Name), td.Name, pos)
			continue
		}

		if _, dup := seen[tp.Name]; dup {
			c.res.AddError("duplicate_type_param", fmt.Sprintf("type parameter %q is declared more than once", tp.Name), td.Name, pos)
			continue
		}

		seen[tp.Name] = struct{}{}
		param := analyze.TypeParam{Name: tp.Name}

		if tp.Constraint != "" && tp.Constraint != "any" {
			ref, err := c.typeRef(tp.Constraint, names)
			if err != nil {
				c.res.AddError("invalid_constraint", fmt.Sprintf("type parameter %s: %v", tp.Name, err), td.Name, pos)
				continue
			}

			param.Constraint = ref
		}

		out = append(out, param)
	}

	return out
}

func (c *converter) field(typeName string, fd *FieldDef, params []string, seen map[string]struct{}) (analyze.Field, bool) {
	pos := c.position(fd.Mark)

	ref, err := c.typeRef(fd.Type, params)
	if err != nil {
		c.res.AddError("invalid_field_type", fmt.Sprintf("field %s: %v", fd.Name, err), typeName, pos)
		return analyze.Field{}, false
	}

	f := analyze.Field{
		Name:        fd.Name,
		Type:        ref,
		Embedded:    fd.Name == "",
		Pos:         pos,
		Annotations: c.annotations(typeName, fd.Annotations, pos),
	}

	if f.Embedded && ref.BaseName() == "" {
		c.res.AddError("invalid_embedded_field",
			fmt.Sprintf("unnamed field of type %s cannot be embedded", ref), typeName, pos)

		return analyze.Field{}, false
	}

	if fd.Name != "" && !token.IsIdentifier(fd.Name) {
		c.res.AddError("invalid_field_name", fmt.Sprintf("invalid field name %q", fd.Name), typeName, pos)
		return analyze.Field{}, false
	}

	access := f.AccessName()
	if _, dup := seen[access]; dup {
		c.res.AddError("duplicate_field", fmt.Sprintf("field %q is declared more than once", access), typeName, pos)
		return analyze.Field{}, false
	}

	seen[access] = struct{}{}

	return f, true
}

// typeRef parses a type expression and attaches import paths to its
// package qualifiers.
func (c *converter) typeRef(expr string, params []string) (*analyze.TypeRef, error) {
	if expr == "" {
		return nil, fmt.Errorf("missing type")
	}

	ref, err := analyze.ParseTypeExpr(expr, params)
	if err != nil {
		return nil, err
	}

	var missing string

	ref.Walk(func(r *analyze.TypeRef) {
		if r.Kind != analyze.TypeKindNamed || r.Pkg == "" {
			return
		}

		path, ok := c.m.Imports[r.Pkg]
		if !ok && missing == "" {
			missing = r.Pkg
		}

		r.PkgPath = path
	})

	if missing != "" {
		return nil, fmt.Errorf("package qualifier %q is not listed in imports", missing)
	}

	return ref, nil
}

func (c *converter) annotations(typeName string, list AnnotationList, fallback diagnostic.Position) annotation.Annotations {
	out := make(annotation.Annotations, 0, len(list))

	for _, src := range list {
		pos := fallback
		if src.Mark.Line > 0 {
			pos = c.position(src.Mark)
			if src.Quoted {
				pos = pos.Advance(1)
			}
		}

		m, err := annotation.Parse(src.Text, pos)
		if err != nil {
			c.res.Report(err, typeName)
			continue
		}

		out = append(out, m)
	}

	return out
}
