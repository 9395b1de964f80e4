package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"deriver/internal/annotation"
	"deriver/internal/diagnostic"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Analyzer loads Go packages and extracts annotated aggregates.
type Analyzer struct {
	logger *zap.Logger
	// Dir is the working directory for package patterns; empty means the process cwd.
	Dir string
}

// NewAnalyzer creates a new Analyzer. A nil logger disables logging.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{logger: logger}
}

// LoadPackages loads the specified packages and returns every struct type
// that carries at least one derive directive, in source order.
// Patterns are standard Go package patterns (e.g., "./models", "deriver/examples/shapes").
func (a *Analyzer) LoadPackages(patterns ...string) ([]*Aggregate, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	var out []*Aggregate

	for _, pkg := range pkgs {
		aggs, err := a.processPackage(pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}

		a.logger.Debug("package analyzed",
			zap.String("pkg", pkg.PkgPath),
			zap.Int("aggregates", len(aggs)))

		out = append(out, aggs...)
	}

	return out, nil
}

// processPackage extracts annotated struct types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) ([]*Aggregate, error) {
	var out []*Aggregate

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				agg, err := a.analyzeTypeSpec(pkg, ts, doc)
				if err != nil {
					return nil, err
				}

				if agg != nil {
					out = append(out, agg)
				}
			}
		}
	}

	return out, nil
}

// analyzeTypeSpec returns nil when the type is not a struct or carries no directive.
func (a *Analyzer) analyzeTypeSpec(pkg *packages.Package, ts *ast.TypeSpec, doc *ast.CommentGroup) (*Aggregate, error) {
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return nil, nil
	}

	annots, kind, err := directives(pkg.Fset, true, doc)
	if err != nil {
		return nil, err
	}

	if len(annots) == 0 {
		return nil, nil
	}

	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("no type information for %s", ts.Name.Name)
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%s is not a named type", ts.Name.Name)
	}

	agg := &Aggregate{
		Name:        ts.Name.Name,
		PkgPath:     pkg.PkgPath,
		PkgName:     pkg.Name,
		Kind:        kind,
		Pos:         position(pkg.Fset, ts.Name.Pos()),
		Annotations: annots,
	}

	for i := 0; i < named.TypeParams().Len(); i++ {
		tp := named.TypeParams().At(i)
		agg.TypeParams = append(agg.TypeParams, TypeParam{
			Name:       tp.Obj().Name(),
			Constraint: FromGoType(tp.Constraint(), pkg.Types),
		})
	}

	structType, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%s is not a struct", ts.Name.Name)
	}

	fields, err := analyzeStructFields(pkg, st, structType)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", ts.Name.Name, err)
	}

	agg.Fields = fields

	return agg, nil
}

// analyzeStructFields pairs AST fields (positions, comments, tags) with their
// go/types counterparts (resolved types).
func analyzeStructFields(pkg *packages.Package, st *ast.StructType, structType *types.Struct) ([]Field, error) {
	var fields []Field

	idx := 0

	for _, af := range st.Fields.List {
		annots, _, err := directives(pkg.Fset, false, af.Doc, af.Comment)
		if err != nil {
			return nil, err
		}

		tagAnnot, err := tagDirective(pkg.Fset, af.Tag)
		if err != nil {
			return nil, err
		}

		if tagAnnot != nil {
			annots = append(annots, tagAnnot)
		}

		names := af.Names
		if len(names) == 0 {
			names = []*ast.Ident{nil}
		}

		for _, name := range names {
			if idx >= structType.NumFields() {
				return nil, fmt.Errorf("field count mismatch")
			}

			v := structType.Field(idx)
			idx++

			f := Field{
				Type:        FromGoType(v.Type(), pkg.Types),
				Embedded:    v.Embedded(),
				Annotations: annots,
			}

			if name != nil {
				f.Name = name.Name
				f.Pos = position(pkg.Fset, name.Pos())
			} else {
				f.Pos = position(pkg.Fset, af.Type.Pos())
			}

			fields = append(fields, f)
		}
	}

	return fields, nil
}

// directives parses every derive directive of the comment groups. A
// `//derive:use ...` line contributes one attribute; `//derive:kind <k>`
// sets the aggregate kind and is rejected unless onType is set.
func directives(fset *token.FileSet, onType bool, groups ...*ast.CommentGroup) (annotation.Annotations, AggregateKind, error) {
	var (
		out  annotation.Annotations
		kind = KindRecord
	)

	for _, g := range groups {
		if g == nil {
			continue
		}

		for _, c := range g.List {
			verb, args, ok := annotation.SplitDirective(c.Text)
			if !ok {
				continue
			}

			pos := position(fset, c.Slash)

			switch verb {
			case annotation.VerbKind:
				if !onType {
					return nil, kind, diagnostic.MalformedAnnotationTree(
						fmt.Sprintf("%s%s is only allowed on type declarations", annotation.DirectivePrefix, annotation.VerbKind), pos)
				}

				k, ok := ParseAggregateKind(args)
				if !ok {
					return nil, kind, diagnostic.MalformedAnnotationTree(
						fmt.Sprintf("unknown aggregate kind %q", args), pos)
				}

				kind = k

			case annotation.VerbUse:
				head := len(annotation.DirectivePrefix) + len(verb)
				offset := head + strings.Index(c.Text[head:], args)

				m, err := annotation.ParseDirective(args, pos.Advance(offset))
				if err != nil {
					return nil, kind, err
				}

				m.Pos = pos
				out = append(out, m)

			default:
				return nil, kind, diagnostic.MalformedAnnotationTree(
					fmt.Sprintf("unknown directive %q, expected %s%s or %s%s",
						verb, annotation.DirectivePrefix, annotation.VerbUse, annotation.DirectivePrefix, annotation.VerbKind), pos)
			}
		}
	}

	return out, kind, nil
}

// tagDirective parses a `derive:"..."` struct tag entry.
func tagDirective(fset *token.FileSet, tag *ast.BasicLit) (*annotation.Meta, error) {
	if tag == nil {
		return nil, nil
	}

	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return nil, nil
	}

	items, ok := reflect.StructTag(raw).Lookup(annotation.Attribute)
	if !ok {
		return nil, nil
	}

	pos := position(fset, tag.Pos())

	m, err := annotation.ParseDirective(items, pos)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func position(fset *token.FileSet, pos token.Pos) diagnostic.Position {
	p := fset.Position(pos)

	return diagnostic.Position{File: p.Filename, Line: p.Line, Column: p.Column}
}
