package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"deriver/internal/analyze"
	"deriver/internal/attr"
	"deriver/internal/capability"
	"deriver/internal/common"
	"deriver/internal/plan"
)

// DefaultFilename is the name of the generated file in each package.
const DefaultFilename = "derive_gen.go"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName overrides the package clause. Empty uses the target's package name.
	PackageName string
	// OutputDir overrides the directory generated files belong to. Empty
	// places each file next to the sources of its target package.
	OutputDir string
	// Filename is the name of each generated file.
	Filename string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
	// ResolveImports runs goimports over the output so that packages used only
	// inside override expressions are imported.
	ResolveImports bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Filename:         DefaultFilename,
		GenerateComments: true,
		ResolveImports:   true,
	}
}

// Generator generates Go code from a derivation plan.
type Generator struct {
	config GeneratorConfig
	logger *zap.Logger
}

// NewGenerator creates a new Generator. A nil logger disables logging.
func NewGenerator(config GeneratorConfig, logger *zap.Logger) *Generator {
	if config.Filename == "" {
		config.Filename = DefaultFilename
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{config: config, logger: logger}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory the file belongs to; empty when unknown.
	Dir string
	// Filename is the name of the file (e.g., "derive_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the file path relative to Dir.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

type fileGroup struct {
	dir   string
	pkg   string
	impls []plan.Implementation
}

// Generate renders every implementation of p, one file per target package.
func (g *Generator) Generate(p *plan.DerivationPlan) ([]GeneratedFile, error) {
	var groups []*fileGroup

	for _, impl := range p.Implementations() {
		dir, pkg := g.destination(impl.Target)

		idx := slices.IndexFunc(groups, func(fg *fileGroup) bool { return fg.dir == dir && fg.pkg == pkg })
		if idx < 0 {
			groups = append(groups, &fileGroup{dir: dir, pkg: pkg})
			idx = len(groups) - 1
		}

		groups[idx].impls = append(groups[idx].impls, impl)
	}

	slices.SortStableFunc(groups, func(a, b *fileGroup) int {
		return strings.Compare(a.dir, b.dir)
	})

	files := make([]GeneratedFile, 0, len(groups))

	for _, fg := range groups {
		file, err := g.generateFile(fg)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", filepath.Join(fg.dir, g.config.Filename), err)
		}

		g.logger.Debug("file generated",
			zap.String("path", file.Path()),
			zap.Int("implementations", len(fg.impls)))

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) destination(agg *analyze.Aggregate) (string, string) {
	dir := g.config.OutputDir
	if dir == "" && agg.Pos.File != "" {
		dir = filepath.Dir(agg.Pos.File)
	}

	pkg := g.config.PackageName
	if pkg == "" {
		pkg = agg.PkgName
	}

	if pkg == "" {
		pkg = common.PkgAlias(agg.PkgPath)
	}

	return dir, pkg
}

func (g *Generator) generateFile(fg *fileGroup) (*GeneratedFile, error) {
	data := &fileData{PackageName: fg.pkg}
	imps := make(importSet)

	for i := range fg.impls {
		funcs, fallback, err := g.renderImplementation(&fg.impls[i], imps)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", fg.impls[i].Target.Name, fg.impls[i].Capability, err)
		}

		data.Funcs = append(data.Funcs, funcs...)
		data.NeedsFallback = data.NeedsFallback || fallback
	}

	data.Imports = imps.sorted()

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	file := &GeneratedFile{Dir: fg.dir, Filename: g.config.Filename}

	formatted, err := g.format(file.Path(), buf.Bytes())
	if err != nil {
		if fg.dir != "" {
			_ = writeDebugUnformatted(fg.dir, file.Filename, buf.Bytes())
		}

		file.Content = buf.Bytes()

		return file, fmt.Errorf("formatting code: %w", err)
	}

	file.Content = formatted

	return file, nil
}

func (g *Generator) format(path string, src []byte) ([]byte, error) {
	if !g.config.ResolveImports {
		return format.Source(src)
	}

	return imports.Process(path, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
}

// renderImplementation returns the declarations of one implementation and
// whether they call the fallback helper.
func (g *Generator) renderImplementation(impl *plan.Implementation, imps importSet) ([]funcData, bool, error) {
	switch impl.Capability {
	case capability.Default:
		return g.renderDefault(impl, imps)
	case capability.Deref, capability.DerefMut:
		fn, err := g.renderFieldAccess(impl, imps)
		if err != nil {
			return nil, false, err
		}

		return []funcData{fn}, false, nil
	default:
		return nil, false, fmt.Errorf("no emitter for capability %s", impl.Capability)
	}
}

func (g *Generator) renderDefault(impl *plan.Implementation, imps importSet) ([]funcData, bool, error) {
	agg := impl.Target
	self := agg.TypeExpr()

	params, err := typeParamList(impl, imps)
	if err != nil {
		return nil, false, err
	}

	defaultName := "Default" + agg.Name
	call := defaultName + typeArgList(agg) + "()"

	var (
		body     []string
		fallback bool
	)

	switch impl.Body.Kind {
	case plan.BodyExpression:
		body = []string{"return " + impl.Body.Expr.Code}

	case plan.BodyComposite:
		if len(impl.Body.Inits) == 0 {
			body = []string{"return " + self + "{}"}
			break
		}

		body = append(body, "return "+self+"{")

		for _, init := range impl.Body.Inits {
			name := init.Field.AccessName()
			if name == "" {
				return nil, false, fmt.Errorf("field %s has no name", init.Field.Label(init.Index))
			}

			value := init.Expr.Code
			if init.Source == plan.InitFallback {
				imps.addType(init.Field.Type)

				value = fallbackFunc + "[" + init.Field.Type.String() + "]()"
				fallback = true
			}

			body = append(body, "\t"+name+": "+value+",")
		}

		body = append(body, "}")

	default:
		return nil, false, fmt.Errorf("unexpected %s body", impl.Body.Kind)
	}

	funcs := []funcData{{
		Doc:       g.doc(defaultName + " returns the default value of " + agg.Name + "."),
		Signature: "func " + defaultName + params + "() " + self,
		Body:      body,
	}}

	// Types whose default needs no extra constraints also satisfy the
	// Default() interface, so fields of that type fall back to it.
	if len(impl.Constraints) == 0 {
		funcs = append(funcs, funcData{
			Doc:       g.doc("Default returns the default value of " + agg.Name + "."),
			Signature: "func (" + self + ") Default() " + self,
			Body:      []string{"return " + call},
		})
	}

	if impl.Constructor != nil {
		funcs = append(funcs, funcData{
			Doc:       g.doc("New" + agg.Name + " returns a pointer to the default value of " + agg.Name + "."),
			Signature: "func New" + agg.Name + params + "() *" + self,
			Body:      []string{"v := " + call, "", "return &v"},
		})
	}

	return funcs, fallback, nil
}

func (g *Generator) renderFieldAccess(impl *plan.Implementation, imps importSet) (funcData, error) {
	agg := impl.Target
	idx := impl.Body.FieldIndex

	if impl.Body.Kind != plan.BodyFieldAccess || idx < 0 || idx >= len(agg.Fields) {
		return funcData{}, fmt.Errorf("invalid field selection %d", idx)
	}

	f := agg.Fields[idx]

	name := f.AccessName()
	if name == "" {
		return funcData{}, fmt.Errorf("field %s has no name", f.Label(idx))
	}

	imps.addType(f.Type)

	self := agg.TypeExpr()
	typ := f.Type.String()

	if impl.Capability == capability.DerefMut {
		return funcData{
			Doc:       g.doc("DerefMut returns a pointer to the " + name + " field of " + agg.Name + "."),
			Signature: "func (t *" + self + ") DerefMut() *" + typ,
			Body:      []string{"return &t." + name},
		}, nil
	}

	return funcData{
		Doc:       g.doc("Deref returns the " + name + " field of " + agg.Name + "."),
		Signature: "func (t " + self + ") Deref() " + typ,
		Body:      []string{"return t." + name},
	}, nil
}

func (g *Generator) doc(s string) string {
	if !g.config.GenerateComments {
		return ""
	}

	return s
}

// methodBound matches constraints spelled as a method, e.g. "Default() T".
var methodBound = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\(`)

// typeParamList renders "[K C1, V C2]" with the declared constraint of each
// parameter merged with the implementation's constraints.
func typeParamList(impl *plan.Implementation, imps importSet) (string, error) {
	params := impl.GenericParams

	for _, c := range impl.Constraints {
		if !slices.ContainsFunc(params, func(p analyze.TypeParam) bool { return p.Name == c.Param }) {
			return "", fmt.Errorf("constraint %q names unknown type parameter %s", c.String(), c.Param)
		}
	}

	if len(params) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(params))

	for _, p := range params {
		imps.addType(p.Constraint)
		parts = append(parts, p.Name+" "+mergeConstraint(p, impl.ConstraintsFor(p.Name)))
	}

	return "[" + strings.Join(parts, ", ") + "]", nil
}

func mergeConstraint(p analyze.TypeParam, extra []attr.Constraint) string {
	var elems []string

	if declared := p.ConstraintString(); declared != "any" {
		elems = append(elems, declared)
	}

	for _, c := range extra {
		if !slices.Contains(elems, c.Bound) {
			elems = append(elems, c.Bound)
		}
	}

	switch {
	case len(elems) == 0:
		return "any"
	case len(elems) == 1 && !methodBound.MatchString(elems[0]):
		return elems[0]
	default:
		return "interface{ " + strings.Join(elems, "; ") + " }"
	}
}

// typeArgList renders "[K, V]" for generic aggregates.
func typeArgList(agg *analyze.Aggregate) string {
	if len(agg.TypeParams) == 0 {
		return ""
	}

	return "[" + strings.Join(agg.ParamNames(), ", ") + "]"
}
