package manifest

// CurrentVersion is the manifest schema version written by this package.
const CurrentVersion = "1"

// Manifest is the root of a YAML manifest.
type Manifest struct {
	// Version of the manifest schema.
	Version string `yaml:"version,omitempty"`

	// Package is the Go package name of the described types.
	Package string `yaml:"package"`

	// PkgPath is the import path of the package, used in logs.
	PkgPath string `yaml:"pkg_path,omitempty"`

	// Output is the generated file name; empty uses the generator default.
	Output string `yaml:"output,omitempty"`

	// Imports maps package qualifiers used in type expressions to import
	// paths (e.g., time: time, yaml: gopkg.in/yaml.v3).
	Imports map[string]string `yaml:"imports,omitempty"`

	// Types lists the described aggregates.
	Types []TypeDef `yaml:"types"`

	// path is the file the manifest was loaded from.
	path string
}

// Path returns the file the manifest was loaded from, if any.
func (m *Manifest) Path() string {
	return m.path
}

// TypeDef describes one aggregate.
type TypeDef struct {
	Name string `yaml:"name"`

	// Kind is record, union or tagged; empty means record.
	Kind string `yaml:"kind,omitempty"`

	TypeParams []TypeParamDef `yaml:"type_params,omitempty"`

	// Annotations are type-level attributes such as "derive(Default(new))".
	Annotations AnnotationList `yaml:"annotations,omitempty"`

	Fields []FieldDef `yaml:"fields,omitempty"`

	Mark Mark `yaml:"-"`
}

// TypeParamDef describes one generic parameter.
type TypeParamDef struct {
	Name string `yaml:"name"`

	// Constraint is a Go type expression; empty means any.
	Constraint string `yaml:"constraint,omitempty"`
}

// FieldDef describes one field. An empty name makes the field embedded.
type FieldDef struct {
	Name        string         `yaml:"name,omitempty"`
	Type        string         `yaml:"type"`
	Annotations AnnotationList `yaml:"annotations,omitempty"`

	Mark Mark `yaml:"-"`
}

// Mark is the YAML position of a node. Zero values mean unknown.
type Mark struct {
	Line   int
	Column int
}
