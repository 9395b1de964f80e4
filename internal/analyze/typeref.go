package analyze

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
	"slices"
	"strings"

	"deriver/internal/common"
)

// TypeKind represents the structural kind of a TypeRef.
type TypeKind int

const (
	TypeKindUnknown TypeKind = iota
	TypeKindNamed            // int, time.Time, Inner[K]
	TypeKindParam            // a type parameter of the enclosing aggregate
	TypeKindPointer          // *T
	TypeKindSlice            // []T
	TypeKindArray            // [N]T
	TypeKindMap              // map[K]V
	TypeKindChan             // chan T, <-chan T, chan<- T
	TypeKindOpaque           // func, struct and interface literals
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindNamed:
		return "named"
	case TypeKindParam:
		return "param"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindChan:
		return "chan"
	case TypeKindOpaque:
		return "opaque"
	default:
		return common.UnknownStr
	}
}

// TypeRef is a structural reference to a field or constraint type.
type TypeRef struct {
	Kind TypeKind
	// Pkg is the package qualifier as written ("" for local and predeclared types).
	Pkg string
	// PkgPath is the import path behind Pkg, when known.
	PkgPath string
	// Name is the type or parameter name.
	Name string
	// Args are the type arguments of an instantiated named type.
	Args []*TypeRef
	// Elem is the element of pointers, slices, arrays, chans and the value of maps.
	Elem *TypeRef
	// Key is the key of maps.
	Key *TypeRef
	// Len is the array length expression.
	Len string
	// ChanPrefix is "chan ", "<-chan " or "chan<- ".
	ChanPrefix string
	// Text is the source form of opaque types.
	Text string
	// Params lists the type parameters mentioned inside an opaque type.
	Params []string
}

// Named builds a reference to a named type without arguments.
func Named(pkg, name string) *TypeRef {
	return &TypeRef{Kind: TypeKindNamed, Pkg: pkg, Name: name}
}

// Param builds a reference to a type parameter.
func Param(name string) *TypeRef {
	return &TypeRef{Kind: TypeKindParam, Name: name}
}

// String renders the reference as Go source.
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindParam:
		return t.Name
	case TypeKindNamed:
		s := t.Name
		if t.Pkg != "" {
			s = t.Pkg + "." + s
		}

		if len(t.Args) > 0 {
			args := make([]string, 0, len(t.Args))
			for _, a := range t.Args {
				args = append(args, a.String())
			}

			s += "[" + strings.Join(args, ", ") + "]"
		}

		return s
	case TypeKindPointer:
		return "*" + t.Elem.String()
	case TypeKindSlice:
		return "[]" + t.Elem.String()
	case TypeKindArray:
		return "[" + t.Len + "]" + t.Elem.String()
	case TypeKindMap:
		return "map[" + t.Key.String() + "]" + t.Elem.String()
	case TypeKindChan:
		elem := t.Elem.String()
		// chan (<-chan T) needs parentheses to keep its meaning.
		if t.ChanPrefix == "chan " && t.Elem != nil && t.Elem.ChanPrefix == "<-chan " {
			elem = "(" + elem + ")"
		}

		return t.ChanPrefix + elem
	case TypeKindOpaque:
		return t.Text
	default:
		return "<unknown>"
	}
}

// BaseName returns the unqualified name behind pointers, used as the
// selector of embedded fields.
func (t *TypeRef) BaseName() string {
	for t != nil && t.Kind == TypeKindPointer {
		t = t.Elem
	}

	if t == nil || (t.Kind != TypeKindNamed && t.Kind != TypeKindParam) {
		return ""
	}

	return t.Name
}

// Walk calls fn for t and every nested reference, depth first.
func (t *TypeRef) Walk(fn func(*TypeRef)) {
	if t == nil {
		return
	}

	fn(t)

	for _, a := range t.Args {
		a.Walk(fn)
	}

	t.Key.Walk(fn)
	t.Elem.Walk(fn)
}

// Mentions reports whether the type parameter param appears anywhere in t.
func (t *TypeRef) Mentions(param string) bool {
	found := false

	t.Walk(func(r *TypeRef) {
		switch r.Kind {
		case TypeKindParam:
			found = found || r.Name == param
		case TypeKindOpaque:
			found = found || slices.Contains(r.Params, param)
		}
	})

	return found
}

// Qualifiers returns the distinct package qualifiers used in t, keyed by
// qualifier with the import path as value (empty when unknown).
func (t *TypeRef) Qualifiers() map[string]string {
	out := make(map[string]string)

	t.Walk(func(r *TypeRef) {
		if r.Kind == TypeKindNamed && r.Pkg != "" {
			if prev, ok := out[r.Pkg]; !ok || prev == "" {
				out[r.Pkg] = r.PkgPath
			}
		}
	})

	return out
}

// ParseTypeExpr parses a Go type expression. Identifiers listed in params
// become TypeKindParam references.
func ParseTypeExpr(expr string, params []string) (*TypeRef, error) {
	e, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid type expression %q: %w", expr, err)
	}

	return fromAST(e, params)
}

func fromAST(e ast.Expr, params []string) (*TypeRef, error) {
	switch x := e.(type) {
	case *ast.Ident:
		if slices.Contains(params, x.Name) {
			return Param(x.Name), nil
		}

		return Named("", x.Name), nil

	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unsupported qualified type %s", types.ExprString(x))
		}

		return Named(pkg.Name, x.Sel.Name), nil

	case *ast.ParenExpr:
		return fromAST(x.X, params)

	case *ast.StarExpr:
		elem, err := fromAST(x.X, params)
		if err != nil {
			return nil, err
		}

		return &TypeRef{Kind: TypeKindPointer, Elem: elem}, nil

	case *ast.ArrayType:
		elem, err := fromAST(x.Elt, params)
		if err != nil {
			return nil, err
		}

		if x.Len == nil {
			return &TypeRef{Kind: TypeKindSlice, Elem: elem}, nil
		}

		return &TypeRef{Kind: TypeKindArray, Elem: elem, Len: types.ExprString(x.Len)}, nil

	case *ast.MapType:
		key, err := fromAST(x.Key, params)
		if err != nil {
			return nil, err
		}

		val, err := fromAST(x.Value, params)
		if err != nil {
			return nil, err
		}

		return &TypeRef{Kind: TypeKindMap, Key: key, Elem: val}, nil

	case *ast.ChanType:
		elem, err := fromAST(x.Value, params)
		if err != nil {
			return nil, err
		}

		prefix := "chan "

		switch x.Dir {
		case ast.RECV:
			prefix = "<-chan "
		case ast.SEND:
			prefix = "chan<- "
		}

		return &TypeRef{Kind: TypeKindChan, Elem: elem, ChanPrefix: prefix}, nil

	case *ast.IndexExpr:
		return instantiate(x.X, []ast.Expr{x.Index}, params)

	case *ast.IndexListExpr:
		return instantiate(x.X, x.Indices, params)

	case *ast.FuncType, *ast.StructType, *ast.InterfaceType:
		return opaque(e, params), nil

	default:
		return nil, fmt.Errorf("unsupported type expression %s", types.ExprString(e))
	}
}

func instantiate(base ast.Expr, indices []ast.Expr, params []string) (*TypeRef, error) {
	ref, err := fromAST(base, params)
	if err != nil {
		return nil, err
	}

	if ref.Kind != TypeKindNamed {
		return nil, fmt.Errorf("cannot instantiate %s", types.ExprString(base))
	}

	for _, idx := range indices {
		arg, err := fromAST(idx, params)
		if err != nil {
			return nil, err
		}

		ref.Args = append(ref.Args, arg)
	}

	return ref, nil
}

func opaque(e ast.Expr, params []string) *TypeRef {
	ref := &TypeRef{Kind: TypeKindOpaque, Text: types.ExprString(e)}

	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.Field:
			// Field, parameter and method names are not type positions.
			ast.Inspect(x.Type, visit)
			return false

		case *ast.SelectorExpr:
			// Qualified identifiers never name a type parameter.
			return false

		case *ast.Ident:
			if slices.Contains(params, x.Name) && !slices.Contains(ref.Params, x.Name) {
				ref.Params = append(ref.Params, x.Name)
			}
		}

		return true
	}

	ast.Inspect(e, visit)

	return ref
}

// FromGoType converts a go/types type. Types declared in local are rendered
// unqualified; other packages use their package name as qualifier.
func FromGoType(t types.Type, local *types.Package) *TypeRef {
	switch tt := t.(type) {
	case *types.TypeParam:
		return Param(tt.Obj().Name())

	case *types.Basic:
		return Named("", tt.Name())

	case *types.Named:
		ref := namedRef(tt.Obj(), local)
		for i := 0; i < tt.TypeArgs().Len(); i++ {
			ref.Args = append(ref.Args, FromGoType(tt.TypeArgs().At(i), local))
		}

		return ref

	case *types.Alias:
		ref := namedRef(tt.Obj(), local)
		for i := 0; i < tt.TypeArgs().Len(); i++ {
			ref.Args = append(ref.Args, FromGoType(tt.TypeArgs().At(i), local))
		}

		return ref

	case *types.Pointer:
		return &TypeRef{Kind: TypeKindPointer, Elem: FromGoType(tt.Elem(), local)}

	case *types.Slice:
		return &TypeRef{Kind: TypeKindSlice, Elem: FromGoType(tt.Elem(), local)}

	case *types.Array:
		return &TypeRef{Kind: TypeKindArray, Elem: FromGoType(tt.Elem(), local), Len: fmt.Sprint(tt.Len())}

	case *types.Map:
		return &TypeRef{Kind: TypeKindMap, Key: FromGoType(tt.Key(), local), Elem: FromGoType(tt.Elem(), local)}

	case *types.Chan:
		prefix := "chan "

		switch tt.Dir() {
		case types.RecvOnly:
			prefix = "<-chan "
		case types.SendOnly:
			prefix = "chan<- "
		}

		return &TypeRef{Kind: TypeKindChan, Elem: FromGoType(tt.Elem(), local), ChanPrefix: prefix}

	default:
		ref := &TypeRef{Kind: TypeKindOpaque, Text: types.TypeString(t, qualifierFor(local))}
		collectTypeParams(t, &ref.Params)

		return ref
	}
}

func namedRef(obj *types.TypeName, local *types.Package) *TypeRef {
	ref := Named("", obj.Name())
	if pkg := obj.Pkg(); pkg != nil && pkg != local {
		ref.Pkg = pkg.Name()
		ref.PkgPath = pkg.Path()
	}

	return ref
}

func qualifierFor(local *types.Package) types.Qualifier {
	return func(p *types.Package) string {
		if p == local {
			return ""
		}

		return p.Name()
	}
}

// collectTypeParams appends the names of type parameters reachable from t.
func collectTypeParams(t types.Type, out *[]string) {
	add := func(name string) {
		if !slices.Contains(*out, name) {
			*out = append(*out, name)
		}
	}

	var visit func(types.Type)

	visit = func(t types.Type) {
		switch tt := t.(type) {
		case *types.TypeParam:
			add(tt.Obj().Name())
		case *types.Named:
			for i := 0; i < tt.TypeArgs().Len(); i++ {
				visit(tt.TypeArgs().At(i))
			}
		case *types.Pointer:
			visit(tt.Elem())
		case *types.Slice:
			visit(tt.Elem())
		case *types.Array:
			visit(tt.Elem())
		case *types.Map:
			visit(tt.Key())
			visit(tt.Elem())
		case *types.Chan:
			visit(tt.Elem())
		case *types.Signature:
			for i := 0; i < tt.Params().Len(); i++ {
				visit(tt.Params().At(i).Type())
			}

			for i := 0; i < tt.Results().Len(); i++ {
				visit(tt.Results().At(i).Type())
			}
		case *types.Struct:
			for i := 0; i < tt.NumFields(); i++ {
				visit(tt.Field(i).Type())
			}
		case *types.Interface:
			for i := 0; i < tt.NumMethods(); i++ {
				visit(tt.Method(i).Type())
			}

			for i := 0; i < tt.NumEmbeddeds(); i++ {
				visit(tt.EmbeddedType(i))
			}
		case *types.Union:
			for i := 0; i < tt.Len(); i++ {
				visit(tt.Term(i).Type())
			}
		}
	}

	visit(t)
}
