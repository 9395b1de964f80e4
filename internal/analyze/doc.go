// Package analyze provides the aggregate model handed to the derivation
// handlers and a front end that extracts it from Go packages.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find
// struct types carrying `//derive:` directives and to describe their type
// parameters and fields structurally.
//
// Key types:
//   - Aggregate: a record, union-like or tagged-union type with its fields
//   - Field: optional name, TypeRef, position and raw annotations
//   - TypeRef: structural type reference used for bound inference and emission
package analyze
