// Package gen emits Go source for a derivation plan.
//
// Generation uses text/template + go/format (or x/tools/imports when import
// resolution is enabled) for readable, deterministic output. One file is
// produced per target package.
//
// Codegen patterns:
//   - Default<T>: composite literal, union member or override expression
//   - Default method on types whose default needs no extra constraints
//   - New<T>: pointer constructor forwarding to Default<T>
//   - Deref / DerefMut: value and pointer accessors of the selected field
package gen
