// Package plan turns annotated aggregates into generated implementations.
//
// Resolution pipeline:
//  1. Collect the capabilities declared on the type (sorted, deduplicated)
//  2. For each capability with a handler:
//     - resolve the type-level attribute
//     - select a field where the capability needs one
//     - build the implementation body
//     - infer the generic constraints from fallback field types
//  3. Record failures per capability without stopping the others
//
// Handlers are pure functions of their inputs, so DeriveAll runs distinct
// aggregates concurrently.
package plan
