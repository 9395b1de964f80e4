// Package diagnostic provides position-tagged errors and structured
// diagnostics for the deriver.
//
// Every validation failure raised while resolving annotations or selecting
// fields is an *Error carrying its kind, the capability being derived, the
// source position and, where applicable, example usages. Diagnostics collects
// those errors (plus warnings and infos) per aggregate so the dispatch loop
// can keep deriving other capabilities and types after one fails.
package diagnostic
