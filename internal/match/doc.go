// Package match scores how close a misspelled name is to a known one, used
// for "did you mean" suggestions in diagnostics.
package match
