// Package warehouse holds generic containers annotated for the deriver.
package warehouse

import (
	"fmt"
	"time"
)

//go:generate go run deriver/cmd/deriver gen .

// Pair holds a key and its value.
//
//derive:use Default(new), Deref
type Pair[K comparable, V any] struct {
	Key   K `derive:"Default, Deref"`
	Value V
}

// Slot is a single-field wrapper; its only field is selected implicitly.
//
//derive:use Default, DerefMut
type Slot[T any] struct {
	Item T
}

// Bin stores labelled items and needs no Default on its parameter.
//
//derive:use Default(bound = false)
type Bin[T fmt.Stringer] struct {
	//derive:use Default
	Items []T
	Since time.Time
}

// Shelf has a fixed default built by an expression.
//
//derive:use Default(expression = "Shelf{Capacity: 10}")
type Shelf struct {
	Capacity int
	Slots    map[string]Slot[int]
}

// Either holds one of two values.
//
//derive:kind tagged
//derive:use Default
type Either[L, R any] struct {
	Left  *L
	Right *R `derive:"Default"`
}
