// Package annotation defines the generic annotation tree handed to the
// resolvers and a small parser that builds it from directive text.
//
// An attribute is a Meta: a bare marker (`name`), a list of nested items
// (`name(a, b = "x", "lit")`), or a key-value pair (`name = "lit"`).
// List items are either metas or literals. Every node carries the source
// position it was parsed from.
//
// Go sources attach attributes through comment directives and struct tags:
//
//	//derive:use Default(new), DerefMut
//	type Wrapper[T any] struct {
//		//derive:use DerefMut
//		Inner T
//		Count int `derive:"Default = \"1\""`
//	}
//
// A directive line `//derive:use <items>` is equivalent to the attribute
// `derive(<items>)`; `//derive:kind <kind>` marks unions.
package annotation
