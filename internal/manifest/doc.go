// Package manifest handles YAML descriptions of aggregates.
//
// A manifest lets types that are not declared in Go source (or that are
// generated elsewhere) go through the same derivation pipeline as
// annotated structs. Annotations are written in the same syntax as in Go
// directives and keep their YAML line and column for diagnostics.
//
// Example:
//
//	version: "1"
//	package: inventory
//	imports:
//	  time: time
//	types:
//	  - name: Pair
//	    type_params:
//	      - name: K
//	        constraint: comparable
//	      - name: V
//	    annotations: derive(Default(new), Deref)
//	    fields:
//	      - name: Key
//	        type: K
//	        annotations: derive(Default, Deref)
//	      - name: Value
//	        type: V
//	  - name: Shape
//	    kind: union
//	    annotations: derive(Default)
//	    fields:
//	      - name: Circle
//	        type: "*Circle"
//	        annotations: derive(Default)
//	      - name: Square
//	        type: "*Square"
//
// Kinds: record (default), union, tagged. Unnamed fields are embedded.
package manifest
