// Package planfile loads relational plans from YAML or CUE documents.
//
// A document names every table node under nodes and refers to other nodes by
// name, so a node used twice is one shared node in the loaded plan:
//
//	nodes:
//	  alltypes:
//	    kind: table
//	    name: functional_alltypes
//	    schema:
//	      - {name: id, type: "!int64"}
//	      - {name: double_col, type: float64}
//	  positive:
//	    kind: selection
//	    table: alltypes
//	    predicates:
//	      - {fn: gt, args: [{col: alltypes.double_col}, {lit: 0}]}
//	root: positive
//
// Instead of root, a document may set value to an expression, such as a
// reduction, to compile a scalar or column query.
package planfile
