package relir

import (
	"github.com/roach88/sqlplan/internal/ir"
)

// Node is any node of the relational IR.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	// Kind returns the variant name, e.g. "Selection".
	Kind() string
	irNode() // Marker method - seals interface to this package
}

// TableNode is a table-shaped node: it denotes a relation with a schema.
type TableNode interface {
	Node
	Schema() Schema
	tableNode()
}

// Value is a value-shaped node: a scalar or a column.
type Value interface {
	Node
	Shape() Shape
	Name() string
	Type() ir.DataType
	valueNode()
}

// Leaf is implemented by opaque source relations that compile to a bare
// table reference: PhysicalTable, SQLQueryResult and InMemoryTable.
type Leaf interface {
	TableNode
	leaf()
}

// Shape is the output shape of a value node.
type Shape int

const (
	// ShapeUnknown is reported by nodes whose shape cannot be determined.
	ShapeUnknown Shape = iota
	// ShapeScalar is a single value.
	ShapeScalar
	// ShapeColumnar is one value per row of some relation.
	ShapeColumnar
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeColumnar:
		return "columnar"
	default:
		return "unknown"
	}
}

// IsScalar reports whether the shape is scalar.
func (s Shape) IsScalar() bool { return s == ShapeScalar }

// IsColumnar reports whether the shape is columnar.
func (s Shape) IsColumnar() bool { return s == ShapeColumnar }

// widest returns the columnar shape if any input is columnar.
func widest(values ...Value) Shape {
	shape := ShapeScalar
	for _, v := range values {
		if v == nil {
			continue
		}
		switch v.Shape() {
		case ShapeColumnar:
			shape = ShapeColumnar
		case ShapeUnknown:
			return ShapeUnknown
		}
	}
	return shape
}

// Field is a named, typed column of a schema.
type Field struct {
	Name string      `json:"name" yaml:"name"`
	Type ir.DataType `json:"type" yaml:"type"`
}

// Schema is the ordered list of columns produced by a table node.
type Schema []Field

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the field named name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Equal reports whether both schemas have the same names and types in order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
