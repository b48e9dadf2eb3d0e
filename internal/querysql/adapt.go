package querysql

import (
	"errors"
	"fmt"

	"github.com/roach88/sqlplan/internal/analysis"
	"github.com/roach88/sqlplan/internal/relir"
	"github.com/roach88/sqlplan/internal/results"
)

// ResultKind is what a ResultHandler extracts from query results.
type ResultKind string

const (
	// ResultTable returns the records unchanged.
	ResultTable ResultKind = "table"
	// ResultScalar returns one field of the first row.
	ResultScalar ResultKind = "scalar"
	// ResultColumn returns one field of every row.
	ResultColumn ResultKind = "column"
)

// ErrEmptyResult is returned when a scalar is requested from no rows.
var ErrEmptyResult = errors.New("empty result")

// ResultHandler recovers the shape the caller originally asked for from the
// records a compiled statement produced.
type ResultHandler struct {
	Kind  ResultKind `json:"kind" msgpack:"kind"`
	Field string     `json:"field,omitempty" msgpack:"field,omitempty"`
}

// Apply extracts the result from r. Table handlers return r itself, column
// handlers a []any and scalar handlers a single value.
func (h ResultHandler) Apply(r results.Records) (any, error) {
	switch h.Kind {
	case ResultTable:
		return r, nil
	case ResultScalar:
		values, err := r.Column(h.Field)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("scalar %q: %w", h.Field, ErrEmptyResult)
		}
		return values[0], nil
	case ResultColumn:
		return r.Column(h.Field)
	default:
		return nil, fmt.Errorf("unknown result kind %q", h.Kind)
	}
}

func (h ResultHandler) String() string {
	if h.Field == "" {
		return string(h.Kind)
	}
	return fmt.Sprintf("%s(%s)", h.Kind, h.Field)
}

func tableHandler() ResultHandler            { return ResultHandler{Kind: ResultTable} }
func scalarHandler(name string) ResultHandler { return ResultHandler{Kind: ResultScalar, Field: name} }
func columnHandler(name string) ResultHandler { return ResultHandler{Kind: ResultColumn, Field: name} }

// adapt normalizes n into the node to compile and the handler for its
// results. The returned node is a table node, except for plain scalar
// values which compile to a statement without a FROM clause.
func adapt(n relir.Node) (relir.Node, ResultHandler, error) {
	switch n := n.(type) {
	case nil:
		return nil, ResultHandler{}, unsupportedNode("nil")
	case relir.TableNode:
		return n, tableHandler(), nil
	case relir.Value:
		return adaptValue(n)
	default:
		return nil, ResultHandler{}, unsupportedNode(n.Kind())
	}
}

func adaptValue(v relir.Value) (relir.Node, ResultHandler, error) {
	name := v.Name()
	switch shape := v.Shape(); shape {
	case relir.ShapeScalar:
		if analysis.IsScalarReduction(v) {
			agg, err := analysis.ReductionToAggregation(v)
			if err != nil {
				return nil, ResultHandler{}, ambiguousRoot(v.Kind(), err)
			}
			return agg, scalarHandler(name), nil
		}
		return v, scalarHandler(name), nil
	case relir.ShapeColumnar:
		if col, ok := v.(*relir.TableColumn); ok {
			proj := &relir.Selection{Table: col.Table, Selections: []relir.Node{col}}
			return proj, columnHandler(name), nil
		}
		sel, err := analysis.AsTable(v)
		if err != nil {
			return nil, ResultHandler{}, ambiguousRoot(v.Kind(), err)
		}
		return sel, columnHandler(name), nil
	default:
		return nil, ResultHandler{}, unexpectedShape(v.Kind(), shape)
	}
}
