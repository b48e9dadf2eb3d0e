package relir

import (
	"fmt"
)

// ValidationResult contains the structural analysis of a plan.
type ValidationResult struct {
	// IsValid is true when no problems were found.
	IsValid bool

	// Warnings lists structural problems, one per offending node.
	Warnings []string
}

// Validate checks a plan for structural problems the compiler cannot repair:
//  1. Nil children where a relation or value is required
//  2. Column references that are missing from their relation's schema
//  3. Negative limits or offsets
//  4. DropNa with a how other than "any" or "all"
//  5. Set operations over relations with different schemas
//
// Problems are reported as warnings; compiling an invalid plan may still
// succeed but the rendered SQL will not be meaningful.
//
// Validate is a pure function with no side effects.
func Validate(root Node) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	if isNil(root) {
		v.addWarning("nil plan root")
	} else {
		Walk(func(n Node) bool {
			v.validateNode(n)
			return true
		}, root)
	}

	return ValidationResult{
		IsValid:  len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) requireTable(owner Node, field string, t TableNode) bool {
	if t == nil {
		v.addWarning("%s: missing %s relation", owner.Kind(), field)
		return false
	}
	return true
}

func (v *validator) validateNode(n Node) {
	switch node := n.(type) {
	case *PhysicalTable:
		if node.Name == "" {
			v.addWarning("PhysicalTable: empty name")
		}
	case *SelfReference:
		v.requireTable(node, "referenced", node.Table)
	case *Join:
		v.requireTable(node, "left", node.Left)
		v.requireTable(node, "right", node.Right)
	case *Selection:
		v.requireTable(node, "input", node.Table)
	case *Aggregation:
		v.requireTable(node, "input", node.Table)
		if len(node.Metrics) == 0 && len(node.By) == 0 {
			v.addWarning("Aggregation: no metrics and no grouping keys")
		}
	case *Distinct:
		v.requireTable(node, "input", node.Table)
	case *DropNa:
		v.requireTable(node, "input", node.Table)
		if node.How != HowAny && node.How != HowAll {
			v.addWarning("DropNa: how must be %q or %q, got %q", HowAny, HowAll, node.How)
		}
	case *FillNa:
		if schema, ok := v.schemaOf(node, node.Table); ok {
			for name := range node.Mapping {
				if _, ok := schema.Lookup(name); !ok {
					v.addWarning("FillNa: column %q not in input schema", name)
				}
			}
		}
	case *Limit:
		v.requireTable(node, "input", node.Table)
		if node.N < 0 || node.Offset < 0 {
			v.addWarning("Limit: negative limit or offset (%d, %d)", node.N, node.Offset)
		}
	case *Union:
		v.validateSetOp(node, &node.SetOp)
	case *Intersection:
		v.validateSetOp(node, &node.SetOp)
	case *Difference:
		v.validateSetOp(node, &node.SetOp)
	case *TableColumn:
		if schema, ok := v.schemaOf(node, node.Table); ok {
			if _, ok := schema.Lookup(node.Column); !ok {
				v.addWarning("TableColumn: column %q not in %s schema", node.Column, node.Table.Kind())
			}
		}
	case *SortKey:
		if node.Expr == nil {
			v.addWarning("SortKey: missing expression")
		}
	case *Reduction:
		if node.Arg == nil {
			v.addWarning("Reduction %s: missing argument", node.Func)
		}
	}
}

func (v *validator) validateSetOp(owner Node, s *SetOp) {
	left, lok := v.schemaOf(owner, s.Left)
	right, rok := v.schemaOf(owner, s.Right)
	if !lok || !rok {
		return
	}
	if !left.Equal(right) {
		v.addWarning("%s: operand schemas differ (%v vs %v)", owner.Kind(), left.Names(), right.Names())
	}
}

// schemaOf returns t's schema, or false when t (or something below it that
// the schema depends on) is missing. Missing relations are reported where
// they occur.
func (v *validator) schemaOf(owner Node, t TableNode) (s Schema, ok bool) {
	if t == nil {
		v.addWarning("%s: missing relation", owner.Kind())
		return nil, false
	}
	defer func() {
		if recover() != nil {
			s, ok = nil, false
		}
	}()
	return t.Schema(), true
}
