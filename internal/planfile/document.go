package planfile

// Document is the decoded form of a plan file. Field names follow the
// document keys; yaml and json tags are used by the YAML and CUE loaders
// respectively.
type Document struct {
	Nodes map[string]NodeDef `json:"nodes" yaml:"nodes"`
	Root  string             `json:"root,omitempty" yaml:"root,omitempty"`
	Value *Expr              `json:"value,omitempty" yaml:"value,omitempty"`
}

// NodeDef defines one table node. Which fields apply depends on Kind.
type NodeDef struct {
	Kind string `json:"kind" yaml:"kind"`

	// table, memory
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
	Schema []FieldDef `json:"schema,omitempty" yaml:"schema,omitempty"`
	// sql
	Query string `json:"query,omitempty" yaml:"query,omitempty"`
	// memory
	Rows [][]any `json:"rows,omitempty" yaml:"rows,omitempty"`

	// Input node for single-input kinds.
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
	// join and set operations
	Left  string `json:"left,omitempty" yaml:"left,omitempty"`
	Right string `json:"right,omitempty" yaml:"right,omitempty"`
	// join kind, or dropna "any"/"all"
	How string `json:"how,omitempty" yaml:"how,omitempty"`

	Select     []Expr `json:"select,omitempty" yaml:"select,omitempty"`
	Predicates []Expr `json:"predicates,omitempty" yaml:"predicates,omitempty"`
	Sort       []Expr `json:"sort,omitempty" yaml:"sort,omitempty"`
	By         []Expr `json:"by,omitempty" yaml:"by,omitempty"`
	Metrics    []Expr `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Having     []Expr `json:"having,omitempty" yaml:"having,omitempty"`
	Subset     []Expr `json:"subset,omitempty" yaml:"subset,omitempty"`

	// fillna
	Mapping map[string]any `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	Fill    any            `json:"fill,omitempty" yaml:"fill,omitempty"`

	// limit
	N      *int64 `json:"n,omitempty" yaml:"n,omitempty"`
	Offset int64  `json:"offset,omitempty" yaml:"offset,omitempty"`

	// set operations
	Distinct bool `json:"distinct,omitempty" yaml:"distinct,omitempty"`
}

// FieldDef is a schema column. Type uses ir.ParseType syntax, e.g.
// "!int64" for a non-null integer.
type FieldDef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Expr is a value expression. Exactly one form applies, checked in this
// order:
//
//	{col: node.column}              column reference
//	{null: true}                    NULL literal
//	{lit: 1}                        literal
//	{sql: "...", shape: scalar}     raw SQL with a declared shape
//	{fn: name, args: [...]}         function call
//	{table: node}                   every column of node (select lists only)
//
// As renames the result. Desc marks a descending sort key.
type Expr struct {
	Col   string `json:"col,omitempty" yaml:"col,omitempty"`
	Null  bool   `json:"null,omitempty" yaml:"null,omitempty"`
	Lit   any    `json:"lit,omitempty" yaml:"lit,omitempty"`
	SQL   string `json:"sql,omitempty" yaml:"sql,omitempty"`
	Shape string `json:"shape,omitempty" yaml:"shape,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Fn    string `json:"fn,omitempty" yaml:"fn,omitempty"`
	Args  []Expr `json:"args,omitempty" yaml:"args,omitempty"`
	Where *Expr  `json:"where,omitempty" yaml:"where,omitempty"`
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
	As    string `json:"as,omitempty" yaml:"as,omitempty"`
	Desc  bool   `json:"desc,omitempty" yaml:"desc,omitempty"`
}
