// Package analysis provides pure rewrites and queries over relir plans that
// the select compiler relies on:
//
//   - SubstituteParents lifts column references through wholesale
//     projections of physical tables
//   - IsScalarReduction and ReductionToAggregation turn bare aggregates into
//     one-metric Aggregation nodes
//   - AsTable wraps a derived column as a one-column Selection
//   - FindSubqueries finds relations shared by several dependents
//
// None of these functions mutate their input. Rewrites rebuild only the nodes
// whose children changed, so untouched sub-trees keep their identity.
package analysis
