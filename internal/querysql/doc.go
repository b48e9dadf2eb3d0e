// Package querysql compiles a relir plan into a Select: a dialect-agnostic
// description of one SELECT statement that a SQL renderer turns into text.
//
// Compilation runs four passes over the input:
//
//  1. adapt normalizes the input into a table node and a ResultHandler that
//     recovers the requested scalar, column or table from query results.
//  2. collect walks the table node and accumulates a ClauseState, lowering
//     DropNa, FillNa, Limit and Distinct into plain clauses.
//  3. extractSubqueries marks relations read by two or more dependents as
//     common table expressions.
//  4. assignAliases gives every relation in the FROM clause an alias in the
//     compilation Context.
//
// The input plan is never mutated. The Context is the only mutable state
// and must not be shared between concurrent compilations.
package querysql
