// Package results holds the result-record containers that compiled
// statements' result handlers read from.
//
// A container is anything implementing Records. Three are provided: Table
// (rows held in memory), FromRows (drains a database/sql result set into a
// Table) and FromArrow (a view over an Arrow record batch).
package results
