package querysql

import (
	"github.com/roach88/sqlplan/internal/ir"
	"github.com/roach88/sqlplan/internal/relir"
)

func alltypes() *relir.PhysicalTable {
	return relir.Table("functional_alltypes",
		relir.F("id", ir.DataType{Kind: ir.KindInt64, NotNull: true}),
		relir.F("string_col", ir.StringType),
		relir.F("double_col", ir.Float64Type),
	)
}

// unknownTable is a table kind the collector has no rule for.
type unknownTable struct {
	relir.TableNode
}

func (unknownTable) Kind() string { return "Unknown" }
