package results

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// ArrowRecords exposes an Arrow record batch as Records. Values are
// materialized per column on demand.
type ArrowRecords struct {
	rec arrow.Record
}

// FromArrow wraps rec. The caller keeps ownership of rec and must keep it
// alive while the returned value is in use.
func FromArrow(rec arrow.Record) *ArrowRecords {
	return &ArrowRecords{rec: rec}
}

func (a *ArrowRecords) Columns() []string {
	fields := a.rec.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func (a *ArrowRecords) NumRows() int { return int(a.rec.NumRows()) }

func (a *ArrowRecords) Column(name string) ([]any, error) {
	indices := a.rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	col := a.rec.Column(indices[0])
	out := make([]any, col.Len())
	for i := range out {
		if col.IsNull(i) {
			continue
		}
		out[i] = col.GetOneForMarshal(i)
	}
	return out, nil
}
