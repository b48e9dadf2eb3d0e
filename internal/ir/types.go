package ir

import (
	"fmt"
	"strings"
)

// TypeKind identifies the logical type of a column or expression.
type TypeKind string

const (
	KindUnknown   TypeKind = "unknown"
	KindNull      TypeKind = "null"
	KindBoolean   TypeKind = "boolean"
	KindInt64     TypeKind = "int64"
	KindFloat64   TypeKind = "float64"
	KindDecimal   TypeKind = "decimal"
	KindString    TypeKind = "string"
	KindDate      TypeKind = "date"
	KindTimestamp TypeKind = "timestamp"
	KindBinary    TypeKind = "binary"
)

var knownKinds = map[TypeKind]bool{
	KindNull: true, KindBoolean: true, KindInt64: true, KindFloat64: true,
	KindDecimal: true, KindString: true, KindDate: true, KindTimestamp: true,
	KindBinary: true,
}

// DataType is a logical type plus nullability.
// The zero value is an unknown, nullable type.
type DataType struct {
	Kind    TypeKind `json:"kind" yaml:"kind"`
	NotNull bool     `json:"not_null,omitempty" yaml:"not_null,omitempty"`
}

// Nullable reports whether values of this type may be NULL.
func (t DataType) Nullable() bool { return !t.NotNull }

// IsNumeric reports whether the type is an integer, float, or decimal.
func (t DataType) IsNumeric() bool {
	return t.Kind == KindInt64 || t.Kind == KindFloat64 || t.Kind == KindDecimal
}

func (t DataType) String() string {
	kind := t.Kind
	if kind == "" {
		kind = KindUnknown
	}
	if t.NotNull {
		return "!" + string(kind)
	}
	return string(kind)
}

// Convenience constructors.
var (
	BooleanType = DataType{Kind: KindBoolean}
	Int64Type   = DataType{Kind: KindInt64}
	Float64Type = DataType{Kind: KindFloat64}
	StringType  = DataType{Kind: KindString}
	NullType    = DataType{Kind: KindNull}
)

// ParseType parses a type string such as "int64" or "!string".
// A leading "!" marks the type non-nullable.
func ParseType(s string) (DataType, error) {
	s = strings.TrimSpace(s)
	var t DataType
	if strings.HasPrefix(s, "!") {
		t.NotNull = true
		s = s[1:]
	}
	kind := TypeKind(strings.ToLower(s))
	if !knownKinds[kind] {
		return DataType{}, fmt.Errorf("unknown type %q", s)
	}
	t.Kind = kind
	return t, nil
}

// TypeOf infers the logical type of a literal.
func TypeOf(v IRValue) DataType {
	switch v.(type) {
	case IRString:
		return DataType{Kind: KindString, NotNull: true}
	case IRInt:
		return DataType{Kind: KindInt64, NotNull: true}
	case IRFloat:
		return DataType{Kind: KindFloat64, NotNull: true}
	case IRBool:
		return DataType{Kind: KindBoolean, NotNull: true}
	case IRNull, nil:
		return NullType
	default:
		return DataType{Kind: KindUnknown}
	}
}
