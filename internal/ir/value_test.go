package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want IRValue
	}{
		{"nil", nil, IRNull{}},
		{"string", "abc", IRString("abc")},
		{"int", 5, IRInt(5)},
		{"int64", int64(-3), IRInt(-3)},
		{"float", 1.5, IRFloat(1.5)},
		{"bool", true, IRBool(true)},
		{"array", []any{1, "x"}, IRArray{IRInt(1), IRString("x")}},
		{"object", map[string]any{"k": false}, IRObject{"k": IRBool(false)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny_Unsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported literal type")

	_, err = FromAny([]any{1, complex(1, 2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[1]")
}

func TestToAny_RoundTrip(t *testing.T) {
	in := map[string]any{"a": int64(1), "b": []any{"x", true}, "c": 2.5}
	v, err := FromAny(in)
	require.NoError(t, err)
	assert.Equal(t, in, ToAny(v))
	assert.Nil(t, ToAny(IRNull{}))
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	// U+1F600 encodes as a surrogate pair (0xD83D...) which sorts before
	// U+FF5E in UTF-16 even though it sorts after it in UTF-8.
	obj := IRObject{"\U0001F600": IRInt(1), "～": IRInt(2), "a": IRInt(3)}
	assert.Equal(t, []string{"a", "\U0001F600", "～"}, obj.SortedKeys())
}

func TestString(t *testing.T) {
	assert.Equal(t, "NULL", String(IRNull{}))
	assert.Equal(t, "NULL", String(nil))
	assert.Equal(t, `"hi"`, String(IRString("hi")))
	assert.Equal(t, "42", String(IRInt(42)))
	assert.Equal(t, "false", String(IRBool(false)))
	assert.Equal(t, "0.5", String(IRFloat(0.5)))
}

func TestParseType(t *testing.T) {
	dt, err := ParseType("int64")
	require.NoError(t, err)
	assert.Equal(t, KindInt64, dt.Kind)
	assert.True(t, dt.Nullable())

	dt, err = ParseType("!String")
	require.NoError(t, err)
	assert.Equal(t, KindString, dt.Kind)
	assert.False(t, dt.Nullable())
	assert.Equal(t, "!string", dt.String())

	_, err = ParseType("varchar2")
	require.Error(t, err)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, KindInt64, TypeOf(IRInt(1)).Kind)
	assert.False(t, TypeOf(IRInt(1)).Nullable())
	assert.Equal(t, KindFloat64, TypeOf(IRFloat(1)).Kind)
	assert.Equal(t, NullType, TypeOf(IRNull{}))
	assert.True(t, TypeOf(IRFloat(2)).IsNumeric())
	assert.False(t, TypeOf(IRString("x")).IsNumeric())
}
