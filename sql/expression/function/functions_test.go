package function

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
)

func TestLowerUpper(t *testing.T) {
	field := expression.NewGetField(1, sql.Any, "s", true)

	testCases := []struct {
		name  string
		value interface{}
		lower interface{}
		upper interface{}
	}{
		{"null", nil, nil, nil},
		{"text", "HeLLo", "hello", "HELLO"},
		{"number", int64(1), "1", "1"},
		{"bool", true, "true", "TRUE"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			row := sql.NewRow("r", tt.value)
			require.Equal(tt.lower, eval(t, NewLower(field), row))
			require.Equal(tt.upper, eval(t, NewUpper(field), row))
		})
	}

	require.Equal(t, "lower(s)", NewLower(field).String())
	require.Equal(t, "upper(s)", NewUpper(field).String())
}

func TestAbsVal(t *testing.T) {
	field := expression.NewGetField(1, sql.Any, "n", true)

	testCases := []struct {
		value    interface{}
		expected interface{}
	}{
		{nil, nil},
		{int64(-3), int64(3)},
		{int64(3), int64(3)},
		{float64(-1.5), float64(1.5)},
		{"-2.5", float64(2.5)},
		{int64(math.MinInt64), math.Pow(2, 63)},
	}

	for _, tt := range testCases {
		require.Equal(t, tt.expected, eval(t, NewAbsVal(field), sql.NewRow("r", tt.value)))
	}

	_, err := NewAbsVal(field).Eval(sql.NewEmptyContext(), sql.NewRow("r", "foo"))
	require.True(t, sql.ErrInvalidType.Is(err))

	require.Equal(t, sql.Int64, NewAbsVal(expression.NewLiteral(int64(1), sql.Int64)).Type())
	require.Equal(t, sql.Float64, NewAbsVal(field).Type())
}

func TestConcat(t *testing.T) {
	require := require.New(t)

	f, err := NewConcat(
		expression.NewGetField(1, sql.Any, "a", true),
		expression.NewLiteral("-", sql.Text),
		expression.NewGetField(2, sql.Any, "b", true),
	)
	require.NoError(err)
	require.Equal("concat(a, '-', b)", f.String())

	require.Equal("foo-bar", eval(t, f, sql.NewRow("r", "foo", "bar")))
	require.Equal("1-1.5", eval(t, f, sql.NewRow("r", int64(1), 1.5)))
	require.Nil(eval(t, f, sql.NewRow("r", "foo", nil)))

	g, err := f.WithChildren(expression.NewLiteral("x", sql.Text))
	require.NoError(err)
	require.Equal("x", eval(t, g, nil))
	require.False(g.IsNullable())
}

func TestRowName(t *testing.T) {
	require := require.New(t)

	f := NewRowName()
	require.Equal("rowName()", f.String())
	require.Equal("r1", eval(t, f, sql.NewRow("r1", int64(1))))
	require.Equal("", eval(t, f, sql.NewRow()))
}

func eval(t *testing.T, e sql.Expression, row sql.Row) interface{} {
	t.Helper()
	v, err := e.Eval(sql.NewEmptyContext(), row)
	require.NoError(t, err)
	return v
}
