package expression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
)

var comparisonCases = []struct {
	left, right interface{}
	cmp         int
}{
	{int64(1), int64(2), -1},
	{int64(2), int64(2), 0},
	{int64(3), float64(2.5), 1},
	{float64(2), int64(2), 0},
	{"a", "b", -1},
	{"b", "b", 0},
	{int64(10), "1", -1},
	{true, int64(1), 0},
	{time.Unix(1, 0), time.Unix(2, 0), -1},
	{"z", time.Unix(0, 0), -1},
}

func TestComparisons(t *testing.T) {
	for _, tt := range comparisonCases {
		left := NewGetField(1, sql.Any, "left", true)
		right := NewGetField(2, sql.Any, "right", true)
		row := sql.NewRow("r", tt.left, tt.right)

		t.Run("", func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.cmp == 0, eval(t, NewEquals(left, right), row))
			require.Equal(tt.cmp < 0, eval(t, NewLessThan(left, right), row))
			require.Equal(tt.cmp > 0, eval(t, NewGreaterThan(left, right), row))
			require.Equal(tt.cmp <= 0, eval(t, NewLessThanOrEqual(left, right), row))
			require.Equal(tt.cmp >= 0, eval(t, NewGreaterThanOrEqual(left, right), row))
		})
	}
}

func TestComparisonWithNull(t *testing.T) {
	require := require.New(t)

	left := NewGetField(1, sql.Any, "left", true)
	right := NewLiteral(int64(1), sql.Int64)
	row := sql.NewRow("r", nil)

	require.Nil(eval(t, NewEquals(left, right), row))
	require.Nil(eval(t, NewLessThan(left, right), row))
	require.Nil(eval(t, NewGreaterThan(right, left), row))
	require.Nil(eval(t, NewEquals(NewLiteral(nil, sql.Null), NewLiteral(nil, sql.Null)), row))
}

func TestComparisonString(t *testing.T) {
	require := require.New(t)

	a := NewUnresolvedColumn("a")
	b := NewLiteral(int64(1), sql.Int64)

	require.Equal("a = 1", NewEquals(a, b).String())
	require.Equal("a < 1", NewLessThan(a, b).String())
	require.Equal("a > 1", NewGreaterThan(a, b).String())
	require.Equal("a <= 1", NewLessThanOrEqual(a, b).String())
	require.Equal("a >= 1", NewGreaterThanOrEqual(a, b).String())
	require.Equal("a REGEXP 1", NewRegexp(a, b).String())
}

func TestRegexp(t *testing.T) {
	testCases := []struct {
		value, pattern interface{}
		expected       interface{}
	}{
		{"foobar", "^foo", true},
		{"foobar", "baz", false},
		{"foobar", nil, nil},
		{int64(1), int64(1), true},
	}

	for _, tt := range testCases {
		e := NewRegexp(NewLiteral(tt.value, sql.Any), NewLiteral(tt.pattern, sql.Any))
		require.Equal(t, tt.expected, eval(t, e, nil))
	}
}

func TestInvalidRegexp(t *testing.T) {
	e := NewRegexp(NewLiteral("foo", sql.Text), NewLiteral("(", sql.Text))
	_, err := e.Eval(sql.NewEmptyContext(), nil)
	require.Error(t, err)
}
