package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
)

func eval(t *testing.T, e sql.Expression, row sql.Row) interface{} {
	t.Helper()
	v, err := e.Eval(sql.NewEmptyContext(), row)
	require.NoError(t, err)
	return v
}

func TestIsUnary(t *testing.T) {
	require := require.New(t)
	require.True(IsUnary(NewNot(nil)))
	require.False(IsUnary(NewAnd(nil, nil)))
}

func TestIsBinary(t *testing.T) {
	require := require.New(t)
	require.False(IsBinary(NewNot(nil)))
	require.True(IsBinary(NewAnd(nil, nil)))
}

func TestColumnName(t *testing.T) {
	require := require.New(t)

	require.Equal("foo", ColumnName(NewAlias(NewLiteral(int64(1), sql.Int64), "foo")))
	require.Equal("x", ColumnName(NewGetFieldWithTable(1, sql.Any, "t", "x", true)))
	require.Equal("1 + 2", ColumnName(NewPlus(
		NewLiteral(int64(1), sql.Int64),
		NewLiteral(int64(2), sql.Int64),
	)))
	require.Equal("x / 0", ColumnName(NewDiv(
		NewGetFieldWithTable(1, sql.Any, "s", "x", true),
		NewLiteral(int64(0), sql.Int64),
	)))
	require.Equal("-x", ColumnName(NewUnaryMinus(NewGetFieldWithTable(1, sql.Any, "s", "x", true))))
}

func TestGetField(t *testing.T) {
	require := require.New(t)

	f := NewGetFieldWithTable(1, sql.Any, "t", "x", true)
	require.Equal("t.x", f.String())
	require.Equal(int64(3), eval(t, f, sql.NewRow("r", int64(3))))

	_, err := f.Eval(sql.NewEmptyContext(), sql.NewRow("r"))
	require.True(ErrIndexOutOfBounds.Is(err))

	moved := f.WithIndex(2)
	require.Equal(2, moved.(*GetField).Index())
	require.Equal(1, f.Index())
}

func TestAlias(t *testing.T) {
	require := require.New(t)

	a := NewAlias(NewLiteral("foo", sql.Text), "bar")
	require.Equal(sql.Text, a.Type())
	require.Equal("foo", eval(t, a, nil))
	require.Equal("'foo' as bar", a.String())
}

func TestLiteral(t *testing.T) {
	require := require.New(t)

	require.Equal("NULL", NewLiteral(nil, sql.Null).String())
	require.Equal("'a'", NewLiteral("a", sql.Text).String())
	require.Equal("1.5", NewLiteral(1.5, sql.Float64).String())
	require.True(NewLiteral(nil, sql.Null).IsNullable())
	require.Equal(int64(2), eval(t, NewLiteral(int64(2), sql.Int64), nil))
}
