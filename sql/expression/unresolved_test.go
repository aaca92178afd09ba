package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
)

func TestUnresolvedExpression(t *testing.T) {
	require := require.New(t)

	var e sql.Expression = NewUnresolvedColumn("test_col")
	require.False(e.Resolved())
	require.Equal("test_col", e.String())

	var o sql.Expression = NewEquals(e, e)
	require.False(o.Resolved())
	o = NewNot(e)
	require.False(o.Resolved())

	q := NewUnresolvedQualifiedColumn("t", "test_col")
	require.Equal("t", q.Table())
	require.Equal("t.test_col", q.String())

	_, err := q.Eval(sql.NewEmptyContext(), nil)
	require.True(ErrUnresolvedEval.Is(err))
}

func TestUnresolvedFunction(t *testing.T) {
	require := require.New(t)

	f := NewUnresolvedFunction("concat", false, NewUnresolvedColumn("a"), NewLiteral("b", sql.Text))
	require.False(f.Resolved())
	require.Equal("concat", f.Name())
	require.Equal("concat(a, 'b')", f.String())
	require.Len(f.Children(), 2)

	g, err := f.WithChildren(NewLiteral("a", sql.Text), NewLiteral("b", sql.Text))
	require.NoError(err)
	require.Equal("concat('a', 'b')", g.String())
}
