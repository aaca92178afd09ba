package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
)

func TestStar(t *testing.T) {
	require := require.New(t)

	var e sql.Expression = NewStar()
	require.False(e.Resolved())
	require.Equal("*", e.String())
	require.Equal("t.*", NewQualifiedStar("t").String())

	_, err := e.Eval(sql.NewEmptyContext(), nil)
	require.True(ErrUnresolvedEval.Is(err))
}
