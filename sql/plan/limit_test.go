package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
)

func TestLimit(t *testing.T) {
	testCases := []struct {
		limit    int64
		expected []string
	}{
		{0, nil},
		{1, []string{"r1"}},
		{2, []string{"r1", "r2"}},
		{10, []string{"r1", "r2", "r3"}},
	}

	for _, tt := range testCases {
		require := require.New(t)

		node := NewLimit(tt.limit, testSource(t, "i"))
		require.Equal(1, len(node.Children()))

		rows, err := sql.NodeToRows(sql.NewEmptyContext(), node)
		require.NoError(err)
		require.Equal(tt.expected, rowNames(rows))
	}
}

func TestOffset(t *testing.T) {
	testCases := []struct {
		offset   int64
		expected []string
	}{
		{0, []string{"r1", "r2", "r3"}},
		{1, []string{"r2", "r3"}},
		{3, nil},
		{5, nil},
	}

	for _, tt := range testCases {
		require := require.New(t)

		node := NewOffset(tt.offset, testSource(t, "i"))
		rows, err := sql.NodeToRows(sql.NewEmptyContext(), node)
		require.NoError(err)
		require.Equal(tt.expected, rowNames(rows))
	}
}

func TestLimitOffset(t *testing.T) {
	require := require.New(t)

	node := NewLimit(1, NewOffset(1, testSource(t, "i")))
	rows, err := sql.NodeToRows(sql.NewEmptyContext(), node)
	require.NoError(err)
	require.Equal([]string{"r2"}, rowNames(rows))
	require.Equal("Limit(1)\n └─ Offset(1)\n     └─ Dataset(mytable)[i]\n", node.String())
}

func rowNames(rows []sql.Row) []string {
	var names []string
	for _, r := range rows {
		names = append(names, r.Name())
	}
	return names
}
