package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
)

func TestSort(t *testing.T) {
	ctx := sql.NewEmptyContext()

	i := expression.NewGetFieldWithTable(1, sql.Any, "mytable", "i", true)
	s := expression.NewGetFieldWithTable(2, sql.Any, "mytable", "s", true)
	flag := expression.NewGetFieldWithTable(3, sql.Any, "mytable", "t", true)

	testCases := []struct {
		name     string
		fields   []SortField
		expected []string
	}{
		{"ascending", []SortField{{Column: i, Order: Ascending}}, []string{"r1", "r2", "r3"}},
		{"descending", []SortField{{Column: i, Order: Descending}}, []string{"r3", "r2", "r1"}},
		{
			"multiple fields",
			[]SortField{{Column: s, Order: Descending}, {Column: i, Order: Descending}},
			[]string{"r2", "r3", "r1"},
		},
		{"stable", []SortField{{Column: s, Order: Ascending}}, []string{"r1", "r3", "r2"}},
		{"nulls first", []SortField{{Column: flag, Order: Ascending}}, []string{"r1", "r2", "r3"}},
		{"nulls last when descending", []SortField{{Column: flag, Order: Descending}}, []string{"r3", "r1", "r2"}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			node := NewSort(tt.fields, testSource(t, "i", "s", "t"))
			require.True(node.Resolved())

			rows, err := sql.NodeToRows(ctx, node)
			require.NoError(err)

			var names []string
			for _, r := range rows {
				names = append(names, r.Name())
			}
			require.Equal(tt.expected, names)
		})
	}
}

func TestSortError(t *testing.T) {
	require := require.New(t)

	node := NewSort(
		[]SortField{{Column: expression.NewGetField(9, sql.Any, "foo", true), Order: Ascending}},
		testSource(t, "i"),
	)

	_, err := sql.NodeToRows(sql.NewEmptyContext(), node)
	require.Error(err)
	require.True(ErrUnableSort.Is(err))
}

func TestSortOrderString(t *testing.T) {
	require := require.New(t)
	require.Equal("ASC", Ascending.String())
	require.Equal("DESC", Descending.String())
	require.Equal("invalid SortOrder", SortOrder(0).String())
}
