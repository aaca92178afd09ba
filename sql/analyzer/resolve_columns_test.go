package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
	"github.com/src-d/go-mldb/sql/plan"
)

func TestResolveColumns(t *testing.T) {
	require := require.New(t)
	f := getRule("resolve_columns")

	catalog, ds := testCatalog(t)
	a := NewDefault(catalog)

	node := plan.NewProject(
		[]sql.Expression{
			expression.NewUnresolvedColumn("s"),
			expression.NewUnresolvedQualifiedColumn("t", "i"),
			expression.NewUnresolvedColumn("missing"),
		},
		plan.NewFilter(
			expression.NewEquals(
				expression.NewUnresolvedColumn("i"),
				expression.NewLiteral(int64(1), sql.Int64),
			),
			plan.NewResolvedDataset(ds, "t"),
		),
	)

	result, err := f.Apply(sql.NewEmptyContext(), a, node)
	require.NoError(err)

	source := plan.NewResolvedDataset(ds, "t")
	source.Columns = []string{"i", "s", "missing"}

	expected := plan.NewProject(
		[]sql.Expression{
			expression.NewGetFieldWithTable(2, sql.Any, "t", "s", true),
			expression.NewGetFieldWithTable(1, sql.Any, "t", "i", true),
			expression.NewGetFieldWithTable(3, sql.Any, "t", "missing", true),
		},
		plan.NewFilter(
			expression.NewEquals(
				expression.NewGetFieldWithTable(1, sql.Any, "t", "i", true),
				expression.NewLiteral(int64(1), sql.Int64),
			),
			source,
		),
	)
	require.Equal(expected, result)
	require.True(result.Resolved())

	rows, err := sql.NodeToRows(sql.NewEmptyContext(), result)
	require.NoError(err)
	require.Equal([]sql.Row{{"r1", "a", int64(1), nil}}, rows)
}

func TestResolveColumnsUnchanged(t *testing.T) {
	require := require.New(t)
	f := getRule("resolve_columns")

	catalog, ds := testCatalog(t)
	a := NewDefault(catalog)

	node := plan.NewProject(
		[]sql.Expression{expression.NewLiteral("foo", sql.Text)},
		plan.NewResolvedDataset(ds, ""),
	)

	result, err := f.Apply(sql.NewEmptyContext(), a, node)
	require.NoError(err)
	require.Equal(node, result)
}

func TestResolveColumnsErrors(t *testing.T) {
	f := getRule("resolve_columns")

	catalog, ds := testCatalog(t)
	a := NewDefault(catalog)

	testCases := []struct {
		name string
		node sql.Node
		err  interface{ Is(error) bool }
	}{
		{
			"column without from",
			plan.NewProject([]sql.Expression{expression.NewUnresolvedColumn("x")}, plan.NewDual()),
			sql.ErrNoDatasetForColumn,
		},
		{
			"wrong qualifier",
			plan.NewProject(
				[]sql.Expression{expression.NewUnresolvedQualifiedColumn("foo", "i")},
				plan.NewResolvedDataset(ds, "t"),
			),
			sql.ErrColumnNotFound,
		},
		{
			"dataset name hidden by alias",
			plan.NewProject(
				[]sql.Expression{expression.NewUnresolvedQualifiedColumn("mytable", "i")},
				plan.NewResolvedDataset(ds, "t"),
			),
			sql.ErrColumnNotFound,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			_, err := f.Apply(sql.NewEmptyContext(), a, tt.node)
			require.Error(err)
			require.True(tt.err.Is(err))
		})
	}
}
