package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
	"github.com/src-d/go-mldb/sql/plan"
)

func TestResolveOrderByAliases(t *testing.T) {
	f := getRule("resolve_orderby_aliases")

	catalog, ds := testCatalog(t)
	a := NewDefault(catalog)
	source := plan.NewResolvedDataset(ds, "")

	testCases := []struct {
		name     string
		node     sql.Node
		expected sql.Node
	}{
		{
			"alias in order by",
			plan.NewProject(
				[]sql.Expression{
					expression.NewAlias(expression.NewUnresolvedColumn("i"), "foo"),
				},
				plan.NewSort(
					[]plan.SortField{{Column: expression.NewUnresolvedColumn("foo"), Order: plan.Ascending}},
					source,
				),
			),
			plan.NewProject(
				[]sql.Expression{
					expression.NewAlias(expression.NewUnresolvedColumn("i"), "foo"),
				},
				plan.NewSort(
					[]plan.SortField{{Column: expression.NewUnresolvedColumn("i"), Order: plan.Ascending}},
					source,
				),
			),
		},
		{
			"alias under a filter",
			plan.NewProject(
				[]sql.Expression{
					expression.NewAlias(
						expression.NewUnresolvedFunction("upper", false, expression.NewUnresolvedColumn("s")),
						"up",
					),
				},
				plan.NewSort(
					[]plan.SortField{
						{Column: expression.NewUnresolvedColumn("up"), Order: plan.Descending},
						{Column: expression.NewUnresolvedColumn("i"), Order: plan.Ascending},
					},
					plan.NewFilter(expression.NewLiteral(true, sql.Boolean), source),
				),
			),
			plan.NewProject(
				[]sql.Expression{
					expression.NewAlias(
						expression.NewUnresolvedFunction("upper", false, expression.NewUnresolvedColumn("s")),
						"up",
					),
				},
				plan.NewSort(
					[]plan.SortField{
						{
							Column: expression.NewUnresolvedFunction("upper", false, expression.NewUnresolvedColumn("s")),
							Order:  plan.Descending,
						},
						{Column: expression.NewUnresolvedColumn("i"), Order: plan.Ascending},
					},
					plan.NewFilter(expression.NewLiteral(true, sql.Boolean), source),
				),
			),
		},
		{
			"qualified column is not an alias",
			plan.NewProject(
				[]sql.Expression{
					expression.NewAlias(expression.NewUnresolvedColumn("i"), "s"),
				},
				plan.NewSort(
					[]plan.SortField{{Column: expression.NewUnresolvedQualifiedColumn("mytable", "s")}},
					source,
				),
			),
			plan.NewProject(
				[]sql.Expression{
					expression.NewAlias(expression.NewUnresolvedColumn("i"), "s"),
				},
				plan.NewSort(
					[]plan.SortField{{Column: expression.NewUnresolvedQualifiedColumn("mytable", "s")}},
					source,
				),
			),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.Apply(sql.NewEmptyContext(), a, tt.node)
			require.NoError(t, err)
			require.Equal(t, tt.expected, result)
		})
	}
}
