package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/memory"
	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
	"github.com/src-d/go-mldb/sql/expression/function"
	"github.com/src-d/go-mldb/sql/plan"
)

func TestAnalyzeSelect(t *testing.T) {
	require := require.New(t)

	catalog, ds := testCatalog(t)
	a := NewDefault(catalog)

	notAnalyzed := plan.NewProject(
		[]sql.Expression{
			expression.NewAlias(expression.NewUnresolvedColumn("s"), "label"),
			expression.NewUnresolvedFunction("upper", false, expression.NewUnresolvedColumn("s")),
		},
		plan.NewSort(
			[]plan.SortField{{Column: expression.NewUnresolvedColumn("label"), Order: plan.Descending}},
			plan.NewFilter(
				expression.NewGreaterThan(
					expression.NewUnresolvedColumn("i"),
					expression.NewLiteral(int64(1), sql.Int64),
				),
				plan.NewUnresolvedTable("mytable", ""),
			),
		),
	)

	analyzed, err := a.Analyze(sql.NewEmptyContext(), notAnalyzed)
	require.NoError(err)

	i := expression.NewGetFieldWithTable(1, sql.Any, "mytable", "i", true)
	s := expression.NewGetFieldWithTable(2, sql.Any, "mytable", "s", true)
	source := plan.NewResolvedDataset(ds, "")
	source.Columns = []string{"i", "s"}

	expected := plan.NewProject(
		[]sql.Expression{
			expression.NewAlias(s, "label"),
			function.NewUpper(s),
		},
		plan.NewSort(
			[]plan.SortField{{Column: s, Order: plan.Descending}},
			plan.NewFilter(
				expression.NewGreaterThan(i, expression.NewLiteral(int64(1), sql.Int64)),
				source,
			),
		),
	)

	require.Equal(expected, analyzed)
	require.True(analyzed.Resolved())
}

func TestAnalyzeStar(t *testing.T) {
	require := require.New(t)

	catalog, ds := testCatalog(t)
	a := NewDefault(catalog)

	analyzed, err := a.Analyze(
		sql.NewEmptyContext(),
		plan.NewProject(
			[]sql.Expression{expression.NewStar()},
			plan.NewUnresolvedTable("mytable", "t"),
		),
	)
	require.NoError(err)

	source := plan.NewResolvedDataset(ds, "t")
	source.Columns = []string{"i", "s", "extra"}

	expected := plan.NewProject(
		[]sql.Expression{
			expression.NewGetFieldWithTable(1, sql.Any, "t", "i", true),
			expression.NewGetFieldWithTable(2, sql.Any, "t", "s", true),
			expression.NewGetFieldWithTable(3, sql.Any, "t", "extra", true),
		},
		source,
	)
	require.Equal(expected, analyzed)
}

func TestAnalyzeErrors(t *testing.T) {
	catalog, _ := testCatalog(t)
	a := NewDefault(catalog)

	testCases := []struct {
		name string
		node sql.Node
		err  interface{ Is(error) bool }
	}{
		{
			"star without from",
			plan.NewProject([]sql.Expression{expression.NewStar()}, plan.NewDual()),
			sql.ErrAllColumnsNotSupported,
		},
		{
			"column without from",
			plan.NewProject([]sql.Expression{expression.NewUnresolvedColumn("x")}, plan.NewDual()),
			sql.ErrNoDatasetForColumn,
		},
		{
			"missing dataset",
			plan.NewProject(
				[]sql.Expression{expression.NewUnresolvedColumn("x")},
				plan.NewUnresolvedTable("foo", ""),
			),
			sql.ErrDatasetNotFound,
		},
		{
			"missing function",
			plan.NewProject(
				[]sql.Expression{expression.NewUnresolvedFunction("foo", false)},
				plan.NewUnresolvedTable("mytable", ""),
			),
			sql.ErrFunctionNotFound,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			_, err := a.Analyze(sql.NewEmptyContext(), tt.node)
			require.Error(err)
			require.True(tt.err.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestAddRules(t *testing.T) {
	require := require.New(t)

	catalog, _ := testCatalog(t)

	a := NewDefault(catalog)
	require.Len(a.Batches, 5)
	require.Len(a.Batches[0].Rules, 0)
	require.Len(a.Batches[3].Rules, 0)

	a = NewBuilder(catalog).
		AddPreAnalyzeRule("foo", noopRule).
		AddPostAnalyzeRule("bar", noopRule).
		Build()

	require.Len(a.Batches[0].Rules, 1)
	require.Len(a.Batches[3].Rules, 1)
	require.Equal("foo", a.Batches[0].Rules[0].Name)
	require.Equal("bar", a.Batches[3].Rules[0].Name)
}

func TestDebug(t *testing.T) {
	require := require.New(t)

	catalog, _ := testCatalog(t)
	require.False(NewBuilder(catalog).Build().Debug)
	require.True(NewBuilder(catalog).WithDebug().Build().Debug)
}

func TestPostAnalyzeRules(t *testing.T) {
	require := require.New(t)

	catalog, _ := testCatalog(t)

	var seen []string
	a := NewBuilder(catalog).
		AddPostAnalyzeRule("record", func(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
			seen = append(seen, n.String())
			require.True(n.Resolved())
			return n, nil
		}).
		Build()

	_, err := a.Analyze(
		sql.NewEmptyContext(),
		plan.NewProject(
			[]sql.Expression{expression.NewUnresolvedColumn("i")},
			plan.NewUnresolvedTable("mytable", ""),
		),
	)
	require.NoError(err)
	require.NotEmpty(seen)
}

func TestMaxIterations(t *testing.T) {
	require := require.New(t)

	catalog, _ := testCatalog(t)

	var count int64
	a := NewBuilder(catalog).
		AddPostAnalyzeRule("always_change", func(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
			count++
			return plan.NewLimit(count, plan.NewDual()), nil
		}).
		Build()

	analyzed, err := a.Analyze(sql.NewEmptyContext(), plan.NewDual())
	require.NoError(err)
	require.Equal(plan.NewLimit(maxAnalysisIterations, plan.NewDual()), analyzed)
}

func noopRule(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	return n, nil
}

func getRule(name string) Rule {
	for _, rule := range OnceBeforeDefault {
		if rule.Name == name {
			return rule
		}
	}

	for _, rule := range DefaultRules {
		if rule.Name == name {
			return rule
		}
	}

	for _, rule := range DefaultValidationRules {
		if rule.Name == name {
			return rule
		}
	}

	panic("missing rule: " + name)
}

func testCatalog(t *testing.T) (*sql.Catalog, *memory.Dataset) {
	t.Helper()
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	ds := memory.NewDataset("mytable")
	require.NoError(ds.RecordRow(ctx, "r1", []sql.Cell{{Column: "i", Value: 1}, {Column: "s", Value: "a"}}))
	require.NoError(ds.RecordRow(ctx, "r2", []sql.Cell{{Column: "extra", Value: true}}))
	require.NoError(ds.Commit(ctx))

	catalog := sql.NewCatalog()
	catalog.RegisterFunctions(function.Defaults)
	require.NoError(catalog.AddDataset(ds))

	return catalog, ds
}
