package analyzer

import (
	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/plan"
)

func resolveTables(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("resolve_tables")
	defer span.Finish()

	a.Log("resolve table, node of type: %T", n)
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		a.Log("transforming node of type: %T", n)
		if n.Resolved() {
			return n, nil
		}

		t, ok := n.(*plan.UnresolvedTable)
		if !ok {
			return n, nil
		}

		ds, err := a.Catalog.Dataset(t.Name())
		if err != nil {
			return nil, err
		}

		a.Log("table resolved: %q", ds.Name())

		return plan.NewResolvedDataset(ds, t.Alias()), nil
	})
}
