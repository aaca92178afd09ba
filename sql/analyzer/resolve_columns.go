package analyzer

import (
	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
	"github.com/src-d/go-mldb/sql/plan"
)

// resolveColumns binds every column referenced in the plan to the dataset
// rows come from. Columns are added to the dataset node as they are found,
// so a dataset does not need to know all its columns beforehand.
func resolveColumns(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("resolve_columns")
	defer span.Finish()

	a.Log("resolve columns, node of type: %T", n)

	var source = leaf(n)
	var dataset, _ = source.(*plan.ResolvedDataset)

	node, err := plan.TransformExpressionsUp(n, func(e sql.Expression) (sql.Expression, error) {
		uc, ok := e.(*expression.UnresolvedColumn)
		if !ok {
			return e, nil
		}

		if dataset == nil {
			if _, ok := source.(*plan.Dual); ok {
				return nil, sql.ErrNoDatasetForColumn.New(uc.String())
			}
			return nil, sql.ErrColumnNotFound.New(uc.String())
		}

		if !dataset.Qualifies(uc.Table()) {
			return nil, sql.ErrColumnNotFound.New(uc.String())
		}

		var idx int
		dataset, idx = dataset.WithColumn(uc.Name())
		a.Log("column %q bound to index %d", uc, idx)

		return expression.NewGetFieldWithTable(
			idx,
			sql.Any,
			dataset.Source(),
			uc.Name(),
			true,
		), nil
	})
	if err != nil {
		return nil, err
	}

	if dataset == nil || dataset == source {
		return node, nil
	}

	return plan.TransformUp(node, func(n sql.Node) (sql.Node, error) {
		if _, ok := n.(*plan.ResolvedDataset); ok {
			return dataset, nil
		}
		return n, nil
	})
}
