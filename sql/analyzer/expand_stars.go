package analyzer

import (
	"strings"

	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
	"github.com/src-d/go-mldb/sql/plan"
)

// dualScope is the name of the binding scope of queries without FROM clause.
const dualScope = "without FROM"

func expandStars(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("expand_stars")
	defer span.Finish()

	a.Log("expand stars, node of type: %T", n)
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		p, ok := n.(*plan.Project)
		if !ok || !hasStar(p.Projections) {
			return n, nil
		}

		a.Log("expanding stars of projection %s", p)

		var projections []sql.Expression
		for _, e := range p.Projections {
			star, ok := e.(*expression.Star)
			if !ok {
				projections = append(projections, e)
				continue
			}

			columns, err := starColumns(ctx, leaf(p), star)
			if err != nil {
				return nil, err
			}

			projections = append(projections, columns...)
		}

		return plan.NewProject(projections, p.Child), nil
	})
}

func hasStar(exprs []sql.Expression) bool {
	for _, e := range exprs {
		if _, ok := e.(*expression.Star); ok {
			return true
		}
	}
	return false
}

// starColumns returns the columns a star expression stands for. Only
// datasets that can enumerate their columns can be used with a star.
func starColumns(ctx *sql.Context, source sql.Node, star *expression.Star) ([]sql.Expression, error) {
	switch source := source.(type) {
	case *plan.ResolvedDataset:
		if star.Table != "" && !source.Qualifies(star.Table) {
			return nil, sql.ErrColumnNotFound.New(star.String())
		}

		lister, ok := source.Dataset.(sql.ColumnLister)
		if !ok {
			return nil, sql.ErrAllColumnsNotSupported.New(source.Name(), star.String())
		}

		names, err := lister.AllColumns(ctx)
		if err != nil {
			return nil, err
		}

		var columns = make([]sql.Expression, len(names))
		for i, name := range names {
			columns[i] = expression.NewUnresolvedQualifiedColumn(source.Source(), name)
		}
		return columns, nil
	case *plan.Dual:
		return nil, sql.ErrAllColumnsNotSupported.New(dualScope, star.String())
	default:
		return nil, sql.ErrAllColumnsNotSupported.New(strings.ToLower(source.String()), star.String())
	}
}

// leaf returns the node rows of the given node come from. Plans are chains
// of unary nodes over a single source.
func leaf(n sql.Node) sql.Node {
	for {
		children := n.Children()
		if len(children) != 1 {
			return n
		}
		n = children[0]
	}
}
