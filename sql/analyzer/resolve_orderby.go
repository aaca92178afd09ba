package analyzer

import (
	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
	"github.com/src-d/go-mldb/sql/plan"
)

// resolveOrderByAliases replaces the columns of a sort that name an alias of
// the projection above it with the aliased expression, as the sort is
// evaluated before the projection.
func resolveOrderByAliases(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("resolve_orderby_aliases")
	defer span.Finish()

	a.Log("resolving order by aliases, node of type: %T", n)
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		p, ok := n.(*plan.Project)
		if !ok {
			return n, nil
		}

		aliases := make(map[string]sql.Expression)
		for _, e := range p.Projections {
			if alias, ok := e.(*expression.Alias); ok {
				aliases[alias.Name()] = alias.Child
			}
		}

		if len(aliases) == 0 {
			return n, nil
		}

		child, err := plan.TransformUp(p.Child, func(n sql.Node) (sql.Node, error) {
			if _, ok := n.(*plan.Sort); !ok {
				return n, nil
			}

			return plan.TransformExpressions(n, func(e sql.Expression) (sql.Expression, error) {
				uc, ok := e.(*expression.UnresolvedColumn)
				if !ok || uc.Table() != "" {
					return e, nil
				}

				aliased, ok := aliases[uc.Name()]
				if !ok {
					return e, nil
				}

				a.Log("sort column %q is an alias of %s", uc.Name(), aliased)
				return aliased, nil
			})
		})
		if err != nil {
			return nil, err
		}

		return plan.NewProject(p.Projections, child), nil
	})
}
