package analyzer

import (
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/plan"
)

// ErrValidationResolved is returned when the plan can not be resolved.
var ErrValidationResolved = errors.NewKind("plan is not resolved because of node '%T'")

func validateIsResolved(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("validate_is_resolved")
	defer span.Finish()

	if !n.Resolved() {
		return nil, unresolvedError(n)
	}

	return n, nil
}

// unresolvedError returns the error for the deepest unresolved node of the
// plan.
func unresolvedError(n sql.Node) error {
	var err error
	plan.Inspect(n, func(node sql.Node) bool {
		if node == nil || node.Resolved() {
			return false
		}

		err = ErrValidationResolved.New(node)
		return true
	})

	return err
}
