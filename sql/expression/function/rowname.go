package function

import (
	"github.com/src-d/go-mldb/sql"
)

// RowName returns the name of the row being evaluated.
type RowName struct{}

// NewRowName creates a new RowName expression.
func NewRowName() sql.Expression {
	return &RowName{}
}

// Resolved implements the sql.Expression interface.
func (*RowName) Resolved() bool { return true }

// IsNullable implements the sql.Expression interface.
func (*RowName) IsNullable() bool { return false }

// Type implements the sql.Expression interface.
func (*RowName) Type() sql.Type { return sql.Text }

// Children implements the sql.Expression interface.
func (*RowName) Children() []sql.Expression { return nil }

// Eval implements the sql.Expression interface.
func (*RowName) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return row.Name(), nil
}

func (*RowName) String() string { return "rowName()" }

// WithChildren implements the sql.Expression interface.
func (r *RowName) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(r, len(children), 0)
	}
	return r, nil
}
