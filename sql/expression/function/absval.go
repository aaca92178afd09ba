package function

import (
	"fmt"
	"math"

	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/expression"
)

// AbsVal is a function that takes the absolute value of a number.
type AbsVal struct {
	expression.UnaryExpression
}

// NewAbsVal creates a new AbsVal expression.
func NewAbsVal(e sql.Expression) sql.Expression {
	return &AbsVal{expression.UnaryExpression{Child: e}}
}

// Eval implements the Expression interface.
func (t *AbsVal) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	val, err := t.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	switch v := val.(type) {
	case nil:
		return nil, nil
	case int64:
		if v == math.MinInt64 {
			return -float64(v), nil
		}
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	default:
		f, err := sql.Float64.Convert(v)
		if err != nil {
			return nil, err
		}
		return math.Abs(f.(float64)), nil
	}
}

// String implements the fmt.Stringer interface.
func (t *AbsVal) String() string {
	return fmt.Sprintf("abs(%s)", t.Child)
}

// Type implements the Expression interface.
func (t *AbsVal) Type() sql.Type {
	if typ := t.Child.Type(); sql.IsNumber(typ) {
		return typ
	}
	return sql.Float64
}

// WithChildren implements the Expression interface.
func (t *AbsVal) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 1)
	}
	return NewAbsVal(children[0]), nil
}
