package expression

import (
	"github.com/src-d/go-mldb/sql"
)

// IsUnary returns whether the expression is unary or not.
func IsUnary(e sql.Expression) bool {
	return len(e.Children()) == 1
}

// IsBinary returns whether the expression is binary or not.
func IsBinary(e sql.Expression) bool {
	return len(e.Children()) == 2
}

// UnaryExpression is an expression that has only one children.
type UnaryExpression struct {
	Child sql.Expression
}

// Children implements the Expression interface.
func (p *UnaryExpression) Children() []sql.Expression {
	return []sql.Expression{p.Child}
}

// Resolved implements the Expression interface.
func (p *UnaryExpression) Resolved() bool {
	return p.Child.Resolved()
}

// IsNullable returns whether the expression can be null.
func (p *UnaryExpression) IsNullable() bool {
	return p.Child.IsNullable()
}

// BinaryExpression is an expression that has two children.
type BinaryExpression struct {
	Left  sql.Expression
	Right sql.Expression
}

// Children implements the Expression interface.
func (p *BinaryExpression) Children() []sql.Expression {
	return []sql.Expression{p.Left, p.Right}
}

// Resolved implements the Expression interface.
func (p *BinaryExpression) Resolved() bool {
	return p.Left.Resolved() && p.Right.Resolved()
}

// IsNullable returns whether the expression can be null.
func (p *BinaryExpression) IsNullable() bool {
	return p.Left.IsNullable() || p.Right.IsNullable()
}

// Named is an expression with a name used as column name when projected.
type Named interface {
	sql.Expression
	Name() string
}

// ColumnName returns the name an expression gets when projected: the name of
// aliases and fields, or the textual representation of anything else with
// its fields unqualified.
func ColumnName(e sql.Expression) string {
	if n, ok := e.(Named); ok {
		return n.Name()
	}

	unqualified, err := TransformUp(e, func(e sql.Expression) (sql.Expression, error) {
		if f, ok := e.(*GetField); ok && f.table != "" {
			return NewGetField(f.fieldIndex, f.fieldType, f.name, f.nullable), nil
		}
		return e, nil
	})
	if err != nil {
		return e.String()
	}
	return unqualified.String()
}

func evalBinary(ctx *sql.Context, e *BinaryExpression, row sql.Row) (interface{}, interface{}, error) {
	left, err := e.Left.Eval(ctx, row)
	if err != nil {
		return nil, nil, err
	}

	right, err := e.Right.Eval(ctx, row)
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}
