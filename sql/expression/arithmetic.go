package expression

import (
	"fmt"
	"math"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/spf13/cast"

	"github.com/src-d/go-mldb/sql"
)

// ErrUnsupportedArithmeticOperator is returned when an operator has no
// arithmetic implementation.
var ErrUnsupportedArithmeticOperator = errors.NewKind("unsupported arithmetic operator %q")

// ErrInvalidArithmeticOperand is returned when an operand is not a number.
var ErrInvalidArithmeticOperand = errors.NewKind("invalid operand %v for operator %s")

// Arithmetic expressions (+, -, *, /, %).
type Arithmetic struct {
	BinaryExpression
	Op string
}

// NewArithmetic creates a new Arithmetic sql.Expression.
func NewArithmetic(left, right sql.Expression, op string) *Arithmetic {
	return &Arithmetic{BinaryExpression{Left: left, Right: right}, op}
}

// NewPlus creates a new Arithmetic + sql.Expression.
func NewPlus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, "+")
}

// NewMinus creates a new Arithmetic - sql.Expression.
func NewMinus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, "-")
}

// NewMult creates a new Arithmetic * sql.Expression.
func NewMult(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, "*")
}

// NewDiv creates a new Arithmetic / sql.Expression.
func NewDiv(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, "/")
}

// NewMod creates a new Arithmetic % sql.Expression.
func NewMod(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, "%")
}

func (a *Arithmetic) String() string {
	return fmt.Sprintf("%s %s %s", a.Left, a.Op, a.Right)
}

// IsNullable implements the sql.Expression interface. Division and modulo by
// zero are NULL.
func (a *Arithmetic) IsNullable() bool {
	return a.Op == "/" || a.Op == "%" || a.BinaryExpression.IsNullable()
}

// Type returns the greatest type for given operation.
func (a *Arithmetic) Type() sql.Type {
	lt, rt := a.Left.Type(), a.Right.Type()
	switch {
	case a.Op == "/":
		return sql.Float64
	case a.Op == "+" && lt == sql.Text && rt == sql.Text:
		return sql.Text
	case lt == sql.Int64 && rt == sql.Int64:
		return sql.Int64
	case sql.IsNumber(lt) && sql.IsNumber(rt):
		return sql.Float64
	default:
		return sql.Any
	}
}

// WithChildren implements the Expression interface.
func (a *Arithmetic) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), 2)
	}
	return NewArithmetic(children[0], children[1], a.Op), nil
}

// Eval implements the sql.Expression interface.
func (a *Arithmetic) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lval, rval, err := evalBinary(ctx, &a.BinaryExpression, row)
	if err != nil {
		return nil, err
	}

	if lval == nil || rval == nil {
		return nil, nil
	}

	if a.Op == "+" {
		ls, lok := lval.(string)
		rs, rok := rval.(string)
		if lok || rok {
			if !lok {
				ls = cast.ToString(lval)
			}
			if !rok {
				rs = cast.ToString(rval)
			}
			return ls + rs, nil
		}
	}

	li, lint := asInt(lval)
	ri, rint := asInt(rval)
	if lint && rint && a.Op != "/" {
		return intOp(a.Op, li, ri)
	}

	lf, err := cast.ToFloat64E(lval)
	if err != nil {
		return nil, ErrInvalidArithmeticOperand.New(lval, a.Op)
	}

	rf, err := cast.ToFloat64E(rval)
	if err != nil {
		return nil, ErrInvalidArithmeticOperand.New(rval, a.Op)
	}

	return floatOp(a.Op, lf, rf)
}

func asInt(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// intOp computes integer arithmetic. Results out of the int64 range are
// computed as floats.
func intOp(op string, l, r int64) (interface{}, error) {
	switch op {
	case "+":
		sum := l + r
		if (r > 0 && sum < l) || (r < 0 && sum > l) {
			return float64(l) + float64(r), nil
		}
		return sum, nil
	case "-":
		diff := l - r
		if (r > 0 && diff > l) || (r < 0 && diff < l) {
			return float64(l) - float64(r), nil
		}
		return diff, nil
	case "*":
		if l == 0 || r == 0 {
			return int64(0), nil
		}
		prod := l * r
		if prod/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return float64(l) * float64(r), nil
		}
		return prod, nil
	case "%":
		if r == 0 {
			return nil, nil
		}
		return l % r, nil
	default:
		return nil, ErrUnsupportedArithmeticOperator.New(op)
	}
}

func floatOp(op string, l, r float64) (interface{}, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, nil
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, nil
		}
		return math.Mod(l, r), nil
	default:
		return nil, ErrUnsupportedArithmeticOperator.New(op)
	}
}

// UnaryMinus is an unary minus operator.
type UnaryMinus struct {
	UnaryExpression
}

// NewUnaryMinus creates a new UnaryMinus expression node.
func NewUnaryMinus(child sql.Expression) *UnaryMinus {
	return &UnaryMinus{UnaryExpression{Child: child}}
}

// Eval implements the sql.Expression interface.
func (e *UnaryMinus) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	child, err := e.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	switch n := child.(type) {
	case nil:
		return nil, nil
	case int64:
		if n == math.MinInt64 {
			return -float64(n), nil
		}
		return -n, nil
	case float64:
		return -n, nil
	default:
		f, err := cast.ToFloat64E(n)
		if err != nil {
			return nil, ErrInvalidArithmeticOperand.New(n, "-")
		}
		return -f, nil
	}
}

// Type implements the sql.Expression interface.
func (e *UnaryMinus) Type() sql.Type {
	if t := e.Child.Type(); sql.IsNumber(t) {
		return t
	}
	return sql.Float64
}

func (e *UnaryMinus) String() string {
	return fmt.Sprintf("-%s", e.Child)
}

// WithChildren implements the Expression interface.
func (e *UnaryMinus) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1)
	}
	return NewUnaryMinus(children[0]), nil
}
