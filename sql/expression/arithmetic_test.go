package expression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
)

func TestArithmetic(t *testing.T) {
	testCases := []struct {
		name        string
		left, right interface{}
		op          string
		expected    interface{}
	}{
		{"int plus", int64(1), int64(2), "+", int64(3)},
		{"float plus", float64(1.5), int64(2), "+", float64(3.5)},
		{"text plus", "foo", "bar", "+", "foobar"},
		{"text plus number", "foo", int64(1), "+", "foo1"},
		{"int minus", int64(1), int64(2), "-", int64(-1)},
		{"int mult", int64(3), int64(2), "*", int64(6)},
		{"bool mult", true, int64(2), "*", int64(2)},
		{"int div", int64(3), int64(2), "/", float64(1.5)},
		{"div by zero", int64(3), int64(0), "/", nil},
		{"int mod", int64(7), int64(3), "%", int64(1)},
		{"mod by zero", int64(7), int64(0), "%", nil},
		{"float mod", float64(7.5), int64(2), "%", float64(1.5)},
		{"null operand", nil, int64(2), "+", nil},
		{"numeric text", "3", int64(2), "*", float64(6)},
		{"plus overflow", int64(math.MaxInt64), int64(1), "+", math.Pow(2, 63)},
		{"minus overflow", int64(math.MinInt64), int64(1), "-", -math.Pow(2, 63)},
		{"mult overflow", int64(math.MaxInt64), int64(2), "*", math.Pow(2, 64)},
		{"mult min by minus one", int64(math.MinInt64), int64(-1), "*", math.Pow(2, 63)},
		{"mult by zero", int64(math.MaxInt64), int64(0), "*", int64(0)},
		{"plus near max", int64(math.MaxInt64 - 1), int64(1), "+", int64(math.MaxInt64)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			e := NewArithmetic(
				NewLiteral(tt.left, sql.Any),
				NewLiteral(tt.right, sql.Any),
				tt.op,
			)
			require.Equal(t, tt.expected, eval(t, e, nil))
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	require := require.New(t)

	_, err := NewMinus(NewLiteral("foo", sql.Text), NewLiteral(int64(1), sql.Int64)).
		Eval(sql.NewEmptyContext(), nil)
	require.True(ErrInvalidArithmeticOperand.Is(err))

	_, err = NewArithmetic(NewLiteral(int64(1), sql.Int64), NewLiteral(int64(1), sql.Int64), "^").
		Eval(sql.NewEmptyContext(), nil)
	require.True(ErrUnsupportedArithmeticOperator.Is(err))
}

func TestArithmeticType(t *testing.T) {
	require := require.New(t)

	i := NewLiteral(int64(1), sql.Int64)
	f := NewLiteral(1.5, sql.Float64)
	s := NewLiteral("a", sql.Text)

	require.Equal(sql.Int64, NewPlus(i, i).Type())
	require.Equal(sql.Float64, NewMult(i, f).Type())
	require.Equal(sql.Float64, NewDiv(i, i).Type())
	require.Equal(sql.Text, NewPlus(s, s).Type())
	require.Equal(sql.Any, NewMod(s, i).Type())
	require.True(NewDiv(i, i).IsNullable())
	require.False(NewPlus(i, i).IsNullable())
}

func TestUnaryMinus(t *testing.T) {
	testCases := []struct {
		input    interface{}
		expected interface{}
	}{
		{int64(1), int64(-1)},
		{float64(1.5), float64(-1.5)},
		{"2", float64(-2)},
		{nil, nil},
		{int64(math.MinInt64), math.Pow(2, 63)},
	}

	for _, tt := range testCases {
		e := NewUnaryMinus(NewLiteral(tt.input, sql.Any))
		require.Equal(t, tt.expected, eval(t, e, nil))
	}

	_, err := NewUnaryMinus(NewLiteral("foo", sql.Text)).Eval(sql.NewEmptyContext(), nil)
	require.True(t, ErrInvalidArithmeticOperand.Is(err))
}
