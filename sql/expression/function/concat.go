package function

import (
	"fmt"
	"strings"

	"github.com/src-d/go-mldb/sql"
)

// Concat joins several strings together.
type Concat struct {
	args []sql.Expression
}

// NewConcat creates a new Concat UDF.
func NewConcat(args ...sql.Expression) (sql.Expression, error) {
	if len(args) == 0 {
		return nil, sql.ErrInvalidArgumentCount.New("1 or more", 0)
	}

	return &Concat{args}, nil
}

// Type implements the Expression interface.
func (*Concat) Type() sql.Type { return sql.Text }

// IsNullable implements the Expression interface.
func (f *Concat) IsNullable() bool {
	for _, arg := range f.args {
		if arg.IsNullable() {
			return true
		}
	}
	return false
}

func (f *Concat) String() string {
	var args = make([]string, len(f.args))
	for i, arg := range f.args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("concat(%s)", strings.Join(args, ", "))
}

// WithChildren implements the Expression interface.
func (*Concat) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	return NewConcat(children...)
}

// Resolved implements the Expression interface.
func (f *Concat) Resolved() bool {
	for _, arg := range f.args {
		if !arg.Resolved() {
			return false
		}
	}
	return true
}

// Children implements the Expression interface.
func (f *Concat) Children() []sql.Expression { return f.args }

// Eval implements the Expression interface.
func (f *Concat) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	var parts []string

	for _, arg := range f.args {
		val, err := arg.Eval(ctx, row)
		if err != nil {
			return nil, err
		}

		if val == nil {
			return nil, nil
		}

		val, err = sql.Text.Convert(val)
		if err != nil {
			return nil, err
		}

		parts = append(parts, val.(string))
	}

	return strings.Join(parts, ""), nil
}
