package plan

import "github.com/src-d/go-mldb/sql"

// DualRowName is the name of the single row produced by queries without a
// FROM clause.
const DualRowName = "result"

// DualTableName is the name the parser gives to the missing FROM clause.
const DualTableName = "dual"

// Dual is the source of queries without a FROM clause. It produces a single
// row with no columns.
type Dual struct{}

// NewDual creates a new Dual node.
func NewDual() *Dual { return &Dual{} }

// Resolved implements the Resolvable interface.
func (*Dual) Resolved() bool { return true }

// Children implements the Node interface.
func (*Dual) Children() []sql.Node { return nil }

// Schema implements the Node interface.
func (*Dual) Schema() sql.Schema { return sql.RowNameSchema("") }

// RowIter implements the Node interface.
func (*Dual) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	return sql.RowsToRowIter(sql.NewRow(DualRowName)), nil
}

// WithChildren implements the Node interface.
func (d *Dual) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(d, len(children), 0)
	}
	return d, nil
}

func (*Dual) String() string { return "Dual" }
