package plan

import (
	"fmt"
	"time"

	"github.com/mitchellh/hashstructure"

	"github.com/src-d/go-mldb/sql"
)

// Distinct is a node that ensures all rows that come from it are unique.
// Rows are compared by value, the row name is not taken into account and
// only the first row of every group of equal ones is kept.
type Distinct struct {
	UnaryNode
}

// NewDistinct creates a new Distinct node.
func NewDistinct(child sql.Node) *Distinct {
	return &Distinct{
		UnaryNode: UnaryNode{Child: child},
	}
}

// Resolved implements the Resolvable interface.
func (d *Distinct) Resolved() bool {
	return d.UnaryNode.Child.Resolved()
}

// RowIter implements the Node interface.
func (d *Distinct) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Distinct")

	it, err := d.Child.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, newDistinctIter(it)), nil
}

// WithChildren implements the Node interface.
func (d *Distinct) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(d, len(children), 1)
	}

	return NewDistinct(children[0]), nil
}

func (d Distinct) String() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Distinct")
	_ = p.WriteChildren(d.Child.String())
	return p.String()
}

// distinctIter keeps track of the hashes of all rows that have been emitted.
// It does not emit any rows whose hashes have been seen already.
type distinctIter struct {
	childIter sql.RowIter
	seen      map[uint64]struct{}
}

func newDistinctIter(child sql.RowIter) *distinctIter {
	return &distinctIter{
		childIter: child,
		seen:      make(map[uint64]struct{}),
	}
}

func (di *distinctIter) Next() (sql.Row, error) {
	for {
		row, err := di.childIter.Next()
		if err != nil {
			return nil, err
		}

		hash, err := HashRow(row)
		if err != nil {
			return nil, err
		}

		if _, ok := di.seen[hash]; ok {
			continue
		}

		di.seen[hash] = struct{}{}
		return row, nil
	}
}

func (di *distinctIter) Close() error {
	return di.childIter.Close()
}

// HashRow returns the hash of the values of a row, ignoring the row name.
func HashRow(row sql.Row) (uint64, error) {
	var values []hashedValue
	for i := 1; i < len(row); i++ {
		v := row[i]
		// hashstructure ignores unexported fields, so times are hashed by
		// their representation.
		if t, ok := v.(time.Time); ok {
			v = t.UTC().Format(time.RFC3339Nano)
		}
		values = append(values, hashedValue{fmt.Sprintf("%T", row[i]), v})
	}

	hash, err := hashstructure.Hash(values, nil)
	if err != nil {
		return 0, fmt.Errorf("unable to hash row: %s", err)
	}

	return hash, nil
}

// hashedValue keeps the type next to the value, as hashstructure hashes nil
// like a zero.
type hashedValue struct {
	Type  string
	Value interface{}
}
