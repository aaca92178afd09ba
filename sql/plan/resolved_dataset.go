package plan

import (
	"fmt"
	"strings"

	"github.com/src-d/go-mldb/sql"
)

// ResolvedDataset is the leaf node reading rows from a dataset. Only the
// columns referenced by the query are read: they are bound while analyzing
// the query and added to Columns.
type ResolvedDataset struct {
	sql.Dataset
	// Columns read from the dataset, in the same order they appear in the
	// schema after the row name.
	Columns []string
	alias   string
}

// NewResolvedDataset creates a new ResolvedDataset node.
func NewResolvedDataset(ds sql.Dataset, alias string) *ResolvedDataset {
	return &ResolvedDataset{Dataset: ds, alias: alias}
}

// Source returns the name columns of this node are qualified with: the alias
// if there is one or the dataset name.
func (t *ResolvedDataset) Source() string {
	if t.alias != "" {
		return t.alias
	}
	return t.Dataset.Name()
}

// Alias returns the alias of the dataset in the query, if any.
func (t *ResolvedDataset) Alias() string { return t.alias }

// Resolved implements the Resolvable interface.
func (*ResolvedDataset) Resolved() bool { return true }

// Children implements the Node interface.
func (*ResolvedDataset) Children() []sql.Node { return nil }

// Schema implements the Node interface.
func (t *ResolvedDataset) Schema() sql.Schema {
	source := t.Source()
	schema := sql.RowNameSchema(source)
	for _, c := range t.Columns {
		schema = append(schema, &sql.Column{
			Name:     c,
			Type:     sql.Any,
			Nullable: true,
			Source:   source,
		})
	}
	return schema
}

// Qualifies reports whether a column qualified with the given table name
// belongs to this dataset.
func (t *ResolvedDataset) Qualifies(table string) bool {
	return table == "" || strings.EqualFold(table, t.Source())
}

// WithColumn returns the node reading the given column as well, along with
// the index of that column in the schema. If the column is already read the
// node is returned as is.
func (t *ResolvedDataset) WithColumn(name string) (*ResolvedDataset, int) {
	for i, c := range t.Columns {
		if c == name {
			return t, i + 1
		}
	}

	columns := make([]string, len(t.Columns), len(t.Columns)+1)
	copy(columns, t.Columns)
	columns = append(columns, name)

	return &ResolvedDataset{t.Dataset, columns, t.alias}, len(columns)
}

// RowIter implements the RowIter interface.
func (t *ResolvedDataset) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.ResolvedDataset")

	iter, err := t.Dataset.Scan(ctx, t.Columns)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, iter), nil
}

// WithChildren implements the Node interface.
func (t *ResolvedDataset) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 0)
	}
	return t, nil
}

func (t *ResolvedDataset) String() string {
	name := t.Dataset.Name()
	if t.alias != "" {
		name = fmt.Sprintf("%s as %s", name, t.alias)
	}
	return fmt.Sprintf("Dataset(%s)[%s]", name, strings.Join(t.Columns, ", "))
}
