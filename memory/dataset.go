package memory // import "github.com/src-d/go-mldb/memory"

import (
	"sync"

	"github.com/src-d/go-mldb/sql"
)

// Kind is the dataset kind of in-memory datasets.
const Kind = "sparse.mutable"

// Dataset is an in-memory sparse dataset. Recorded rows are kept aside until
// the dataset is committed.
type Dataset struct {
	name string

	mu      sync.RWMutex
	closed  bool
	pending []pendingRow
	rows    map[string]*row
	order   []string
	columns []string
	known   map[string]struct{}
}

type pendingRow struct {
	name  string
	cells []sql.Cell
}

type row struct {
	cells map[string]sql.Cell
}

// NewDataset creates a new empty in-memory Dataset.
func NewDataset(name string) *Dataset {
	return &Dataset{
		name:  name,
		rows:  make(map[string]*row),
		known: make(map[string]struct{}),
	}
}

// Factory creates in-memory datasets. It takes no parameters.
func Factory(ctx *sql.Context, config sql.DatasetConfig) (sql.Dataset, error) {
	return NewDataset(config.ID), nil
}

// Name implements the sql.Dataset interface.
func (d *Dataset) Name() string { return d.name }

// Kind implements the sql.Dataset interface.
func (d *Dataset) Kind() string { return Kind }

// RecordRow implements the sql.Dataset interface.
func (d *Dataset) RecordRow(ctx *sql.Context, rowName string, cells []sql.Cell) error {
	if err := sql.ValidateRow(rowName, cells); err != nil {
		return err
	}

	normalized, err := normalizeCells(cells)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return sql.ErrDatasetClosed.New(d.name)
	}

	d.pending = append(d.pending, pendingRow{rowName, normalized})
	return nil
}

func normalizeCells(cells []sql.Cell) ([]sql.Cell, error) {
	result := make([]sql.Cell, len(cells))
	for i, c := range cells {
		v, err := sql.NormalizeValue(c.Value)
		if err != nil {
			return nil, sql.ErrInvalidValue.New(c.Value, c.Column)
		}

		ts := c.Timestamp
		if ts.IsZero() {
			ts, _ = sql.ParseTimestamp(nil)
		}

		result[i] = sql.Cell{Column: c.Column, Value: v, Timestamp: ts}
	}
	return result, nil
}

// Commit implements the sql.Dataset interface.
func (d *Dataset) Commit(ctx *sql.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return sql.ErrDatasetClosed.New(d.name)
	}

	for _, p := range d.pending {
		r, ok := d.rows[p.name]
		if !ok {
			r = &row{cells: make(map[string]sql.Cell)}
			d.rows[p.name] = r
			d.order = append(d.order, p.name)
		}

		sql.MergeCells(r.cells, p.cells)
		for _, c := range p.cells {
			if _, ok := d.known[c.Column]; !ok {
				d.known[c.Column] = struct{}{}
				d.columns = append(d.columns, c.Column)
			}
		}
	}

	d.pending = nil
	return nil
}

// Scan implements the sql.Dataset interface. The returned iterator works on
// a snapshot of the committed rows.
func (d *Dataset) Scan(ctx *sql.Context, columns []string) (sql.RowIter, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, sql.ErrDatasetClosed.New(d.name)
	}

	rows := make([]sql.Row, len(d.order))
	for i, name := range d.order {
		r := d.rows[name]
		values := make([]interface{}, len(columns)+1)
		values[0] = name
		for j, col := range columns {
			if c, ok := r.cells[col]; ok {
				values[j+1] = c.Value
			}
		}
		rows[i] = sql.NewRow(values...)
	}

	return sql.RowsToRowIter(rows...), nil
}

// AllColumns implements the sql.ColumnLister interface.
func (d *Dataset) AllColumns(ctx *sql.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, sql.ErrDatasetClosed.New(d.name)
	}

	columns := make([]string, len(d.columns))
	copy(columns, d.columns)
	return columns, nil
}

// Stats implements the sql.Dataset interface.
func (d *Dataset) Stats(ctx *sql.Context) (sql.DatasetStats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return sql.DatasetStats{
		RowCount:    int64(len(d.order)),
		ColumnCount: int64(len(d.columns)),
	}, nil
}

// Close releases the content of the dataset. Any further operation fails.
func (d *Dataset) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.pending = nil
	d.rows = nil
	d.order = nil
	return nil
}
