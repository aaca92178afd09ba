package sql

import (
	"encoding/json"
	"math"
	"time"

	"github.com/spf13/cast"
)

// Cell is a single value recorded for a column of a row at a given time.
type Cell struct {
	Column    string
	Value     interface{}
	Timestamp time.Time
}

// DatasetConfig describes a dataset to create.
type DatasetConfig struct {
	// ID of the dataset. It is also the name used to query it.
	ID string `json:"id" yaml:"id"`
	// Type is the storage kind of the dataset, e.g. sparse.mutable.
	Type string `json:"type" yaml:"type"`
	// Params are kind-specific parameters.
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
}

// DatasetStats is a summary of the committed content of a dataset.
type DatasetStats struct {
	RowCount    int64 `json:"rowCount"`
	ColumnCount int64 `json:"columnCount"`
}

// Dataset is a named collection of sparse rows that can be queried.
type Dataset interface {
	Nameable
	// Kind returns the storage kind of the dataset.
	Kind() string
	// RecordRow records a row. The row is not visible to queries until the
	// dataset is committed.
	RecordRow(ctx *Context, rowName string, cells []Cell) error
	// Commit makes all recorded rows visible to queries.
	Commit(ctx *Context) error
	// Scan returns an iterator over all committed rows. Each row contains
	// the row name followed by the values of the given columns, in order,
	// with nil for the columns the row does not have.
	Scan(ctx *Context, columns []string) (RowIter, error)
	// Stats returns a summary of the committed content.
	Stats(ctx *Context) (DatasetStats, error)
}

// ColumnLister is a dataset that knows every column it contains. Only these
// datasets can be queried with a star expression.
type ColumnLister interface {
	// AllColumns returns the names of all the columns, in the order they
	// were first committed.
	AllColumns(ctx *Context) ([]string, error)
}

// Dropper is a dataset keeping data outside the process. Drop releases its
// resources and deletes that data.
type Dropper interface {
	Drop() error
}

// DatasetFactory creates a dataset for the given config.
type DatasetFactory func(ctx *Context, config DatasetConfig) (Dataset, error)

// ValidateRow checks the row name and the cells of a row before recording it.
func ValidateRow(rowName string, cells []Cell) error {
	if rowName == "" {
		return ErrInvalidRowName.New(rowName)
	}

	for _, c := range cells {
		if c.Column == "" {
			return ErrInvalidColumnName.New(c.Column, rowName)
		}

		if _, err := NormalizeValue(c.Value); err != nil {
			return ErrInvalidValue.New(c.Value, c.Column)
		}
	}

	return nil
}

// MergeCells merges the recorded cells into the given map of latest cells by
// column. A cell replaces the current one unless it is older.
func MergeCells(latest map[string]Cell, cells []Cell) {
	for _, c := range cells {
		prev, ok := latest[c.Column]
		if ok && c.Timestamp.Before(prev.Timestamp) {
			continue
		}
		latest[c.Column] = c
	}
}

// ParseCell parses a [column, value, timestamp] tuple as decoded from JSON or
// YAML. The timestamp is optional.
func ParseCell(raw interface{}) (Cell, error) {
	tuple, ok := raw.([]interface{})
	if !ok || len(tuple) < 2 || len(tuple) > 3 {
		return Cell{}, ErrInvalidCell.New(raw)
	}

	col, err := cast.ToStringE(tuple[0])
	if err != nil {
		return Cell{}, ErrInvalidCell.New(raw)
	}

	value, err := NormalizeValue(tuple[1])
	if err != nil {
		return Cell{}, ErrInvalidValue.New(tuple[1], col)
	}

	var ts interface{}
	if len(tuple) == 3 {
		ts = tuple[2]
	}

	t, err := ParseTimestamp(ts)
	if err != nil {
		return Cell{}, ErrInvalidTimestamp.New(ts, col)
	}

	return Cell{Column: col, Value: value, Timestamp: t}, nil
}

// ParseTimestamp parses a cell timestamp. Numbers are seconds since the
// epoch, strings are RFC 3339 and nil means now.
func ParseTimestamp(v interface{}) (time.Time, error) {
	switch v := v.(type) {
	case nil:
		return time.Now().UTC(), nil
	case time.Time:
		return v.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, err
		}
		return secondsToTime(f)
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return time.Time{}, err
		}
		return secondsToTime(f)
	}
}

func secondsToTime(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, ErrInvalidType.New(f)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}
