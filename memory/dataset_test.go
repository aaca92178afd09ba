package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
)

func at(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func TestDatasetRecordAndCommit(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	d := NewDataset("sample")
	require.Equal("sample", d.Name())
	require.Equal(Kind, d.Kind())

	require.NoError(d.RecordRow(ctx, "a", []sql.Cell{
		{Column: "x", Value: 1, Timestamp: at(0)},
	}))

	rows, err := sql.RowIterToRows(mustScan(t, d, "x"))
	require.NoError(err)
	require.Len(rows, 0, "rows are not visible before commit")

	require.NoError(d.Commit(ctx))

	rows, err = sql.RowIterToRows(mustScan(t, d, "x", "y"))
	require.NoError(err)
	require.Equal([]sql.Row{{"a", int64(1), nil}}, rows)

	stats, err := d.Stats(ctx)
	require.NoError(err)
	require.Equal(sql.DatasetStats{RowCount: 1, ColumnCount: 1}, stats)
}

func TestDatasetLatestCellWins(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	d := NewDataset("ts")
	require.NoError(d.RecordRow(ctx, "a", []sql.Cell{
		{Column: "x", Value: "new", Timestamp: at(10)},
	}))
	require.NoError(d.RecordRow(ctx, "a", []sql.Cell{
		{Column: "x", Value: "old", Timestamp: at(5)},
		{Column: "y", Value: 2.5, Timestamp: at(5)},
	}))
	require.NoError(d.RecordRow(ctx, "b", []sql.Cell{
		{Column: "x", Value: "first", Timestamp: at(1)},
		{Column: "x", Value: "second", Timestamp: at(1)},
	}))
	require.NoError(d.Commit(ctx))

	rows, err := sql.RowIterToRows(mustScan(t, d, "x", "y"))
	require.NoError(err)
	require.Equal([]sql.Row{
		{"a", "new", float64(2.5)},
		{"b", "second", nil},
	}, rows)

	columns, err := d.AllColumns(ctx)
	require.NoError(err)
	require.Equal([]string{"x", "y"}, columns)
}

func TestDatasetKeepsFirstCommitOrder(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	d := NewDataset("order")
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(d.RecordRow(ctx, name, []sql.Cell{{Column: "n", Value: name}}))
	}
	require.NoError(d.Commit(ctx))

	require.NoError(d.RecordRow(ctx, "a", []sql.Cell{{Column: "m", Value: true}}))
	require.NoError(d.RecordRow(ctx, "d", nil))
	require.NoError(d.Commit(ctx))

	rows, err := sql.RowIterToRows(mustScan(t, d, "n", "m"))
	require.NoError(err)
	require.Equal([]sql.Row{
		{"c", "c", nil},
		{"a", "a", true},
		{"b", "b", nil},
		{"d", nil, nil},
	}, rows)
}

func TestDatasetInvalidRows(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	d := NewDataset("invalid")

	err := d.RecordRow(ctx, "", nil)
	require.True(sql.ErrInvalidRowName.Is(err))

	err = d.RecordRow(ctx, "a", []sql.Cell{{Column: "", Value: 1}})
	require.True(sql.ErrInvalidColumnName.Is(err))

	err = d.RecordRow(ctx, "a", []sql.Cell{{Column: "x", Value: struct{}{}}})
	require.True(sql.ErrInvalidValue.Is(err))
}

func TestDatasetClose(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	d := NewDataset("closed")
	require.NoError(d.Close())

	err := d.RecordRow(ctx, "a", nil)
	require.True(sql.ErrDatasetClosed.Is(err))

	_, err = d.Scan(ctx, nil)
	require.True(sql.ErrDatasetClosed.Is(err))

	err = d.Commit(ctx)
	require.True(sql.ErrDatasetClosed.Is(err))
}

func TestFactory(t *testing.T) {
	require := require.New(t)

	ds, err := Factory(sql.NewEmptyContext(), sql.DatasetConfig{ID: "foo", Type: Kind})
	require.NoError(err)
	require.Equal("foo", ds.Name())
	require.Implements((*sql.ColumnLister)(nil), ds)
}

func mustScan(t *testing.T, d *Dataset, columns ...string) sql.RowIter {
	t.Helper()
	iter, err := d.Scan(sql.NewEmptyContext(), columns)
	require.NoError(t, err)
	return iter
}
