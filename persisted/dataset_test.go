package persisted

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/sql"
)

func at(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func TestDatasetCommitAndScan(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	dir := t.TempDir()

	d, err := Open(dir, "sample")
	require.NoError(err)
	defer d.Close()

	require.Equal("sample", d.Name())
	require.Equal(Kind, d.Kind())
	require.Equal(filepath.Join(dir, "sample.db"), d.Path())

	require.NoError(d.RecordRow(ctx, "a", []sql.Cell{
		{Column: "x", Value: 1, Timestamp: at(0)},
	}))

	rows, err := sql.RowIterToRows(mustScan(t, d, "x"))
	require.NoError(err)
	require.Len(rows, 0)

	require.NoError(d.RecordRow(ctx, "b", []sql.Cell{
		{Column: "y", Value: "foo"},
		{Column: "z", Value: nil},
	}))
	require.NoError(d.Commit(ctx))

	rows, err = sql.RowIterToRows(mustScan(t, d, "x", "y"))
	require.NoError(err)
	require.Equal([]sql.Row{
		{"a", int64(1), nil},
		{"b", nil, "foo"},
	}, rows)

	columns, err := d.AllColumns(ctx)
	require.NoError(err)
	require.Equal([]string{"x", "y", "z"}, columns)

	stats, err := d.Stats(ctx)
	require.NoError(err)
	require.Equal(sql.DatasetStats{RowCount: 2, ColumnCount: 3}, stats)
}

func TestDatasetMergesRows(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	d, err := Open(t.TempDir(), "merge")
	require.NoError(err)
	defer d.Close()

	require.NoError(d.RecordRow(ctx, "a", []sql.Cell{
		{Column: "x", Value: "new", Timestamp: at(10)},
	}))
	require.NoError(d.RecordRow(ctx, "b", []sql.Cell{
		{Column: "x", Value: 2.5, Timestamp: at(1)},
	}))
	require.NoError(d.Commit(ctx))

	require.NoError(d.RecordRow(ctx, "a", []sql.Cell{
		{Column: "x", Value: "old", Timestamp: at(5)},
		{Column: "y", Value: true, Timestamp: at(5)},
	}))
	require.NoError(d.Commit(ctx))

	rows, err := sql.RowIterToRows(mustScan(t, d, "x", "y"))
	require.NoError(err)
	require.Equal([]sql.Row{
		{"a", "new", true},
		{"b", 2.5, nil},
	}, rows)

	stats, err := d.Stats(ctx)
	require.NoError(err)
	require.Equal(int64(2), stats.RowCount)
}

func TestDatasetReopen(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	dir := t.TempDir()

	d, err := Open(dir, "reopen")
	require.NoError(err)
	require.NoError(d.RecordRow(ctx, "a", []sql.Cell{{Column: "x", Value: 1}}))
	require.NoError(d.Commit(ctx))
	require.NoError(d.RecordRow(ctx, "b", []sql.Cell{{Column: "x", Value: 2}}))
	require.NoError(d.Close())

	d, err = Open(dir, "reopen")
	require.NoError(err)
	defer d.Close()

	rows, err := sql.RowIterToRows(mustScan(t, d, "x"))
	require.NoError(err)
	require.Equal([]sql.Row{{"a", int64(1)}}, rows, "pending rows are lost on close")

	columns, err := d.AllColumns(ctx)
	require.NoError(err)
	require.Equal([]string{"x"}, columns)
}

func TestDatasetClosed(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	d, err := Open(t.TempDir(), "closed")
	require.NoError(err)
	require.NoError(d.Close())
	require.NoError(d.Close())

	err = d.RecordRow(ctx, "a", nil)
	require.True(sql.ErrDatasetClosed.Is(err))

	require.True(sql.ErrDatasetClosed.Is(d.Commit(ctx)))

	_, err = d.Scan(ctx, nil)
	require.True(sql.ErrDatasetClosed.Is(err))

	_, err = d.AllColumns(ctx)
	require.True(sql.ErrDatasetClosed.Is(err))
}

func TestDatasetInvalidRows(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	d, err := Open(t.TempDir(), "invalid")
	require.NoError(err)
	defer d.Close()

	err = d.RecordRow(ctx, "", nil)
	require.True(sql.ErrInvalidRowName.Is(err))

	err = d.RecordRow(ctx, "a", []sql.Cell{{Column: "", Value: 1}})
	require.True(sql.ErrInvalidColumnName.Is(err))

	err = d.RecordRow(ctx, "a", []sql.Cell{{Column: "x", Value: []int{1}}})
	require.True(sql.ErrInvalidValue.Is(err))
}

func TestDrop(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	d, err := Open(dir, "drop")
	require.NoError(err)

	require.NoError(d.Drop())
	_, err = os.Stat(d.Path())
	require.True(os.IsNotExist(err))

	require.NoError(d.Drop())
}

func TestFactory(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	dir := t.TempDir()

	factory := Factory(dir)
	ds, err := factory(ctx, sql.DatasetConfig{ID: "fresh", Type: Kind})
	require.NoError(err)
	require.Equal("fresh", ds.Name())

	_, err = factory(ctx, sql.DatasetConfig{ID: "fresh", Type: Kind})
	require.True(sql.ErrDatasetAlreadyExists.Is(err))

	require.NoError(ds.(*Dataset).Close())
}

func TestDiscoverAndRestore(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	dir := t.TempDir()

	names, err := Discover(filepath.Join(dir, "missing"))
	require.NoError(err)
	require.Nil(names)

	for _, name := range []string{"b", "a"} {
		d, err := Open(dir, name)
		require.NoError(err)
		require.NoError(d.RecordRow(ctx, "row", []sql.Cell{{Column: "name", Value: name}}))
		require.NoError(d.Commit(ctx))
		require.NoError(d.Close())
	}

	require.NoError(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))
	require.NoError(os.Mkdir(filepath.Join(dir, "sub.db"), 0700))

	names, err = Discover(dir)
	require.NoError(err)
	require.Equal([]string{"a", "b"}, names)

	catalog := sql.NewCatalog()
	restored, err := Restore(catalog, dir)
	require.NoError(err)
	require.Len(restored, 2)
	defer catalog.Close()

	ds, err := catalog.Dataset("b")
	require.NoError(err)
	require.Equal(Kind, ds.Kind())

	iter, err := ds.Scan(ctx, []string{"name"})
	require.NoError(err)
	rows, err := sql.RowIterToRows(iter)
	require.NoError(err)
	require.Equal([]sql.Row{{"row", "b"}}, rows)
}

func mustScan(t *testing.T, d *Dataset, columns ...string) sql.RowIter {
	t.Helper()
	iter, err := d.Scan(sql.NewEmptyContext(), columns)
	require.NoError(t, err)
	return iter
}
