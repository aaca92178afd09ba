package sql_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/memory"
	"github.com/src-d/go-mldb/sql"
)

func TestCatalog_Dataset(t *testing.T) {
	require := require.New(t)

	c := sql.NewCatalog()
	ds, err := c.Dataset("foo")
	require.EqualError(err, "dataset not found: foo")
	require.Nil(ds)

	foo := memory.NewDataset("foo")
	require.NoError(c.AddDataset(foo))

	ds, err = c.Dataset("FOO")
	require.NoError(err)
	require.Equal(foo, ds)

	err = c.AddDataset(memory.NewDataset("Foo"))
	require.True(sql.ErrDatasetAlreadyExists.Is(err))
}

func TestCatalog_CreateDataset(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	c := sql.NewCatalog()
	_, err := c.CreateDataset(ctx, sql.DatasetConfig{ID: "foo", Type: memory.Kind})
	require.True(sql.ErrUnknownDatasetKind.Is(err))

	c.RegisterKind(memory.Kind, memory.Factory)
	require.Equal([]string{memory.Kind}, c.Kinds())

	ds, err := c.CreateDataset(ctx, sql.DatasetConfig{ID: "foo", Type: memory.Kind})
	require.NoError(err)
	require.Equal("foo", ds.Name())
	require.Equal(memory.Kind, ds.Kind())

	_, err = c.CreateDataset(ctx, sql.DatasetConfig{ID: "foo", Type: memory.Kind})
	require.True(sql.ErrDatasetAlreadyExists.Is(err))

	for _, id := range []string{"", "dual", "DUAL", "a/b", `a\b`} {
		_, err = c.CreateDataset(ctx, sql.DatasetConfig{ID: id, Type: memory.Kind})
		require.True(sql.ErrInvalidDatasetID.Is(err), "id %q", id)
	}
}

func TestCatalog_RemoveDataset(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	c := sql.NewCatalog()
	a := memory.NewDataset("a")
	b := memory.NewDataset("b")
	require.NoError(c.AddDataset(a))
	require.NoError(c.AddDataset(b))
	require.Equal([]sql.Dataset{a, b}, c.Datasets())

	require.NoError(c.RemoveDataset("A"))
	require.Equal([]sql.Dataset{b}, c.Datasets())

	_, err := a.Scan(ctx, nil)
	require.True(sql.ErrDatasetClosed.Is(err))

	err = c.RemoveDataset("a")
	require.True(sql.ErrDatasetNotFound.Is(err))

	dropper := &droppable{Dataset: memory.NewDataset("c")}
	require.NoError(c.AddDataset(dropper))
	require.NoError(c.RemoveDataset("c"))
	require.True(dropper.dropped)

	require.NoError(c.Close())
	_, err = b.Scan(ctx, nil)
	require.True(sql.ErrDatasetClosed.Is(err))
}

type droppable struct {
	*memory.Dataset
	dropped bool
}

func (d *droppable) Drop() error {
	d.dropped = true
	return d.Close()
}
