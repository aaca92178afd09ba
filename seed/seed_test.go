package seed

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	mldb "github.com/src-d/go-mldb"
	"github.com/src-d/go-mldb/sql"
)

const fixture = `
datasets:
  - id: sample
    type: sparse.mutable
    replace: true
    rows:
      - name: a
        columns:
          - [x, 1, 0]
  - id: people
    type: sparse.mutable
    rows:
      - name: alice
        columns:
          - [age, 30]
          - [city, Paris, "2020-01-01T00:00:00Z"]
      - name: bob
        columns:
          - [age, 25.5, 10]
`

func TestParse(t *testing.T) {
	require := require.New(t)

	f, err := Parse([]byte(fixture))
	require.NoError(err)
	require.Len(f.Datasets, 2)

	sample := f.Datasets[0]
	require.Equal("sample", sample.ID)
	require.Equal("sparse.mutable", sample.Type)
	require.True(sample.Replace)
	require.Equal([]Row{{Name: "a", Columns: []interface{}{
		[]interface{}{"x", 1, 0},
	}}}, sample.Rows)

	require.False(f.Datasets[1].Replace)
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("datasets:\n  - id: a\n    kind: sparse.mutable\n"))
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	e := mldb.NewDefault()
	defer e.Close()

	f, err := Parse([]byte(fixture))
	require.NoError(err)
	require.NoError(f.Apply(ctx, e))

	require.Equal([][]interface{}{{"a", int64(1)}}, query(t, e, "SELECT x FROM sample"))
	require.Equal([][]interface{}{
		{"alice", int64(30), "Paris"},
		{"bob", 25.5, nil},
	}, query(t, e, "SELECT age, city FROM people"))

	// sample is replaced, people is kept as is.
	ds, err := e.Dataset("people")
	require.NoError(err)
	require.NoError(ds.RecordRow(ctx, "carol", []sql.Cell{{Column: "age", Value: 40}}))
	require.NoError(ds.Commit(ctx))

	require.NoError(f.Apply(ctx, e))
	require.Equal([][]interface{}{{"a", int64(1)}}, query(t, e, "SELECT x FROM sample"))
	require.Len(query(t, e, "SELECT age FROM people"), 3)
}

func TestApplyErrors(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	e := mldb.NewDefault()
	defer e.Close()

	f, err := Parse([]byte(`
datasets:
  - id: bad
    type: sparse.mutable
    rows:
      - name: a
        columns:
          - [x]
`))
	require.NoError(err)

	err = f.Apply(ctx, e)
	require.True(ErrSeedDataset.Is(err))

	f, err = Parse([]byte("datasets:\n  - id: other\n    type: nope\n"))
	require.NoError(err)
	err = f.Apply(ctx, e)
	require.True(ErrSeedDataset.Is(err))
}

func TestLoad(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "seed.yml")
	require.NoError(os.WriteFile(path, []byte(fixture), 0600))

	f, err := Load(path)
	require.NoError(err)
	require.Len(f.Datasets, 2)

	_, err = Load(filepath.Join(dir, "missing.yml"))
	require.True(ErrInvalidFile.Is(err))

	require.NoError(os.WriteFile(path, []byte("datasets: [[["), 0600))
	_, err = Load(path)
	require.True(ErrInvalidFile.Is(err))
}

func query(t *testing.T, e *mldb.Engine, q string) [][]interface{} {
	t.Helper()

	_, iter, err := e.Query(sql.NewEmptyContext(), q)
	require.NoError(t, err)

	var result [][]interface{}
	for {
		row, err := iter.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		result = append(result, row)
	}
	require.NoError(t, iter.Close())
	return result
}
