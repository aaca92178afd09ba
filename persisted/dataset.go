package persisted // import "github.com/src-d/go-mldb/persisted"

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/boltdb/bolt"
	"github.com/sirupsen/logrus"

	"github.com/src-d/go-mldb/sql"
)

// Kind is the dataset kind of datasets stored in BoltDB files.
const Kind = "bolt.mutable"

const fileExt = ".db"

// buckets:
// - rows: sequence uint64 -> storedRow (gob encoding)
// - index: row name -> sequence uint64
// - columns: sequence uint64 -> column name
var (
	rowsBucket    = []byte("rows")
	indexBucket   = []byte("index")
	columnsBucket = []byte("columns")
)

func init() {
	// cell values are stored as interfaces; basic types are known to gob.
	gob.Register(time.Time{})
}

type storedRow struct {
	Name  string
	Cells []storedCell
}

type storedCell struct {
	Column    string
	Value     interface{}
	Timestamp time.Time
}

// Dataset is a sparse dataset whose committed rows live in a BoltDB file.
// Rows are kept in the order they were first committed.
type Dataset struct {
	name string
	path string

	mu      sync.RWMutex
	db      *bolt.DB
	pending []pendingRow
	columns []string
	known   map[string]struct{}
}

type pendingRow struct {
	name  string
	cells []sql.Cell
}

// Factory returns a factory creating datasets in the given directory. It
// fails if a file for the dataset already exists.
func Factory(dir string) sql.DatasetFactory {
	return func(ctx *sql.Context, config sql.DatasetConfig) (sql.Dataset, error) {
		path := filepath.Join(dir, config.ID+fileExt)
		if _, err := os.Stat(path); err == nil {
			return nil, sql.ErrDatasetAlreadyExists.New(config.ID)
		}

		return Open(dir, config.ID)
	}
}

// Open opens the dataset with the given name in the given directory,
// creating its file if it does not exist.
func Open(dir, name string) (*Dataset, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, name+fileExt)
	db, err := bolt.Open(path, 0640, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		name:  name,
		path:  path,
		db:    db,
		known: make(map[string]struct{}),
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{rowsBucket, indexBucket, columnsBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}

		return tx.Bucket(columnsBucket).ForEach(func(k, v []byte) error {
			col := string(v)
			d.known[col] = struct{}{}
			d.columns = append(d.columns, col)
			return nil
		})
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"dataset": name,
		"path":    path,
		"columns": len(d.columns),
	}).Debug("opened persisted dataset")

	return d, nil
}

// Discover returns the names of the datasets stored in the given directory,
// sorted. A missing directory holds no datasets.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}

	sort.Strings(names)
	return names, nil
}

// Restore opens every dataset stored in the given directory and adds it to
// the catalog.
func Restore(c *sql.Catalog, dir string) ([]sql.Dataset, error) {
	names, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	var restored []sql.Dataset
	for _, name := range names {
		d, err := Open(dir, name)
		if err != nil {
			return restored, err
		}

		if err := c.AddDataset(d); err != nil {
			_ = d.Close()
			return restored, err
		}

		logrus.WithField("dataset", name).Info("restored persisted dataset")
		restored = append(restored, d)
	}

	return restored, nil
}

// Name implements the sql.Dataset interface.
func (d *Dataset) Name() string { return d.name }

// Kind implements the sql.Dataset interface.
func (d *Dataset) Kind() string { return Kind }

// Path returns the location of the dataset file.
func (d *Dataset) Path() string { return d.path }

// RecordRow implements the sql.Dataset interface.
func (d *Dataset) RecordRow(ctx *sql.Context, rowName string, cells []sql.Cell) error {
	if err := sql.ValidateRow(rowName, cells); err != nil {
		return err
	}

	normalized := make([]sql.Cell, len(cells))
	for i, c := range cells {
		v, err := sql.NormalizeValue(c.Value)
		if err != nil {
			return sql.ErrInvalidValue.New(c.Value, c.Column)
		}

		ts := c.Timestamp
		if ts.IsZero() {
			ts, _ = sql.ParseTimestamp(nil)
		}

		normalized[i] = sql.Cell{Column: c.Column, Value: v, Timestamp: ts.UTC()}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return sql.ErrDatasetClosed.New(d.name)
	}

	d.pending = append(d.pending, pendingRow{rowName, normalized})
	return nil
}

// Commit implements the sql.Dataset interface. All pending rows are written
// in a single transaction.
func (d *Dataset) Commit(ctx *sql.Context) error {
	span, _ := ctx.Span("persisted.Commit")
	defer span.Finish()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return sql.ErrDatasetClosed.New(d.name)
	}

	var newColumns []string
	known := make(map[string]struct{}, len(d.known))
	for k := range d.known {
		known[k] = struct{}{}
	}

	err := d.db.Update(func(tx *bolt.Tx) error {
		rows := tx.Bucket(rowsBucket)
		index := tx.Bucket(indexBucket)
		columns := tx.Bucket(columnsBucket)

		for _, p := range d.pending {
			key := index.Get([]byte(p.name))
			latest := make(map[string]sql.Cell)
			if key != nil {
				stored, err := decodeRow(rows.Get(key))
				if err != nil {
					return err
				}
				for _, c := range stored.Cells {
					latest[c.Column] = sql.Cell(c)
				}
			} else {
				seq, err := rows.NextSequence()
				if err != nil {
					return err
				}
				key = itob(seq)
				if err := index.Put([]byte(p.name), key); err != nil {
					return err
				}
			}

			sql.MergeCells(latest, p.cells)
			value, err := encodeRow(p.name, latest)
			if err != nil {
				return err
			}

			if err := rows.Put(key, value); err != nil {
				return err
			}

			for _, c := range p.cells {
				if _, ok := known[c.Column]; ok {
					continue
				}

				seq, err := columns.NextSequence()
				if err != nil {
					return err
				}

				if err := columns.Put(itob(seq), []byte(c.Column)); err != nil {
					return err
				}

				known[c.Column] = struct{}{}
				newColumns = append(newColumns, c.Column)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"dataset": d.name,
		"rows":    len(d.pending),
	}).Debug("committed persisted dataset")

	d.known = known
	d.columns = append(d.columns, newColumns...)
	d.pending = nil
	return nil
}

// Scan implements the sql.Dataset interface. The returned iterator works on
// a snapshot of the committed rows.
func (d *Dataset) Scan(ctx *sql.Context, columns []string) (sql.RowIter, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.db == nil {
		return nil, sql.ErrDatasetClosed.New(d.name)
	}

	var result []sql.Row
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(rowsBucket).ForEach(func(k, v []byte) error {
			stored, err := decodeRow(v)
			if err != nil {
				return err
			}

			cells := make(map[string]interface{}, len(stored.Cells))
			for _, c := range stored.Cells {
				cells[c.Column] = c.Value
			}

			values := make([]interface{}, len(columns)+1)
			values[0] = stored.Name
			for i, col := range columns {
				values[i+1] = cells[col]
			}

			result = append(result, sql.NewRow(values...))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return sql.RowsToRowIter(result...), nil
}

// AllColumns implements the sql.ColumnLister interface.
func (d *Dataset) AllColumns(ctx *sql.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.db == nil {
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

	if d.db == nil {
		return sql.DatasetStats{}, sql.ErrDatasetClosed.New(d.name)
	}

	var stats sql.DatasetStats
	err := d.db.View(func(tx *bolt.Tx) error {
		stats.RowCount = int64(tx.Bucket(indexBucket).Stats().KeyN)
		return nil
	})
	stats.ColumnCount = int64(len(d.columns))
	return stats, err
}

// Close closes the dataset file. Pending rows are discarded.
func (d *Dataset) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	err := d.db.Close()
	d.db = nil
	d.pending = nil
	return err
}

// Drop implements the sql.Dropper interface. It closes the dataset and
// removes its file.
func (d *Dataset) Drop() error {
	if err := d.Close(); err != nil {
		return err
	}

	if err := os.Remove(d.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	logrus.WithField("dataset", d.name).Debug("dropped persisted dataset")
	return nil
}

func encodeRow(name string, cells map[string]sql.Cell) ([]byte, error) {
	stored := storedRow{Name: name, Cells: make([]storedCell, 0, len(cells))}
	for _, c := range cells {
		stored.Cells = append(stored.Cells, storedCell(c))
	}

	sort.Slice(stored.Cells, func(i, j int) bool {
		return stored.Cells[i].Column < stored.Cells[j].Column
	})

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(stored); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRow(data []byte) (storedRow, error) {
	var stored storedRow
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&stored)
	return stored, err
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
