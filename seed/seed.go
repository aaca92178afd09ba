// Package seed loads datasets described in YAML files into an engine.
//
//	datasets:
//	  - id: sample
//	    type: sparse.mutable
//	    replace: true
//	    rows:
//	      - name: a
//	        columns:
//	          - [x, 1, 0]
package seed // import "github.com/src-d/go-mldb/seed"

import (
	"io/ioutil"

	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"

	mldb "github.com/src-d/go-mldb"
	"github.com/src-d/go-mldb/sql"
)

var (
	// ErrInvalidFile is returned when a seed file cannot be parsed.
	ErrInvalidFile = errors.NewKind("invalid seed file %s")

	// ErrSeedDataset is returned when a dataset of a seed file cannot be
	// loaded.
	ErrSeedDataset = errors.NewKind("unable to seed dataset %s")
)

// File is the content of a seed file.
type File struct {
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset is a dataset to create along with its rows.
type Dataset struct {
	sql.DatasetConfig `yaml:",inline"`
	// Replace drops an existing dataset with the same id. Otherwise the
	// existing dataset is kept as is.
	Replace bool  `yaml:"replace"`
	Rows    []Row `yaml:"rows"`
}

// Row is a row to record. Columns are [column, value, timestamp] tuples.
type Row struct {
	Name    string        `yaml:"name"`
	Columns []interface{} `yaml:"columns"`
}

// Load reads and parses the seed file at the given path.
func Load(path string) (*File, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidFile.Wrap(err, path)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, ErrInvalidFile.Wrap(err, path)
	}

	return f, nil
}

// Parse parses the content of a seed file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Apply creates the datasets of the file in the engine, records their rows
// and commits them.
func (f *File) Apply(ctx *sql.Context, e *mldb.Engine) error {
	for _, d := range f.Datasets {
		if err := d.apply(ctx, e); err != nil {
			return ErrSeedDataset.Wrap(err, d.ID)
		}
	}
	return nil
}

func (d Dataset) apply(ctx *sql.Context, e *mldb.Engine) error {
	log := logrus.WithFields(logrus.Fields{
		mldb.DatasetLogField: d.ID,
		mldb.KindLogField:    d.Type,
	})

	if _, err := e.Dataset(d.ID); err == nil {
		if !d.Replace {
			log.Info("dataset already exists, skipping seed")
			return nil
		}

		if err := e.DropDataset(d.ID); err != nil {
			return err
		}
	}

	ds, err := e.CreateDataset(ctx, d.DatasetConfig)
	if err != nil {
		return err
	}

	for _, row := range d.Rows {
		cells := make([]sql.Cell, len(row.Columns))
		for i, raw := range row.Columns {
			cell, err := sql.ParseCell(raw)
			if err != nil {
				return err
			}
			cells[i] = cell
		}

		if err := ds.RecordRow(ctx, row.Name, cells); err != nil {
			return err
		}
	}

	if err := ds.Commit(ctx); err != nil {
		return err
	}

	log.WithField("rows", len(d.Rows)).Info("dataset seeded")
	return nil
}
