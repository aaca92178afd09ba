package mldb // import "github.com/src-d/go-mldb"

import (
	"strings"

	"github.com/google/uuid"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/src-d/go-mldb/memory"
	"github.com/src-d/go-mldb/sql"
	"github.com/src-d/go-mldb/sql/analyzer"
	"github.com/src-d/go-mldb/sql/expression/function"
	"github.com/src-d/go-mldb/sql/parse"
)

// Engine is a query engine over a catalog of datasets.
type Engine struct {
	Catalog  *sql.Catalog
	Analyzer *analyzer.Analyzer
}

// New creates a new Engine with the given catalog and analyzer.
func New(c *sql.Catalog, a *analyzer.Analyzer) *Engine {
	return &Engine{c, a}
}

// NewDefault creates a new default Engine. It knows the default functions
// and can create in-memory datasets.
func NewDefault() *Engine {
	c := sql.NewCatalog()
	c.RegisterFunctions(function.Defaults)
	c.RegisterKind(memory.Kind, memory.Factory)

	a := analyzer.NewDefault(c)
	return New(c, a)
}

// Query parses, analyzes and executes the given query. The returned schema
// starts with the row name column.
func (e *Engine) Query(
	ctx *sql.Context,
	query string,
) (sql.Schema, sql.RowIter, error) {
	span, ctx := ctx.Span("query", opentracing.Tag{Key: "query", Value: query})

	logrus.WithField(QueryLogField, query).Debug("executing query")

	parsed, err := parse.Parse(ctx, query)
	if err != nil {
		span.Finish()
		return nil, nil, err
	}

	analyzed, err := e.Analyzer.Analyze(ctx, parsed)
	if err != nil {
		span.Finish()
		return nil, nil, err
	}

	iter, err := analyzed.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, nil, err
	}

	return analyzed.Schema(), sql.NewSpanIter(span, iter), nil
}

// RegisterKind registers a new kind of dataset.
func (e *Engine) RegisterKind(kind string, f sql.DatasetFactory) {
	e.Catalog.RegisterKind(kind, f)
}

// CreateDataset creates a new dataset. An identifier is generated when the
// config has none.
func (e *Engine) CreateDataset(ctx *sql.Context, config sql.DatasetConfig) (sql.Dataset, error) {
	if strings.TrimSpace(config.ID) == "" {
		config.ID = uuid.New().String()
	}

	ds, err := e.Catalog.CreateDataset(ctx, config)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		DatasetLogField: ds.Name(),
		KindLogField:    ds.Kind(),
	}).Info("dataset created")

	return ds, nil
}

// Dataset returns the dataset with the given name.
func (e *Engine) Dataset(name string) (sql.Dataset, error) {
	return e.Catalog.Dataset(name)
}

// DropDataset removes the dataset with the given name.
func (e *Engine) DropDataset(name string) error {
	if err := e.Catalog.RemoveDataset(name); err != nil {
		return err
	}

	logrus.WithField(DatasetLogField, name).Info("dataset dropped")
	return nil
}

// Close closes all the datasets of the engine.
func (e *Engine) Close() error {
	return e.Catalog.Close()
}
