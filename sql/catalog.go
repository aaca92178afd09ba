package sql

import (
	"io"
	"sort"
	"strings"
	"sync"
)

// Catalog holds the datasets, the dataset kinds that can be created and the
// registered functions.
type Catalog struct {
	FunctionRegistry

	mu       sync.RWMutex
	datasets map[string]Dataset
	order    []string
	kinds    map[string]DatasetFactory
}

// NewCatalog returns a new empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		FunctionRegistry: NewFunctionRegistry(),
		datasets:         make(map[string]Dataset),
		kinds:            make(map[string]DatasetFactory),
	}
}

// RegisterKind registers the factory used to create datasets of the given
// kind.
func (c *Catalog) RegisterKind(kind string, f DatasetFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kinds[kind] = f
}

// Kinds returns the registered dataset kinds, sorted.
func (c *Catalog) Kinds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kinds := make([]string, 0, len(c.kinds))
	for k := range c.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// CreateDataset creates a dataset with the factory of its kind and adds it
// to the catalog.
func (c *Catalog) CreateDataset(ctx *Context, config DatasetConfig) (Dataset, error) {
	if err := validateDatasetID(config.ID); err != nil {
		return nil, err
	}

	c.mu.RLock()
	factory, ok := c.kinds[config.Type]
	_, exists := c.datasets[key(config.ID)]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownDatasetKind.New(config.Type)
	}

	if exists {
		return nil, ErrDatasetAlreadyExists.New(config.ID)
	}

	ds, err := factory(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := c.AddDataset(ds); err != nil {
		if closer, ok := ds.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, err
	}

	return ds, nil
}

// AddDataset adds an already built dataset to the catalog.
func (c *Catalog) AddDataset(ds Dataset) error {
	if err := validateDatasetID(ds.Name()); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(ds.Name())
	if _, ok := c.datasets[k]; ok {
		return ErrDatasetAlreadyExists.New(ds.Name())
	}

	c.datasets[k] = ds
	c.order = append(c.order, k)
	return nil
}

// Dataset returns the dataset with the given name. Names are case
// insensitive.
func (c *Catalog) Dataset(name string) (Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ds, ok := c.datasets[key(name)]
	if !ok {
		return nil, ErrDatasetNotFound.New(name)
	}

	return ds, nil
}

// Datasets returns all datasets in the order they were added.
func (c *Catalog) Datasets() []Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Dataset, 0, len(c.order))
	for _, k := range c.order {
		result = append(result, c.datasets[k])
	}
	return result
}

// RemoveDataset removes the dataset from the catalog. Its data is deleted if
// it is a Dropper, otherwise it is closed if it holds resources.
func (c *Catalog) RemoveDataset(name string) error {
	c.mu.Lock()
	k := key(name)
	ds, ok := c.datasets[k]
	if !ok {
		c.mu.Unlock()
		return ErrDatasetNotFound.New(name)
	}

	delete(c.datasets, k)
	for i, n := range c.order {
		if n == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if dropper, ok := ds.(Dropper); ok {
		return dropper.Drop()
	}

	if closer, ok := ds.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Close closes every dataset holding resources.
func (c *Catalog) Close() error {
	var firstErr error
	for _, ds := range c.Datasets() {
		if closer, ok := ds.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func key(name string) string {
	return strings.ToLower(name)
}

// dual is reserved by the parser for queries without FROM clause.
func validateDatasetID(id string) error {
	if id == "" || strings.EqualFold(id, "dual") || strings.ContainsAny(id, "/\\") {
		return ErrInvalidDatasetID.New(id)
	}
	return nil
}
