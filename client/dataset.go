package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// DatasetConfig describes a dataset to create.
type DatasetConfig struct {
	ID     string                 `json:"id,omitempty"`
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// Cell is the value of a column at a given time. A zero timestamp lets the
// server use the time it records the cell.
type Cell struct {
	Column    string
	Value     interface{}
	Timestamp time.Time
}

// MarshalJSON encodes the cell as a [column, value, timestamp] tuple.
func (c Cell) MarshalJSON() ([]byte, error) {
	var ts interface{}
	if !c.Timestamp.IsZero() {
		ts = c.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return marshalTuple(c.Column, c.Value, ts)
}

func marshalTuple(values ...interface{}) ([]byte, error) {
	return json.Marshal(values)
}

// Row is a named list of cells.
type Row struct {
	Name  string
	Cells []Cell
}

// MarshalJSON encodes the row as a [rowName, cells] pair.
func (r Row) MarshalJSON() ([]byte, error) {
	cells := r.Cells
	if cells == nil {
		cells = []Cell{}
	}
	return marshalTuple(r.Name, cells)
}

// DatasetStatus is the description of a dataset returned by the server.
type DatasetStatus struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status struct {
		RowCount    int64 `json:"rowCount"`
		ColumnCount int64 `json:"columnCount"`
	} `json:"status"`
}

// Dataset is a handle to a dataset of the server.
type Dataset struct {
	c    *Client
	ID   string
	Type string
}

func datasetPath(id string, parts ...string) string {
	p := "/v1/datasets/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// CreateDataset creates a dataset. The server generates an id when the
// config has none.
func (c *Client) CreateDataset(ctx context.Context, config DatasetConfig) (*Dataset, error) {
	resp, err := c.Post(ctx, "/v1/datasets", config)
	if err != nil {
		return nil, err
	}

	var status DatasetStatus
	if err := resp.JSON(&status); err != nil {
		return nil, err
	}

	return &Dataset{c: c, ID: status.ID, Type: status.Type}, nil
}

// Dataset returns a handle to an existing dataset without checking it
// exists.
func (c *Client) Dataset(id string) *Dataset {
	return &Dataset{c: c, ID: id}
}

// DatasetStatus returns the description of a dataset.
func (c *Client) DatasetStatus(ctx context.Context, id string) (*DatasetStatus, error) {
	resp, err := c.Get(ctx, datasetPath(id), nil)
	if err != nil {
		return nil, err
	}

	var status DatasetStatus
	if err := resp.JSON(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

// DeleteDataset deletes a dataset. Deleting a dataset that does not exist
// is not an error.
func (c *Client) DeleteDataset(ctx context.Context, id string) error {
	_, err := c.Delete(ctx, datasetPath(id))
	if re, ok := AsResponseError(err); ok && re.StatusCode() == http.StatusNotFound {
		return nil
	}
	return err
}

// Datasets returns the ids of all datasets.
func (c *Client) Datasets(ctx context.Context) ([]string, error) {
	resp, err := c.Get(ctx, "/v1/datasets", nil)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := resp.JSON(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// RecordRow records a row. It is not visible to queries until the dataset
// is committed.
func (d *Dataset) RecordRow(ctx context.Context, rowName string, cells []Cell) error {
	if cells == nil {
		cells = []Cell{}
	}

	_, err := d.c.Post(ctx, datasetPath(d.ID, "rows"), struct {
		RowName string `json:"rowName"`
		Columns []Cell `json:"columns"`
	}{rowName, cells})
	return err
}

// RecordRows records several rows at once.
func (d *Dataset) RecordRows(ctx context.Context, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}

	_, err := d.c.Post(ctx, datasetPath(d.ID, "multirows"), rows)
	return err
}

// Commit makes the recorded rows visible to queries.
func (d *Dataset) Commit(ctx context.Context) error {
	_, err := d.c.Post(ctx, datasetPath(d.ID, "commit"), nil)
	return err
}

// Status returns the description of the dataset.
func (d *Dataset) Status(ctx context.Context) (*DatasetStatus, error) {
	return d.c.DatasetStatus(ctx, d.ID)
}
