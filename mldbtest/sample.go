package mldbtest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-mldb/client"
)

const (
	sampleDataset = "sample"
	sampleQuery   = "select x from sample"
	invalidQuery  = "SELECT this will not work"
)

// SampleResult is the result of the sample query in table format.
var SampleResult = [][]interface{}{
	{"_rowName", "x"},
	{"a", 1},
}

// SetupSample (re)creates the sample dataset: a single row a with x = 1.
func SetupSample(ctx context.Context, c *client.Client) error {
	if err := c.DeleteDataset(ctx, sampleDataset); err != nil {
		return err
	}

	ds, err := c.CreateDataset(ctx, client.DatasetConfig{
		ID:   sampleDataset,
		Type: "sparse.mutable",
	})
	if err != nil {
		return err
	}

	err = ds.RecordRow(ctx, "a", []client.Cell{
		{Column: "x", Value: 1, Timestamp: time.Unix(0, 0)},
	})
	if err != nil {
		return err
	}

	return ds.Commit(ctx)
}

// SampleSuite returns the sample suite run against the server of c.
func SampleSuite(c *client.Client) Suite {
	return Suite{
		Name: "sample",
		Setup: func(ctx context.Context) error {
			return SetupSample(ctx, c)
		},
		Cases: []Case{
			{
				Name: "test_select_x_works",
				Run: func(t *T) {
					resp, err := c.Get(t.Context(), "/v1/query", url.Values{"q": {sampleQuery}})
					require.NoError(t, err)
					require.Equal(t, http.StatusOK, resp.StatusCode)

					rows, err := c.Query(t.Context(), sampleQuery)
					require.NoError(t, err)
					RequireQueryResult(t, rows, SampleResult)
				},
			},
			{
				Name: "test_errors",
				Run: func(t *T) {
					_, err := c.Query(t.Context(), invalidQuery)
					re, ok := client.AsResponseError(err)
					require.True(t, ok, "expecting a response error, got %v", err)
					require.Equal(t, http.StatusBadRequest, re.StatusCode())

					_, err = c.Query(t.Context(), "SELECT *")
					re, ok = client.AsResponseError(err)
					require.True(t, ok, "expecting a response error, got %v", err)
					require.Contains(t, re.Message, "must override getAllColumns")
				},
			},
			{
				Name:          "failing_test",
				ExpectFailure: true,
				Run: func(t *T) {
					_, err := c.Query(t.Context(), invalidQuery)
					require.NoError(t, err)
				},
			},
		},
	}
}
