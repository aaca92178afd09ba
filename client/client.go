// Package client is a thin wrapper over the HTTP API of the server. Any
// response with a status code outside [200, 400) is returned as a
// *ResponseError.
package client // import "github.com/src-d/go-mldb/client"

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// Response is a response of the server with its body already read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the body into v. Numbers are decoded as json.Number.
func (r *Response) JSON(v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	return dec.Decode(v)
}

// ResponseError is returned when the server answers with a status code
// outside [200, 400). It keeps the original response.
type ResponseError struct {
	Response *Response
	// Message is the error reported by the server, or the raw body if it
	// reported none.
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("mldb: response status %d: %s", e.Response.StatusCode, e.Message)
}

// StatusCode returns the status code of the response.
func (e *ResponseError) StatusCode() int {
	return e.Response.StatusCode
}

// AsResponseError returns the *ResponseError in the chain of err, if any.
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	ok := errors.As(err, &re)
	return re, ok
}

func newResponseError(resp *Response) *ResponseError {
	var body struct {
		Error string `json:"error"`
	}

	msg := strings.TrimSpace(string(resp.Body))
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Error != "" {
		msg = body.Error
	}

	return &ResponseError{Response: resp, Message: msg}
}

// Client talks to a server.
type Client struct {
	base *url.URL
	http *retryablehttp.Client
}

// Option configures a Client.
type Option func(*retryablehttp.Client)

// WithRetryMax sets the maximum number of retries of a request. Only
// connection errors and server errors are retried.
func WithRetryMax(n int) Option {
	return func(c *retryablehttp.Client) {
		c.RetryMax = n
	}
}

// WithRetryWait sets the minimum and maximum time to wait between retries.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = min
		c.RetryWaitMax = max
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *retryablehttp.Client) {
		c.HTTPClient = hc
	}
}

// New creates a client for the server at the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.Logger = leveledLogger{logrus.WithField("component", "client")}
	rc.RetryMax = 2
	rc.RetryWaitMin = 50 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	for _, opt := range opts {
		opt(rc)
	}

	return &Client{base: u, http: rc}, nil
}

// URL returns the base URL of the server.
func (c *Client) URL() string {
	return c.base.String()
}

// Get sends a GET request to the given path with the given query string.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post sends a POST request with body encoded as JSON. A nil body sends no
// content.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put sends a PUT request with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	params url.Values,
	body interface{},
) (*Response, error) {
	u := c.base.String() + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var raw interface{}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		raw = data
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, raw)
	if err != nil {
		return nil, err
	}

	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	r := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}

	if r.StatusCode < 200 || r.StatusCode >= 400 {
		return r, newResponseError(r)
	}

	return r, nil
}

// Ping checks the server is up.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, "/v1/ping", nil)
	return err
}

// Query runs a query and returns its result in table format: a header row
// starting with _rowName followed by one row per result. Integral numbers
// are returned as int64, other numbers as float64.
func (c *Client) Query(ctx context.Context, q string) ([][]interface{}, error) {
	resp, err := c.Get(ctx, "/v1/query", url.Values{
		"q":      {q},
		"format": {"table"},
	})
	if err != nil {
		return nil, err
	}

	var rows [][]interface{}
	if err := resp.JSON(&rows); err != nil {
		return nil, err
	}

	for _, row := range rows {
		for i, v := range row {
			row[i] = normalize(v)
		}
	}

	return rows, nil
}

func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []interface{}:
		for i, e := range v {
			v[i] = normalize(e)
		}
		return v
	case map[string]interface{}:
		for k, e := range v {
			v[k] = normalize(e)
		}
		return v
	default:
		return v
	}
}
