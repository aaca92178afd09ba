package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/hashstructure"

	"github.com/src-d/go-mldb/sql"
)

// Result formats of the query endpoint.
const (
	FormatFull   = "full"
	FormatTable  = "table"
	FormatAOS    = "aos"
	FormatSOA    = "soa"
	FormatSparse = "sparse"
)

type resultOptions struct {
	format   string
	headers  bool
	rowNames bool
}

func parseResultOptions(params url.Values) (resultOptions, error) {
	opts := resultOptions{format: FormatFull, headers: true, rowNames: true}

	if f := params.Get("format"); f != "" {
		switch f = strings.ToLower(f); f {
		case FormatFull, FormatTable, FormatAOS, FormatSOA, FormatSparse:
			opts.format = f
		default:
			return opts, ErrInvalidFormat.New(f)
		}
	}

	for name, dst := range map[string]*bool{
		"headers":  &opts.headers,
		"rowNames": &opts.rowNames,
	} {
		v := params.Get(name)
		if v == "" {
			continue
		}

		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, ErrInvalidParam.New(v, name)
		}
		*dst = b
	}

	return opts, nil
}

type fullRow struct {
	RowName string          `json:"rowName"`
	RowHash string          `json:"rowHash"`
	Columns [][]interface{} `json:"columns"`
}

type resultBuilder struct {
	schema sql.Schema
	opts   resultOptions
	rows   []sql.Row
}

func newResultBuilder(schema sql.Schema, opts resultOptions) *resultBuilder {
	return &resultBuilder{schema: schema, opts: opts}
}

func (rb *resultBuilder) writeRow(row sql.Row) {
	rb.rows = append(rb.rows, row)
}

// first is the index of the first column to output.
func (rb *resultBuilder) first() int {
	if rb.opts.rowNames {
		return 0
	}
	return 1
}

func (rb *resultBuilder) result() (interface{}, error) {
	switch rb.opts.format {
	case FormatTable:
		return rb.table(), nil
	case FormatAOS:
		return rb.aos(), nil
	case FormatSOA:
		return rb.soa(), nil
	case FormatSparse:
		return rb.sparse(), nil
	default:
		return rb.full()
	}
}

func (rb *resultBuilder) table() [][]interface{} {
	result := make([][]interface{}, 0, len(rb.rows)+1)
	if rb.opts.headers {
		header := make([]interface{}, 0, len(rb.schema))
		for _, col := range rb.schema[rb.first():] {
			header = append(header, col.Name)
		}
		result = append(result, header)
	}

	for _, row := range rb.rows {
		values := make([]interface{}, 0, len(row))
		for _, v := range row[rb.first():] {
			values = append(values, jsonValue(v))
		}
		result = append(result, values)
	}

	return result
}

func (rb *resultBuilder) full() ([]fullRow, error) {
	result := make([]fullRow, 0, len(rb.rows))
	for _, row := range rb.rows {
		hash, err := rowHash(row.Name())
		if err != nil {
			return nil, err
		}

		columns := [][]interface{}{}
		for i, v := range row {
			if i == 0 || v == nil {
				continue
			}
			columns = append(columns, []interface{}{rb.schema[i].Name, jsonValue(v)})
		}

		result = append(result, fullRow{
			RowName: row.Name(),
			RowHash: hash,
			Columns: columns,
		})
	}
	return result, nil
}

// keys returns the object keys of the schema columns. Repeated column names
// get a numeric suffix: x, x_1, x_2.
func (rb *resultBuilder) keys() []string {
	keys := make([]string, len(rb.schema))
	used := make(map[string]bool, len(rb.schema))
	for i, col := range rb.schema {
		key := col.Name
		for n := 1; used[key]; n++ {
			key = fmt.Sprintf("%s_%d", col.Name, n)
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}

func (rb *resultBuilder) aos() []map[string]interface{} {
	keys := rb.keys()
	result := make([]map[string]interface{}, 0, len(rb.rows))
	for _, row := range rb.rows {
		obj := make(map[string]interface{}, len(row))
		for i := rb.first(); i < len(row); i++ {
			if row[i] == nil {
				continue
			}
			obj[keys[i]] = jsonValue(row[i])
		}
		result = append(result, obj)
	}
	return result
}

func (rb *resultBuilder) soa() map[string][]interface{} {
	keys := rb.keys()
	result := make(map[string][]interface{}, len(rb.schema))
	for _, key := range keys[rb.first():] {
		result[key] = make([]interface{}, 0, len(rb.rows))
	}

	for _, row := range rb.rows {
		for i := rb.first(); i < len(row); i++ {
			result[keys[i]] = append(result[keys[i]], jsonValue(row[i]))
		}
	}
	return result
}

func (rb *resultBuilder) sparse() [][][]interface{} {
	result := make([][][]interface{}, 0, len(rb.rows))
	for _, row := range rb.rows {
		pairs := [][]interface{}{}
		for i := rb.first(); i < len(row); i++ {
			if row[i] == nil {
				continue
			}
			pairs = append(pairs, []interface{}{rb.schema[i].Name, jsonValue(row[i])})
		}
		result = append(result, pairs)
	}
	return result
}

func rowHash(rowName string) (string, error) {
	h, err := hashstructure.Hash(rowName, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h), nil
}
