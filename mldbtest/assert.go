// Package mldbtest contains helpers to test a server through its HTTP API:
// result assertions, a runner for suites of cases with expected failures and
// the sample suite.
package mldbtest // import "github.com/src-d/go-mldb/mldbtest"

import (
	"encoding/json"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tHelper interface {
	Helper()
}

// AssertQueryResult checks a tabular query result equals the expected one.
// Numbers are compared by value whatever their type, so 1 and 1.0 are
// equal. A mismatch is reported with a diff through t.Errorf.
func AssertQueryResult(t assert.TestingT, got, want [][]interface{}, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	diff := cmp.Diff(normalizeRows(want), normalizeRows(got))
	if diff == "" {
		return true
	}

	return assert.Fail(t, "unexpected query result (-want +got):\n"+diff, msgAndArgs...)
}

// RequireQueryResult is like AssertQueryResult but stops the test on a
// mismatch.
func RequireQueryResult(t require.TestingT, got, want [][]interface{}, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	if !AssertQueryResult(t, got, want, msgAndArgs...) {
		t.FailNow()
	}
}

func normalizeRows(rows [][]interface{}) [][]interface{} {
	if rows == nil {
		return nil
	}

	result := make([][]interface{}, len(rows))
	for i, row := range rows {
		result[i] = make([]interface{}, len(row))
		for j, v := range row {
			result[i][j] = normalizeValue(v)
		}
	}
	return result
}

func normalizeValue(v interface{}) interface{} {
	switch v := v.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return cast.ToFloat64(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}
