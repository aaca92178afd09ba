package sql

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateRow(t *testing.T) {
	require := require.New(t)

	require.NoError(ValidateRow("r1", []Cell{{Column: "x", Value: 1}}))
	require.NoError(ValidateRow("r1", nil))
	require.True(ErrInvalidRowName.Is(ValidateRow("", nil)))
	require.True(ErrInvalidColumnName.Is(ValidateRow("r1", []Cell{{Value: 1}})))
	require.True(ErrInvalidValue.Is(ValidateRow("r1", []Cell{{Column: "x", Value: []int{1}}})))
}

func TestMergeCells(t *testing.T) {
	require := require.New(t)

	t0 := time.Unix(0, 0)
	t1 := time.Unix(1, 0)

	latest := make(map[string]Cell)
	MergeCells(latest, []Cell{
		{Column: "x", Value: int64(1), Timestamp: t1},
		{Column: "y", Value: "a", Timestamp: t0},
	})
	MergeCells(latest, []Cell{
		{Column: "x", Value: int64(2), Timestamp: t0},
		{Column: "y", Value: "b", Timestamp: t0},
	})

	require.Equal(int64(1), latest["x"].Value)
	require.Equal("b", latest["y"].Value)
}

func TestParseCell(t *testing.T) {
	testCases := []struct {
		name     string
		raw      interface{}
		expected Cell
	}{
		{
			"number timestamp",
			[]interface{}{"x", json.Number("1"), json.Number("1.5")},
			Cell{Column: "x", Value: int64(1), Timestamp: time.Unix(1, 5e8).UTC()},
		},
		{
			"string timestamp",
			[]interface{}{"x", "foo", "2018-01-01T00:00:00Z"},
			Cell{Column: "x", Value: "foo", Timestamp: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			"float value",
			[]interface{}{"x", 1.5, 0},
			Cell{Column: "x", Value: 1.5, Timestamp: time.Unix(0, 0).UTC()},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := ParseCell(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.expected, cell)
		})
	}
}

func TestParseCellWithoutTimestamp(t *testing.T) {
	require := require.New(t)

	before := time.Now()
	cell, err := ParseCell([]interface{}{"x", nil})
	require.NoError(err)
	require.Nil(cell.Value)
	require.False(cell.Timestamp.Before(before.Truncate(time.Second)))
}

func TestParseCellErrors(t *testing.T) {
	testCases := []struct {
		name string
		raw  interface{}
		kind interface{ Is(error) bool }
	}{
		{"not a tuple", "x", ErrInvalidCell},
		{"too short", []interface{}{"x"}, ErrInvalidCell},
		{"too long", []interface{}{"x", 1, 2, 3}, ErrInvalidCell},
		{"invalid column", []interface{}{[]interface{}{}, 1}, ErrInvalidCell},
		{"invalid value", []interface{}{"x", map[string]interface{}{}}, ErrInvalidValue},
		{"invalid timestamp", []interface{}{"x", 1, "yesterday"}, ErrInvalidTimestamp},
		{"NaN timestamp", []interface{}{"x", 1, "NaN"}, ErrInvalidTimestamp},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCell(tt.raw)
			require.Error(t, err)
			require.True(t, tt.kind.Is(err), "unexpected error: %s", err)
		})
	}
}
