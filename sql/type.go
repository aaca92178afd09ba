package sql

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Type represents a SQL type. Datasets are sparse and untyped, so most
// expressions read as Any; the other types describe literals and function
// results.
type Type interface {
	// Name of the type.
	Name() string
	// Convert a value of a compatible type to the most accurate type.
	Convert(interface{}) (interface{}, error)
}

var (
	// Null represents the null type.
	Null Type = nullT{}
	// Boolean is a boolean type.
	Boolean Type = booleanT{}
	// Int64 is an integer of 64 bits.
	Int64 Type = int64T{}
	// Float64 is a floating point number of 64 bits.
	Float64 Type = float64T{}
	// Text is a string type.
	Text Type = textT{}
	// Timestamp is a point in time.
	Timestamp Type = timestampT{}
	// Any is the type of cells read from datasets. Values keep whatever type
	// they were recorded with.
	Any Type = anyT{}
)

type nullT struct{}

func (nullT) Name() string { return "NULL" }

func (nullT) Convert(v interface{}) (interface{}, error) {
	if v != nil {
		return nil, ErrInvalidType.New(v)
	}
	return nil, nil
}

type booleanT struct{}

func (booleanT) Name() string { return "BOOLEAN" }

func (booleanT) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	res, err := cast.ToBoolE(v)
	if err != nil {
		return nil, invalidType(v, err)
	}
	return res, nil
}

type int64T struct{}

func (int64T) Name() string { return "INT64" }

func (int64T) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	res, err := cast.ToInt64E(v)
	if err != nil {
		return nil, invalidType(v, err)
	}
	return res, nil
}

type float64T struct{}

func (float64T) Name() string { return "FLOAT64" }

func (float64T) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	res, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, invalidType(v, err)
	}
	return res, nil
}

type textT struct{}

func (textT) Name() string { return "TEXT" }

func (textT) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	res, err := cast.ToStringE(v)
	if err != nil {
		return nil, invalidType(v, err)
	}
	return res, nil
}

type timestampT struct{}

func (timestampT) Name() string { return "TIMESTAMP" }

func (timestampT) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	res, err := cast.ToTimeE(v)
	if err != nil {
		return nil, invalidType(v, err)
	}
	return res, nil
}

func invalidType(v interface{}, err error) error {
	return ErrInvalidType.Wrap(err, fmt.Sprintf("%v", v))
}

type anyT struct{}

func (anyT) Name() string { return "ANY" }

func (anyT) Convert(v interface{}) (interface{}, error) {
	return NormalizeValue(v)
}

// IsNumber returns whether the type is numeric.
func IsNumber(t Type) bool {
	return t == Int64 || t == Float64
}

// NormalizeValue converts a decoded value to one of the value types cells
// can hold: nil, bool, int64, float64, string or time.Time.
func NormalizeValue(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case nil, bool, int64, float64, string, time.Time:
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, invalidType(v, err)
		}
		return f, nil
	case int, int8, int16, int32, uint8, uint16, uint32:
		return cast.ToInt64E(v)
	case uint, uint64:
		u := cast.ToUint64(v)
		if u > math.MaxInt64 {
			return float64(u), nil
		}
		return int64(u), nil
	case float32:
		return float64(v), nil
	case []byte:
		return string(v), nil
	default:
		return nil, ErrInvalidType.New(v)
	}
}

// ordering rank of each kind of value: NULL < numbers < strings < times.
func rank(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case bool, int64, float64:
		return 1
	case string:
		return 2
	case time.Time:
		return 3
	default:
		return 4
	}
}

// Compare compares two normalized values. Values of different kinds are
// ordered by kind: NULL, then numbers and booleans, then strings, then
// timestamps.
func Compare(a, b interface{}) (int, error) {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1, nil
		}
		return 1, nil
	}

	switch ra {
	case 0:
		return 0, nil
	case 1:
		return compareNumbers(a, b)
	case 2:
		return strings.Compare(a.(string), b.(string)), nil
	case 3:
		ta, tb := a.(time.Time), b.(time.Time)
		switch {
		case ta.Before(tb):
			return -1, nil
		case ta.After(tb):
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, ErrInvalidType.New(a)
	}
}

func compareNumbers(a, b interface{}) (int, error) {
	ia, aInt := a.(int64)
	ib, bInt := b.(int64)
	if aInt && bInt {
		switch {
		case ia < ib:
			return -1, nil
		case ia > ib:
			return 1, nil
		default:
			return 0, nil
		}
	}

	fa, err := cast.ToFloat64E(a)
	if err != nil {
		return 0, err
	}
	fb, err := cast.ToFloat64E(b)
	if err != nil {
		return 0, err
	}

	switch {
	case fa < fb:
		return -1, nil
	case fa > fb:
		return 1, nil
	default:
		return 0, nil
	}
}

// IsTrue returns whether a value is true in a boolean context.
func IsTrue(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		b, err := cast.ToBoolE(v)
		return err == nil && b
	default:
		return false
	}
}
