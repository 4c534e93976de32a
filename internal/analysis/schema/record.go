package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a single typed cell. Int and Float columns keep their number in Num;
// Int columns hold an integral Num once the table has been unified.
type Value struct {
	Type ColumnType
	Str  string
	Num  float64
}

func StringValue(s string) Value { return Value{Type: String, Str: s} }

func IntValue(n int64) Value { return Value{Type: Int, Num: float64(n)} }

func FloatValue(f float64) Value { return Value{Type: Float, Num: f} }

func (v Value) Int() int64 { return int64(math.Round(v.Num)) }

func (v Value) String() string {
	switch v.Type {
	case String:
		return v.Str
	case Int:
		return strconv.FormatInt(v.Int(), 10)
	default:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
}

// Equal compares numbers numerically and strings exactly.
func (v Value) Equal(o Value) bool {
	return v.Compare(o) == 0
}

func (v Value) Compare(o Value) int {
	vn, on := v.Type.Numeric(), o.Type.Numeric()
	switch {
	case vn && on:
		switch {
		case v.Num < o.Num:
			return -1
		case v.Num > o.Num:
			return 1
		default:
			return 0
		}
	case !vn && !on:
		return strings.Compare(v.Str, o.Str)
	case vn:
		// numbers sort before strings
		return -1
	default:
		return 1
	}
}

// Record is one parsed trial row. Values follow the schema's column order.
type Record struct {
	Source string
	Line   int
	Values []Value
}

func (r Record) Value(s *Schema, column string) (Value, bool) {
	i, ok := s.Index(column)
	if !ok || i >= len(r.Values) {
		return Value{}, false
	}
	return r.Values[i], true
}

// MismatchError reports a row that does not fit the declared schema.
type MismatchError struct {
	Line     int
	Column   string
	Raw      string
	Expected int
	Got      int
	Err      error
}

func (e *MismatchError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, e.Expected, e.Got)
	}
	if e.Err != nil {
		return fmt.Sprintf("line %d: column %q: invalid value %q: %v", e.Line, e.Column, e.Raw, e.Err)
	}
	return fmt.Sprintf("line %d: column %q: invalid value %q", e.Line, e.Column, e.Raw)
}

func (e *MismatchError) Unwrap() error {
	return e.Err
}

var errNotFinite = errors.New("value is not finite")

// ParseRow converts positional fields into typed values. The line number is
// only used for error reporting.
func ParseRow(s *Schema, line int, fields []string) ([]Value, error) {
	if len(fields) != s.Len() {
		return nil, &MismatchError{Line: line, Expected: s.Len(), Got: len(fields)}
	}

	values := make([]Value, len(fields))
	for i, col := range s.Columns {
		raw := strings.TrimSpace(fields[i])
		if col.Type == String {
			values[i] = StringValue(raw)
			continue
		}

		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &MismatchError{Line: line, Column: col.Name, Raw: raw, Err: err}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &MismatchError{Line: line, Column: col.Name, Raw: raw, Err: errNotFinite}
		}
		values[i] = Value{Type: col.Type, Num: f}
	}
	return values, nil
}
