package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColumnType is the storage category inferred for a column.
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Float
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return "text"
	}
}

// InferType maps the observed cells of one column to a ColumnType.
// Blank cells make the column Text; every cell must be an integer literal
// for Integer, and a finite number for Float.
func InferType(values []string) ColumnType {
	if len(values) == 0 {
		return Text
	}

	hasReal := false
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			return Text
		}
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			continue
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Text
		}
		hasReal = true
	}

	if hasReal {
		return Float
	}
	return Integer
}

// Convert turns a raw cell into the value bound for a column of type t.
// Blank cells become nil (SQL NULL); text cells are passed through untouched.
func (t ColumnType) Convert(raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	switch t {
	case Integer:
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not an integer: %w", raw, err)
		}
		return v, nil
	case Float:
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a number: %w", raw, err)
		}
		return v, nil
	default:
		return raw, nil
	}
}
