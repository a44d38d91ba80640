package schema_test

import (
	"testing"

	"import-buddy/internal/schema"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   schema.ColumnType
	}{
		{"all integers", []string{"1", "22", "-3", "+4"}, schema.Integer},
		{"leading zeros stay integer", []string{"007", "010"}, schema.Integer},
		{"one fractional value", []string{"1", "2.5", "3"}, schema.Float},
		{"all floats", []string{"1.25", "3.5"}, schema.Float},
		{"scientific notation", []string{"1e3", "2.5e-2"}, schema.Float},
		{"whole number written as float", []string{"3.0", "4"}, schema.Float},
		{"words", []string{"apple", "pear"}, schema.Text},
		{"numbers then a word", []string{"1", "2", "three"}, schema.Text},
		{"blank cell", []string{"1", "", "3"}, schema.Text},
		{"whitespace cell", []string{"1", "  ", "3"}, schema.Text},
		{"all blank", []string{"", ""}, schema.Text},
		{"nan is text", []string{"1.5", "NaN"}, schema.Text},
		{"infinity is text", []string{"Inf", "2"}, schema.Text},
		{"empty column", nil, schema.Text},
		{"padded integers", []string{" 12 ", "13"}, schema.Integer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schema.InferType(tt.values); got != tt.want {
				t.Errorf("InferType(%q) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestColumnTypeConvert(t *testing.T) {
	tests := []struct {
		typ     schema.ColumnType
		raw     string
		want    any
		wantErr bool
	}{
		{schema.Integer, "42", int64(42), false},
		{schema.Integer, " 42 ", int64(42), false},
		{schema.Integer, "4.2", nil, true},
		{schema.Float, "4.5", 4.5, false},
		{schema.Float, "4", 4.0, false},
		{schema.Text, "  Mixed Case  ", "  Mixed Case  ", false},
		{schema.Text, "", nil, false},
		{schema.Integer, "", nil, false},
	}

	for _, tt := range tests {
		got, err := tt.typ.Convert(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("%v.Convert(%q) error = %v, wantErr %v", tt.typ, tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%v.Convert(%q) = %#v, want %#v", tt.typ, tt.raw, got, tt.want)
		}
	}
}
