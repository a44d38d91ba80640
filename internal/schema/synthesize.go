package schema

import "fmt"

// Primary key heuristic. It targets small reference tables (a product
// lookup with an id and one or two attributes) and is intentionally narrow:
// only a column named exactly productId, of type Integer, in a table of at
// most three columns is ever marked as primary key.
const (
	PrimaryKeyColumn     = "productId"
	maxPrimaryKeyColumns = 3
)

// DefaultPlaceholderColumn replaces the first unnamed header of a file.
const DefaultPlaceholderColumn = "pngUrl"

// Synthesize builds the column definitions for a table from its column
// names and inferred types.
func Synthesize(table string, columns []string, types []ColumnType) (*TableSchema, error) {
	if len(columns) != len(types) {
		return nil, fmt.Errorf("table %q: %d columns but %d types", table, len(columns), len(types))
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %q has no columns", table)
	}

	seen := make(map[string]bool, len(columns))
	specs := make([]ColumnSpec, len(columns))
	for i, name := range columns {
		if seen[name] {
			return nil, fmt.Errorf("table %q: duplicate column %q", table, name)
		}
		seen[name] = true
		specs[i] = ColumnSpec{Name: name, Type: types[i]}
	}

	if len(specs) <= maxPrimaryKeyColumns {
		for i := range specs {
			if specs[i].Name == PrimaryKeyColumn && specs[i].Type == Integer {
				specs[i].IsPrimaryKey = true
				break
			}
		}
	}

	return &TableSchema{Name: table, Columns: specs}, nil
}

// RenameUnnamed gives the first unnamed column of t the placeholder name.
// Later unnamed columns keep the reader's name.
func RenameUnnamed(t *RawTable, placeholder string) (string, bool) {
	if len(t.Unnamed) == 0 {
		return "", false
	}
	from := t.Unnamed[0]
	return from, t.Rename(from, placeholder)
}

// Profile infers a type for every column of t and synthesizes its schema.
func Profile(t *RawTable) (*TableSchema, error) {
	types := make([]ColumnType, len(t.Columns))
	for i := range t.Columns {
		types[i] = InferType(t.Column(i))
	}
	return Synthesize(TableName(t.Path), t.Columns, types)
}
