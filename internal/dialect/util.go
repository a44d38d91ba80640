package dialect

import (
	"strings"

	"import-buddy/internal/schema"
)

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// ConstraintName is the name of the foreign key added on column.
func ConstraintName(column string) string {
	return "fk_" + column
}

// quoteWith wraps ident in open/close, doubling any close character inside it.
func quoteWith(ident, open, close string) string {
	return open + strings.ReplaceAll(ident, close, close+close) + close
}

func quoteAll(d Dialect, idents []string) string {
	quoted := make([]string, len(idents))
	for i, id := range idents {
		quoted[i] = d.Quote(id)
	}
	return strings.Join(quoted, ", ")
}

// ColumnDefinitions renders the column list of a create table statement.
func ColumnDefinitions(d Dialect, s *schema.TableSchema) string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		def := d.Quote(c.Name) + " " + d.TypeName(c.Type)
		if c.IsPrimaryKey {
			def += " primary key"
		}
		defs[i] = def
	}
	return strings.Join(defs, ", ")
}

func insertQuery(d Dialect, table string, cols []string) string {
	return "insert into " + d.Quote(table) + " (" + quoteAll(d, cols) + ") values (" +
		GeneratePlaceholders(len(cols), d.Placeholder) + ")"
}

func countQuery(d Dialect, table string) string {
	return "select count(*) from " + d.Quote(table)
}
