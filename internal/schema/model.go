package schema

import (
	"math/rand/v2"
	"path/filepath"
	"strings"
)

// RawTable is a file as read into memory, before any schema decisions.
type RawTable struct {
	Path    string
	Columns []string
	Rows    [][]string // aligned with Columns
	Unnamed []string   // columns the source left without a header, in order
}

// Column returns every cell of column i.
func (t *RawTable) Column(i int) []string {
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			values = append(values, row[i])
		} else {
			values = append(values, "")
		}
	}
	return values
}

// Rename changes a column name in place. It reports false when from is unknown.
func (t *RawTable) Rename(from, to string) bool {
	for i, name := range t.Columns {
		if name != from {
			continue
		}
		t.Columns[i] = to
		for j, u := range t.Unnamed {
			if u == from {
				t.Unnamed = append(t.Unnamed[:j:j], t.Unnamed[j+1:]...)
				break
			}
		}
		return true
	}
	return false
}

// Sample picks up to n distinct rows at random.
func (t *RawTable) Sample(n int, rng *rand.Rand) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n <= 0 {
		return nil
	}
	perm := rng.Perm(len(t.Rows))
	out := make([][]string, n)
	for i := range n {
		out[i] = t.Rows[perm[i]]
	}
	return out
}

// ColumnSpec describes one column of a table to be created.
type ColumnSpec struct {
	Name         string
	Type         ColumnType
	IsPrimaryKey bool
}

// TableSchema is the confirmed shape of a table.
type TableSchema struct {
	Name    string
	Columns []ColumnSpec
}

func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns the primary key column, if one was chosen.
func (s *TableSchema) PrimaryKey() (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.IsPrimaryKey {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

var compressionExts = []string{".gz", ".bz2", ".xz", ".zst"}

// TableName derives a table name from a file path: the base name with any
// compression suffix and then the file extension stripped.
func TableName(path string) string {
	base := filepath.Base(path)
	for _, ext := range compressionExts {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ImportRecord remembers which tables a run created and their columns,
// in import order.
type ImportRecord struct {
	tables  []string
	files   map[string]string
	columns map[string][]string
}

func NewImportRecord() *ImportRecord {
	return &ImportRecord{
		files:   make(map[string]string),
		columns: make(map[string][]string),
	}
}

// Add records a materialized table. Re-importing a table name keeps its
// original position and replaces its columns.
func (r *ImportRecord) Add(file string, s *TableSchema) {
	if _, seen := r.columns[s.Name]; !seen {
		r.tables = append(r.tables, s.Name)
	}
	r.files[file] = s.Name
	r.columns[s.Name] = s.ColumnNames()
}

// Tables lists the imported table names in import order.
func (r *ImportRecord) Tables() []string {
	return append([]string(nil), r.tables...)
}

func (r *ImportRecord) Columns(table string) []string {
	return r.columns[table]
}

// TableFor returns the table a source file was imported as.
func (r *ImportRecord) TableFor(file string) (string, bool) {
	t, ok := r.files[file]
	return t, ok
}

func (r *ImportRecord) Len() int {
	return len(r.tables)
}

// RelationshipCandidate is a shared column suggesting a foreign key
// between two imported tables.
type RelationshipCandidate struct {
	Column string
	Left   string
	Right  string
}
