package engine

import (
	"context"
	"fmt"
	"strings"

	"import-buddy/internal/schema"
)

// InspectedColumn is a column as reported by the database catalog.
type InspectedColumn struct {
	Name         string
	IsPrimaryKey bool
}

// Inspect reads the columns of table back from the database catalog, in
// ordinal order.
func (s *Session) Inspect(ctx context.Context, table string) ([]InspectedColumn, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.ColumnsQuery(), table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var cols []InspectedColumn
	for rows.Next() {
		var name string
		var pk any
		if err := rows.Scan(&name, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		cols = append(cols, InspectedColumn{Name: name, IsPrimaryKey: truthy(pk)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return cols, nil
}

// truthy interprets the primary key flag, which drivers return as bool,
// integer, float or text depending on the database.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case float64:
		return b != 0
	case []byte:
		return truthy(string(b))
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		return s == "1" || s == "t" || s == "true" || s == "yes"
	default:
		return false
	}
}

// Status values reported by Verify.
const (
	StatusOK       = "OK"
	StatusDryRun   = "DRY-RUN"
	statusPartial  = "PARTIAL"
	statusMismatch = "SCHEMA MISMATCH"
)

// Verification is the post-load check of one table.
type Verification struct {
	Table    string
	Expected int
	Actual   int
	Columns  []InspectedColumn
	Status   string
}

func (v *Verification) OK() bool {
	return v.Status == StatusOK || v.Status == StatusDryRun
}

// Verify counts the rows of the table created for ts and reads its columns
// back, comparing both with what was loaded.
func (s *Session) Verify(ctx context.Context, ts *schema.TableSchema, expected int) (*Verification, error) {
	v := &Verification{Table: ts.Name, Expected: expected, Status: StatusOK}

	if err := s.db.QueryRowContext(ctx, s.dialect.CountQuery(ts.Name)).Scan(&v.Actual); err != nil {
		return nil, fmt.Errorf("failed to count rows of %s: %w", ts.Name, err)
	}

	cols, err := s.Inspect(ctx, ts.Name)
	if err != nil {
		return nil, err
	}
	v.Columns = cols

	switch {
	case !sameColumns(ts, cols):
		v.Status = statusMismatch
	case v.Actual != expected:
		v.Status = fmt.Sprintf("%s: %d/%d", statusPartial, v.Actual, expected)
	}
	return v, nil
}

func sameColumns(ts *schema.TableSchema, cols []InspectedColumn) bool {
	if len(cols) != len(ts.Columns) {
		return false
	}
	for i, c := range ts.Columns {
		if cols[i].Name != c.Name || cols[i].IsPrimaryKey != c.IsPrimaryKey {
			return false
		}
	}
	return true
}
