package engine

import (
	"context"
	"fmt"
	"io"

	"import-buddy/internal/dialect"
	"import-buddy/internal/schema"
)

// DryRun prints the statements a Session would execute, without a database.
type DryRun struct {
	dialect dialect.Dialect
	out     io.Writer
}

func NewDryRun(d dialect.Dialect, out io.Writer) *DryRun {
	return &DryRun{dialect: d, out: out}
}

func (r *DryRun) print(stmt string) {
	fmt.Fprintf(r.out, "[SIMULATION] %s\n", stmt)
}

func (r *DryRun) DropCreate(ctx context.Context, ts *schema.TableSchema) (string, error) {
	r.print(r.dialect.DropTableQuery(ts.Name))
	return r.dialect.CreateTableQuery(ts), nil
}

// Load converts every row, so conversion problems surface as they would
// against a database, but writes nothing.
func (r *DryRun) Load(ctx context.Context, ts *schema.TableSchema, t *schema.RawTable, onRow func()) (int, error) {
	rows, err := ConvertRows(ts, t)
	if err != nil {
		return 0, &SchemaError{Table: ts.Name, Stmt: "convert rows", Err: err}
	}
	r.print(fmt.Sprintf("%s -- %d rows", r.dialect.InsertQuery(ts.Name, ts.ColumnNames()), len(rows)))
	return len(rows), nil
}

func (r *DryRun) AddForeignKey(ctx context.Context, fkTable, pkTable, column string) (string, error) {
	return r.dialect.AddForeignKeyQuery(fkTable, pkTable, column), nil
}

func (r *DryRun) Verify(ctx context.Context, ts *schema.TableSchema, expected int) (*Verification, error) {
	return &Verification{Table: ts.Name, Expected: expected, Actual: expected, Status: StatusDryRun}, nil
}
