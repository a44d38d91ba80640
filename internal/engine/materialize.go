package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"import-buddy/internal/dialect"
	"import-buddy/internal/schema"
)

// DropCreate replaces any table named ts.Name with an empty one built from
// ts, and commits. It returns the create statement.
func (s *Session) DropCreate(ctx context.Context, ts *schema.TableSchema) (string, error) {
	drop := s.dialect.DropTableQuery(ts.Name)
	create := s.dialect.CreateTableQuery(ts)

	tx, err := s.begin(ctx)
	if err != nil {
		return "", &SchemaError{Table: ts.Name, Stmt: drop, Err: err}
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{drop, create} {
		if err := s.exec(ctx, tx, ts.Name, stmt); err != nil {
			return "", &SchemaError{Table: ts.Name, Stmt: stmt, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", &SchemaError{Table: ts.Name, Stmt: create, Err: fmt.Errorf("failed to commit: %w", err)}
	}
	tx = nil
	s.logger.Debug("committed drop/create", zap.String("table", ts.Name))
	return create, nil
}

// Load appends every row of t to the table created for ts, in a second
// transaction. A failure here leaves the table created but empty.
func (s *Session) Load(ctx context.Context, ts *schema.TableSchema, t *schema.RawTable, onRow func()) (int, error) {
	start := time.Now()
	rows, err := ConvertRows(ts, t)
	if err != nil {
		return 0, &SchemaError{Table: ts.Name, Stmt: "convert rows", Err: err}
	}

	cols := ts.ColumnNames()
	query := s.dialect.InsertQuery(ts.Name, cols)
	copier, isCopy := s.dialect.(dialect.Copier)
	if isCopy {
		query = copier.CopyQuery(ts.Name, cols)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &SchemaError{Table: ts.Name, Stmt: query, Err: err}
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := appendRows(ctx, tx, query, rows, isCopy, onRow); err != nil {
		return 0, &SchemaError{Table: ts.Name, Stmt: query, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &SchemaError{Table: ts.Name, Stmt: query, Err: fmt.Errorf("failed to commit: %w", err)}
	}
	tx = nil

	s.logger.Debug("committed load",
		zap.String("table", ts.Name),
		zap.Int("rows", len(rows)),
		zap.Bool("copy", isCopy),
		zap.Duration("elapsed", time.Since(start)))
	return len(rows), nil
}

// appendRows runs query once per row. A COPY statement is flushed with a
// final argument-less Exec.
func appendRows(ctx context.Context, tx *sql.Tx, query string, rows [][]any, isCopy bool, onRow func()) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, values := range rows {
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if onRow != nil {
			onRow()
		}
	}
	if isCopy {
		if _, err := stmt.ExecContext(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ConvertRows binds every cell of t to the Go value its column type expects.
func ConvertRows(ts *schema.TableSchema, t *schema.RawTable) ([][]any, error) {
	if len(t.Columns) != len(ts.Columns) {
		return nil, fmt.Errorf("file has %d columns, schema has %d", len(t.Columns), len(ts.Columns))
	}

	out := make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		values := make([]any, len(ts.Columns))
		for i, col := range ts.Columns {
			var raw string
			if i < len(row) {
				raw = row[i]
			}
			v, err := col.Type.Convert(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", r+1, col.Name, err)
			}
			values[i] = v
		}
		out[r] = values
	}
	return out, nil
}

// Materialize runs DropCreate then Load for one table.
func (s *Session) Materialize(ctx context.Context, ts *schema.TableSchema, t *schema.RawTable) (int, error) {
	if _, err := s.DropCreate(ctx, ts); err != nil {
		return 0, err
	}
	return s.Load(ctx, ts, t, nil)
}
