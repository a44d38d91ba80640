package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DropTables drops tables in reverse of the given order, each in its own
// transaction. Tables that fail (typically because a foreign key still
// references them) are retried after the rest; the first pass that makes no
// progress returns the last error.
func (s *Session) DropTables(ctx context.Context, tables []string) (int, error) {
	pending := make([]string, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		pending = append(pending, tables[i])
	}

	dropped := 0
	for len(pending) > 0 {
		var failed []string
		var lastErr error
		for _, table := range pending {
			if err := s.dropTable(ctx, table); err != nil {
				s.logger.Debug("drop deferred", zap.String("table", table), zap.Error(err))
				failed = append(failed, table)
				lastErr = err
				continue
			}
			dropped++
		}
		if len(failed) == len(pending) {
			return dropped, lastErr
		}
		pending = failed
	}
	return dropped, nil
}

func (s *Session) dropTable(ctx context.Context, table string) error {
	stmt := s.dialect.DropTableQuery(table)
	tx, err := s.begin(ctx)
	if err != nil {
		return &SchemaError{Table: table, Stmt: stmt, Err: err}
	}
	if err := s.exec(ctx, tx, table, stmt); err != nil {
		_ = tx.Rollback()
		return &SchemaError{Table: table, Stmt: stmt, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &SchemaError{Table: table, Stmt: stmt, Err: fmt.Errorf("failed to commit: %w", err)}
	}
	return nil
}

func (r *DryRun) DropTables(ctx context.Context, tables []string) (int, error) {
	for i := len(tables) - 1; i >= 0; i-- {
		r.print(r.dialect.DropTableQuery(tables[i]))
	}
	return len(tables), nil
}
