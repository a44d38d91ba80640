package engine

import (
	"context"

	"go.uber.org/zap"
)

// AddForeignKey adds a foreign key on fkTable.column referencing
// pkTable.column and commits. Any failure is a *ConstraintError.
func (s *Session) AddForeignKey(ctx context.Context, fkTable, pkTable, column string) (string, error) {
	stmt := s.dialect.AddForeignKeyQuery(fkTable, pkTable, column)
	fail := func(err error) (string, error) {
		return "", &ConstraintError{Table: fkTable, RefTable: pkTable, Column: column, Stmt: stmt, Err: err}
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return fail(err)
	}
	if err := s.exec(ctx, tx, fkTable, stmt); err != nil {
		_ = tx.Rollback()
		return fail(err)
	}
	if err := tx.Commit(); err != nil {
		return fail(err)
	}

	s.logger.Debug("committed foreign key", zap.String("table", fkTable), zap.String("references", pkTable))
	return stmt, nil
}
