// Package engine executes generated DDL and bulk loads against a database.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"import-buddy/internal/dialect"
)

// Session owns the single database connection used for one run.
type Session struct {
	db          *sql.DB
	dialect     dialect.Dialect
	lockTimeout time.Duration
	logger      *zap.Logger
}

// Open connects to the database and returns a session on it.
func Open(ctx context.Context, driver, dsn string, d dialect.Dialect, lockTimeout time.Duration, logger *zap.Logger) (*Session, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	s, err := NewSession(ctx, db, d, lockTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSession wraps an open handle. The handle is limited to one connection
// so that every statement of the run is sequenced on it.
func NewSession(ctx context.Context, db *sql.DB, d dialect.Dialect, lockTimeout time.Duration, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	logger.Debug("connected", zap.String("dialect", d.Name()), zap.Duration("lock_timeout", lockTimeout))
	return &Session{db: db, dialect: d, lockTimeout: lockTimeout, logger: logger}, nil
}

func (s *Session) Dialect() dialect.Dialect { return s.dialect }

func (s *Session) Close() error {
	return s.db.Close()
}

// begin starts a transaction with the bounded DDL lock wait applied.
func (s *Session) begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	if q := s.dialect.LockTimeoutQuery(s.lockTimeout); q != "" {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}
	return tx, nil
}

func (s *Session) exec(ctx context.Context, tx *sql.Tx, table, stmt string) error {
	s.logger.Debug("executing statement", zap.String("table", table), zap.String("stmt", stmt))
	_, err := tx.ExecContext(ctx, stmt)
	return err
}
