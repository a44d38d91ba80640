package dialect

import (
	"time"

	"import-buddy/internal/schema"
)

// Dialect abstracts database-specific SQL generation.
type Dialect interface {
	Name() string

	// Identifiers and types
	Quote(ident string) string
	TypeName(t schema.ColumnType) string

	// DDL
	DropTableQuery(table string) string
	CreateTableQuery(s *schema.TableSchema) string
	AddForeignKeyQuery(fkTable, pkTable, column string) string

	// DML
	InsertQuery(table string, cols []string) string
	Placeholder(index int) string // Returns ?, $1, @p1, :1

	// Session setup; empty when the database has no such setting.
	LockTimeoutQuery(d time.Duration) string

	// Introspection
	CountQuery(table string) string
	ColumnsQuery() string // one bind parameter (table); yields column name, primary key flag
}

// Copier is implemented by dialects with a bulk copy protocol.
type Copier interface {
	CopyQuery(table string, cols []string) string
}
