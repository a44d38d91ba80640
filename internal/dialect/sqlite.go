package dialect

import (
	"fmt"
	"time"

	"import-buddy/internal/schema"
)

// SQLiteDialect serves modernc.org/sqlite and libsql. SQLite has no
// ALTER TABLE ... ADD CONSTRAINT, so foreign keys are always rejected.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) Quote(ident string) string {
	return quoteWith(ident, `"`, `"`)
}

func (d *SQLiteDialect) TypeName(t schema.ColumnType) string {
	switch t {
	case schema.Integer:
		return "integer"
	case schema.Float:
		return "float8"
	default:
		return "text"
	}
}

func (d *SQLiteDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("drop table if exists %s;", d.Quote(table))
}

func (d *SQLiteDialect) CreateTableQuery(s *schema.TableSchema) string {
	return fmt.Sprintf("create table if not exists %s (%s);", d.Quote(s.Name), ColumnDefinitions(d, s))
}

func (d *SQLiteDialect) AddForeignKeyQuery(fkTable, pkTable, column string) string {
	return fmt.Sprintf("alter table %s add constraint %s foreign key (%s) references %s (%s);",
		d.Quote(fkTable), d.Quote(ConstraintName(column)), d.Quote(column), d.Quote(pkTable), d.Quote(column))
}

func (d *SQLiteDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SQLiteDialect) LockTimeoutQuery(timeout time.Duration) string {
	if timeout <= 0 {
		return ""
	}
	return fmt.Sprintf("pragma busy_timeout = %d", timeout.Milliseconds())
}

func (d *SQLiteDialect) CountQuery(table string) string {
	return countQuery(d, table)
}

func (d *SQLiteDialect) ColumnsQuery() string {
	return `SELECT name, pk > 0 FROM pragma_table_info(?) ORDER BY cid`
}
