package dialect

import (
	"fmt"
	"time"

	"github.com/lib/pq"

	"import-buddy/internal/schema"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Quote(ident string) string {
	return quoteWith(ident, `"`, `"`)
}

func (d *PostgresDialect) TypeName(t schema.ColumnType) string {
	switch t {
	case schema.Integer:
		return "integer"
	case schema.Float:
		return "float8"
	default:
		return "text"
	}
}

func (d *PostgresDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("drop table if exists %s;", d.Quote(table))
}

func (d *PostgresDialect) CreateTableQuery(s *schema.TableSchema) string {
	return fmt.Sprintf("create table if not exists %s (%s);", d.Quote(s.Name), ColumnDefinitions(d, s))
}

func (d *PostgresDialect) AddForeignKeyQuery(fkTable, pkTable, column string) string {
	return fmt.Sprintf("alter table %s add constraint %s foreign key (%s) references %s (%s);",
		d.Quote(fkTable), d.Quote(ConstraintName(column)), d.Quote(column), d.Quote(pkTable), d.Quote(column))
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

// CopyQuery returns a COPY FROM STDIN statement understood by lib/pq.
func (d *PostgresDialect) CopyQuery(table string, cols []string) string {
	return pq.CopyIn(table, cols...)
}

func (d *PostgresDialect) LockTimeoutQuery(timeout time.Duration) string {
	if timeout <= 0 {
		return ""
	}
	return fmt.Sprintf("set lock_timeout = %d", timeout.Milliseconds())
}

func (d *PostgresDialect) CountQuery(table string) string {
	return countQuery(d, table)
}

func (d *PostgresDialect) ColumnsQuery() string {
	return `SELECT
    c.column_name,
    EXISTS (SELECT 1 FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
            ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
        WHERE tc.constraint_type = 'PRIMARY KEY'
        AND kcu.table_schema = c.table_schema AND kcu.table_name = c.table_name AND kcu.column_name = c.column_name) AS is_pk
FROM information_schema.columns c
WHERE c.table_schema = current_schema() AND c.table_name = $1
ORDER BY c.ordinal_position`
}
