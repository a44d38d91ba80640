package dialect

import (
	"fmt"
	"time"

	"import-buddy/internal/schema"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) Quote(ident string) string {
	return quoteWith(ident, "[", "]")
}

func (d *MSSQLDialect) TypeName(t schema.ColumnType) string {
	switch t {
	case schema.Integer:
		return "bigint"
	case schema.Float:
		return "float"
	default:
		return "nvarchar(max)"
	}
}

// DropTableQuery relies on DROP ... IF EXISTS (SQL Server 2016+).
func (d *MSSQLDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("drop table if exists %s;", d.Quote(table))
}

// CreateTableQuery omits "if not exists", which T-SQL does not have; the
// preceding drop makes it unnecessary.
func (d *MSSQLDialect) CreateTableQuery(s *schema.TableSchema) string {
	return fmt.Sprintf("create table %s (%s);", d.Quote(s.Name), ColumnDefinitions(d, s))
}

func (d *MSSQLDialect) AddForeignKeyQuery(fkTable, pkTable, column string) string {
	return fmt.Sprintf("alter table %s add constraint %s foreign key (%s) references %s (%s);",
		d.Quote(fkTable), d.Quote(ConstraintName(column)), d.Quote(column), d.Quote(pkTable), d.Quote(column))
}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 named parameters over ?
func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) LockTimeoutQuery(timeout time.Duration) string {
	if timeout <= 0 {
		return ""
	}
	return fmt.Sprintf("set lock_timeout %d", timeout.Milliseconds())
}

func (d *MSSQLDialect) CountQuery(table string) string {
	return countQuery(d, table)
}

func (d *MSSQLDialect) ColumnsQuery() string {
	return `
		SELECT
			c.COLUMN_NAME,
			CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 1 ELSE 0 END AS IS_PK
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT kcu.TABLE_SCHEMA, kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
				ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		) pk ON c.TABLE_SCHEMA = pk.TABLE_SCHEMA AND c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME
		WHERE c.TABLE_SCHEMA = SCHEMA_NAME() AND c.TABLE_NAME = @p1
		ORDER BY c.ORDINAL_POSITION
	`
}
