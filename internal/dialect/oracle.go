package dialect

import (
	"fmt"
	"math"
	"time"

	"import-buddy/internal/schema"
)

// OracleDialect targets Oracle 23ai, the first release with
// "if [not] exists" on DDL. go-ora rejects a trailing semicolon, so
// statements are rendered without one.
type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) Quote(ident string) string {
	return quoteWith(ident, `"`, `"`)
}

func (d *OracleDialect) TypeName(t schema.ColumnType) string {
	switch t {
	case schema.Integer:
		return "number(19)"
	case schema.Float:
		return "binary_double"
	default:
		return "clob"
	}
}

func (d *OracleDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("drop table if exists %s", d.Quote(table))
}

func (d *OracleDialect) CreateTableQuery(s *schema.TableSchema) string {
	return fmt.Sprintf("create table if not exists %s (%s)", d.Quote(s.Name), ColumnDefinitions(d, s))
}

func (d *OracleDialect) AddForeignKeyQuery(fkTable, pkTable, column string) string {
	return fmt.Sprintf("alter table %s add constraint %s foreign key (%s) references %s (%s)",
		d.Quote(fkTable), d.Quote(ConstraintName(column)), d.Quote(column), d.Quote(pkTable), d.Quote(column))
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

// LockTimeoutQuery sets ddl_lock_timeout, counted in whole seconds.
func (d *OracleDialect) LockTimeoutQuery(timeout time.Duration) string {
	if timeout <= 0 {
		return ""
	}
	return fmt.Sprintf("alter session set ddl_lock_timeout = %d", int(math.Max(1, math.Ceil(timeout.Seconds()))))
}

func (d *OracleDialect) CountQuery(table string) string {
	return countQuery(d, table)
}

func (d *OracleDialect) ColumnsQuery() string {
	return `
SELECT
    t.COLUMN_NAME,
    CASE WHEN p.CONSTRAINT_NAME IS NOT NULL THEN 1 ELSE 0 END
FROM USER_TAB_COLUMNS t
LEFT JOIN (
    SELECT cc.TABLE_NAME, cc.COLUMN_NAME, cc.CONSTRAINT_NAME
    FROM USER_CONS_COLUMNS cc
    JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
    WHERE uc.CONSTRAINT_TYPE = 'P'
) p ON t.TABLE_NAME = p.TABLE_NAME AND t.COLUMN_NAME = p.COLUMN_NAME
WHERE t.TABLE_NAME = :1
ORDER BY t.COLUMN_ID`
}
