package dialect

import (
	"fmt"
	"math"
	"time"

	"import-buddy/internal/schema"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) Quote(ident string) string {
	return quoteWith(ident, "`", "`")
}

func (d *MysqlDialect) TypeName(t schema.ColumnType) string {
	switch t {
	case schema.Integer:
		return "bigint"
	case schema.Float:
		return "double"
	default:
		return "text"
	}
}

func (d *MysqlDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("drop table if exists %s;", d.Quote(table))
}

func (d *MysqlDialect) CreateTableQuery(s *schema.TableSchema) string {
	return fmt.Sprintf("create table if not exists %s (%s);", d.Quote(s.Name), ColumnDefinitions(d, s))
}

func (d *MysqlDialect) AddForeignKeyQuery(fkTable, pkTable, column string) string {
	return fmt.Sprintf("alter table %s add constraint %s foreign key (%s) references %s (%s);",
		d.Quote(fkTable), d.Quote(ConstraintName(column)), d.Quote(column), d.Quote(pkTable), d.Quote(column))
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

// LockTimeoutQuery sets lock_wait_timeout, which MySQL counts in whole seconds.
func (d *MysqlDialect) LockTimeoutQuery(timeout time.Duration) string {
	if timeout <= 0 {
		return ""
	}
	return fmt.Sprintf("set session lock_wait_timeout = %d", int(math.Max(1, math.Ceil(timeout.Seconds()))))
}

func (d *MysqlDialect) CountQuery(table string) string {
	return countQuery(d, table)
}

func (d *MysqlDialect) ColumnsQuery() string {
	return `SELECT COLUMN_NAME, COLUMN_KEY = 'PRI' FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}
