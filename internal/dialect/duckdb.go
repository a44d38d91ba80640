package dialect

import (
	"fmt"
	"time"

	"import-buddy/internal/schema"
)

type DuckDBDialect struct{}

func (d *DuckDBDialect) Name() string { return "duckdb" }

func (d *DuckDBDialect) Quote(ident string) string {
	return quoteWith(ident, `"`, `"`)
}

func (d *DuckDBDialect) TypeName(t schema.ColumnType) string {
	switch t {
	case schema.Integer:
		return "integer"
	case schema.Float:
		return "float8"
	default:
		return "text"
	}
}

func (d *DuckDBDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("drop table if exists %s;", d.Quote(table))
}

func (d *DuckDBDialect) CreateTableQuery(s *schema.TableSchema) string {
	return fmt.Sprintf("create table if not exists %s (%s);", d.Quote(s.Name), ColumnDefinitions(d, s))
}

// AddForeignKeyQuery renders the standard statement; DuckDB only accepts
// foreign keys at create time and reports this one as unsupported.
func (d *DuckDBDialect) AddForeignKeyQuery(fkTable, pkTable, column string) string {
	return fmt.Sprintf("alter table %s add constraint %s foreign key (%s) references %s (%s);",
		d.Quote(fkTable), d.Quote(ConstraintName(column)), d.Quote(column), d.Quote(pkTable), d.Quote(column))
}

func (d *DuckDBDialect) InsertQuery(table string, cols []string) string {
	return insertQuery(d, table, cols)
}

func (d *DuckDBDialect) Placeholder(index int) string {
	return "?"
}

// DuckDB is single-writer in-process; there is no lock wait to bound.
func (d *DuckDBDialect) LockTimeoutQuery(timeout time.Duration) string {
	return ""
}

func (d *DuckDBDialect) CountQuery(table string) string {
	return countQuery(d, table)
}

func (d *DuckDBDialect) ColumnsQuery() string {
	return `SELECT name, pk FROM pragma_table_info(?) ORDER BY cid`
}
