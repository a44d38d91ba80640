package dialect

import "fmt"

// GetDialect returns the Dialect for a database/sql driver name.
func GetDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return &PostgresDialect{}, nil
	case "mysql":
		return &MysqlDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "oracle":
		return &OracleDialect{}, nil
	case "sqlite", "libsql":
		return &SQLiteDialect{}, nil
	case "duckdb":
		return &DuckDBDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// IsFileDriver reports whether the driver addresses its database by a single
// path or URL rather than by host and credentials.
func IsFileDriver(driver string) bool {
	return driver == "sqlite" || driver == "libsql" || driver == "duckdb"
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
var _ Dialect = (*DuckDBDialect)(nil)
var _ Copier = (*PostgresDialect)(nil)
