package engine

import "fmt"

// SchemaError reports a statement the database rejected while creating or
// loading a table.
type SchemaError struct {
	Table string
	Stmt  string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s: %v (statement: %s)", e.Table, e.Err, e.Stmt)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ConstraintError reports a foreign key the database refused to add,
// typically because the referenced column is not unique.
type ConstraintError struct {
	Table    string
	RefTable string
	Column   string
	Stmt     string
	Err      error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("foreign key %s.%s -> %s.%s: %v", e.Table, e.Column, e.RefTable, e.Column, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }
