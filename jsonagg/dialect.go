// Package jsonagg provides the database-specific JSON aggregation primitives
// the relation compiler is parameterized by: one that collapses a correlated
// sub-select into a single JSON object per outer row, and one that collapses
// it into a JSON array. The relation compiler itself is engine-agnostic; each
// engine supplies just these two primitives.
package jsonagg

import (
	"fmt"
	"strings"
)

// Column describes one selected column of the sub-select being aggregated.
// Name is the selected column as written (possibly table-qualified). JSON
// marks columns whose value is itself a JSON document (a nested relation),
// which some engines must tag explicitly to avoid re-encoding it as a plain
// string.
type Column struct {
	Name string
	JSON bool
}

// Dialect generates the SQL wrapping for JSON aggregation on one engine.
//
// Both methods receive the rendered sub-select (?-placeholder form) together
// with its bound args and its selected column list. The column list is used
// by engines whose object constructors need explicit key names (MySQL,
// SQLite); an empty list means the sub-select projects *.
type Dialect interface {
	// Name returns the dialect name (e.g. "mysql", "postgres", "sqlite3").
	Name() string

	// ObjectFrom wraps the sub-select so it yields one JSON object, or SQL
	// NULL when the sub-select returns no rows.
	ObjectFrom(sub string, args []any, columns []Column) (sql string, vars []any, err error)

	// ArrayFrom wraps the sub-select so it yields a JSON array with one
	// element per row, or an empty array when the sub-select returns no
	// rows. Element order follows the sub-select's row order.
	ArrayFrom(sub string, args []any, columns []Column) (sql string, vars []any, err error)
}

// Dialect instances
var (
	MySQL    Dialect = mysqlDialect{}
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// DialectByName returns a Dialect by its name.
func DialectByName(name string) Dialect {
	switch name {
	case "mysql":
		return MySQL
	case "postgres":
		return Postgres
	case "sqlite3", "sqlite":
		return SQLite
	default:
		return MySQL
	}
}

// objectPairs renders the 'key', alias.key argument list for JSON object
// constructors. Keys are derived from the sub-select's projection: a table
// qualifier is stripped, and an "expr AS name" column contributes its alias.
// Values of JSON-flagged columns are wrapped with jsonWrap (e.g. SQLite's
// json()) when the engine needs the tag to nest them as documents.
func objectPairs(alias string, columns []Column, jsonWrap string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("jsonagg: object construction requires an explicit column selection")
	}
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		key := columnKey(col.Name)
		value := alias + "." + key
		if col.JSON && jsonWrap != "" {
			value = jsonWrap + "(" + value + ")"
		}
		parts = append(parts, fmt.Sprintf("'%s', %s", key, value))
	}
	return strings.Join(parts, ", "), nil
}

// columnKey extracts the output name of one selected column.
func columnKey(col string) string {
	if idx := strings.LastIndex(strings.ToUpper(col), " AS "); idx != -1 {
		return strings.TrimSpace(col[idx+len(" AS "):])
	}
	if idx := strings.LastIndex(col, "."); idx != -1 {
		return col[idx+1:]
	}
	return col
}
