// Package relq dialect abstraction. The relation layer needs exactly two
// things from an engine: its placeholder format (applied once, at the
// outermost query) and its pair of JSON aggregation primitives. Everything
// else about SQL generation is engine-agnostic.
package relq

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/relq/jsonagg"
)

// Dialect abstracts the engine differences the relation layer depends on.
type Dialect interface {
	// Name returns the database type name ("mysql", "postgres", "sqlite3"),
	// matching the driver name used to open connections.
	Name() string

	// PlaceholderFormat returns the engine's bind-placeholder format.
	PlaceholderFormat() sq.PlaceholderFormat

	// JSON returns the engine's JSON aggregation primitives.
	JSON() jsonagg.Dialect
}

var (
	SQLite     Dialect = SQLiteDialect{}
	MySQL      Dialect = MySQLDialect{}
	PostgreSQL Dialect = PostgreSQLDialect{}
)

// MySQLDialect implements Dialect for MySQL 8+.
type MySQLDialect struct{}

func (MySQLDialect) Name() string { return "mysql" }

func (MySQLDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }

func (MySQLDialect) JSON() jsonagg.Dialect { return jsonagg.MySQL }

// PostgreSQLDialect implements Dialect for PostgreSQL 12+.
type PostgreSQLDialect struct{}

func (PostgreSQLDialect) Name() string { return "postgres" }

func (PostgreSQLDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Dollar }

func (PostgreSQLDialect) JSON() jsonagg.Dialect { return jsonagg.Postgres }

// SQLiteDialect implements Dialect for SQLite with the json1 functions
// available (built in since SQLite 3.38, and enabled by default in
// mattn/go-sqlite3).
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite3" }

func (SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }

func (SQLiteDialect) JSON() jsonagg.Dialect { return jsonagg.SQLite }
