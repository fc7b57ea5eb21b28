// Package relq is a declarative relation-definition layer on top of a
// relational query builder. Callers describe one-to-one, one-to-many and
// many-to-many (through a junction table) relationships between tables once,
// and embed them as correlated sub-selects inside a parent query's
// projection, where each relation becomes a single JSON-valued column per
// parent row.
//
// The package splits into two halves. SelectQuery is the host query-builder
// surface: an immutable query-expression value built on squirrel that the
// relation compiler transforms through well-defined stages (base →
// customized → correlated → aggregated → aliased). The relation compiler
// itself (relation.go, compile.go) is a pure expression-tree transformer: it
// performs no I/O and produces the same sub-query tree for equivalent inputs
// every time it is invoked.
package relq

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/relq/clause"
	"github.com/arllen133/relq/jsonagg"
)

// SelectQuery is an immutable SELECT query value. Every method returns a new
// value; a SelectQuery can therefore be held as a template and specialized
// many times without cross-contamination, which is what the relation
// compiler relies on when it re-correlates a base query per invocation.
//
// Placeholders are rendered in ? form; the engine's placeholder format is
// applied once, by PlaceholderFormat on the outermost query (nested
// sub-queries are rewritten together with their parent).
type SelectQuery struct {
	table   string
	columns []string
	exprs   []clause.Expression
	keys    []jsonagg.Column
	builder sq.SelectBuilder
	format  sq.PlaceholderFormat
	err     error
}

// From starts a query rooted at the named table with no explicit projection
// (SELECT *).
func From(table string) SelectQuery {
	return SelectQuery{
		table:   table,
		builder: sq.Select().From(table),
	}
}

// Table returns the table the query is rooted at.
func (q SelectQuery) Table() string { return q.table }

// Select replaces the projection with the given columns.
func (q SelectQuery) Select(columns ...clause.Columnar) SelectQuery {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = c.ColumnName()
	}
	q.columns = cols
	return q
}

// SelectAs adds a single aliased column to the projection.
func (q SelectQuery) SelectAs(column clause.Columnar, alias string) SelectQuery {
	return q.SelectExpr(clause.Aliased{
		Expr: clause.Ref{Column: clause.Column{Name: column.ColumnName()}},
		As:   alias,
	})
}

// SelectExpr appends an expression column to the projection. The expression
// is rendered lazily, when the query itself is rendered. Expressions that
// will later be JSON-aggregated should carry an output name (clause.Aliased)
// so that object keys can be derived for engines that need them.
func (q SelectQuery) SelectExpr(exprs ...clause.Expression) SelectQuery {
	for _, e := range exprs {
		q.exprs = appendCopy(q.exprs, e)
		if a, ok := e.(clause.Aliased); ok {
			_, isJSON := a.Expr.(aggregateExpr)
			q.keys = appendCopy(q.keys, jsonagg.Column{Name: a.As, JSON: isJSON})
		}
	}
	return q
}

// Where adds a filter; repeated calls are joined with AND.
func (q SelectQuery) Where(expr clause.Expression) SelectQuery {
	if q.err != nil {
		return q
	}
	sql, args, err := expr.Build()
	if err != nil {
		q.err = err
		return q
	}
	q.builder = q.builder.Where(sq.Expr(sql, args...))
	return q
}

// OrderBy appends ORDER BY terms.
func (q SelectQuery) OrderBy(orders ...clause.OrderByColumn) SelectQuery {
	if q.err != nil {
		return q
	}
	for _, order := range orders {
		sql, _, err := order.Build()
		if err != nil {
			q.err = err
			return q
		}
		q.builder = q.builder.OrderBy(sql)
	}
	return q
}

// Limit caps the number of rows returned.
func (q SelectQuery) Limit(n uint64) SelectQuery {
	q.builder = q.builder.Limit(n)
	return q
}

// Offset skips the first n rows.
func (q SelectQuery) Offset(n uint64) SelectQuery {
	q.builder = q.builder.Offset(n)
	return q
}

// Distinct adds DISTINCT to the projection.
func (q SelectQuery) Distinct() SelectQuery {
	q.builder = q.builder.Distinct()
	return q
}

// PlaceholderFormat sets the placeholder format used when the query is
// rendered. Only the outermost query needs one; nested sub-queries are
// rewritten along with it.
func (q SelectQuery) PlaceholderFormat(f sq.PlaceholderFormat) SelectQuery {
	q.format = f
	return q
}

// WithRelation invokes compiled relations against this query and adds the
// resulting aliased JSON columns to the projection. The expression-building
// context handed to each relation is bound to this query's table, which is
// how the correlation anchor ends up referencing this query's rows. It is
// equally the nesting entry point: a relation's column selector can call
// WithRelation on the sub-query it is given.
func (q SelectQuery) WithRelation(rels ...CompiledRelation) SelectQuery {
	ctx := Context(q.table)
	for _, rel := range rels {
		q = q.SelectExpr(rel(ctx))
	}
	return q
}

// ToSQL renders the query to SQL and bound args without executing it.
func (q SelectQuery) ToSQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	b := q.builder
	if q.format != nil {
		b = b.PlaceholderFormat(q.format)
	}
	if len(q.columns) == 0 && len(q.exprs) == 0 {
		b = b.Columns("*")
	} else {
		b = b.Columns(q.columns...)
	}
	for _, e := range q.exprs {
		sql, args, err := e.Build()
		if err != nil {
			return "", nil, fmt.Errorf("relq: failed to build projection expression: %w", err)
		}
		b = b.Column(sq.Expr(sql, args...))
	}
	return b.ToSql()
}

// Build implements clause.Expression, letting a SelectQuery appear wherever
// a sub-query expression is accepted.
func (q SelectQuery) Build() (string, []any, error) {
	return q.ToSQL()
}

var _ clause.Expression = SelectQuery{}

// selectedColumns reports the query's projection for JSON-object key
// derivation: the plain selected columns followed by the output names of
// aliased expression columns, nested relations flagged as JSON documents.
// Empty means SELECT *.
func (q SelectQuery) selectedColumns() []jsonagg.Column {
	if len(q.columns) == 0 && len(q.keys) == 0 {
		return nil
	}
	out := make([]jsonagg.Column, 0, len(q.columns)+len(q.keys))
	for _, c := range q.columns {
		out = append(out, jsonagg.Column{Name: c})
	}
	out = append(out, q.keys...)
	return out
}

// appendCopy appends without sharing backing storage between derived query
// values.
func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}
