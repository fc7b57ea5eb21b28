// Package clause defines the SQL expression nodes shared by the query
// builder and the relation compiler. Every node implements Expression and
// renders itself to a SQL fragment with ?-style placeholders; placeholder
// rewriting for a concrete engine happens once, at the outermost query.
package clause

import (
	"fmt"
	"strings"
)

// Columnar is implemented by anything that can name a column.
type Columnar interface {
	ColumnName() string
}

// Column represents a database column with an optional table qualifier.
type Column struct {
	Table string
	Name  string
}

func (c Column) Column() Column { return c }

// ColumnName returns the column name, table-qualified if a table is set.
func (c Column) ColumnName() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}

var _ Columnar = Column{}

// Expression is the base interface for all SQL expressions.
type Expression interface {
	Build() (sql string, args []any, err error)
}

// compare renders a binary comparison against a bound value.
func compare(c Column, op string, value any) (string, []any, error) {
	return c.ColumnName() + " " + op + " ?", []any{value}, nil
}

// Eq represents column = value.
type Eq struct {
	Column Column
	Value  any
}

func (e Eq) Build() (string, []any, error) { return compare(e.Column, "=", e.Value) }

// Neq represents column <> value.
type Neq struct {
	Column Column
	Value  any
}

func (n Neq) Build() (string, []any, error) { return compare(n.Column, "<>", n.Value) }

// Gt represents column > value.
type Gt struct {
	Column Column
	Value  any
}

func (g Gt) Build() (string, []any, error) { return compare(g.Column, ">", g.Value) }

// Gte represents column >= value.
type Gte struct {
	Column Column
	Value  any
}

func (g Gte) Build() (string, []any, error) { return compare(g.Column, ">=", g.Value) }

// Lt represents column < value.
type Lt struct {
	Column Column
	Value  any
}

func (l Lt) Build() (string, []any, error) { return compare(l.Column, "<", l.Value) }

// Lte represents column <= value.
type Lte struct {
	Column Column
	Value  any
}

func (l Lte) Build() (string, []any, error) { return compare(l.Column, "<=", l.Value) }

// Like represents column LIKE pattern.
type Like struct {
	Column Column
	Value  string
}

func (l Like) Build() (string, []any, error) { return compare(l.Column, "LIKE", l.Value) }

// IsNull represents column IS NULL.
type IsNull struct {
	Column Column
}

func (i IsNull) Build() (string, []any, error) {
	return i.Column.ColumnName() + " IS NULL", nil, nil
}

// IsNotNull represents column IS NOT NULL.
type IsNotNull struct {
	Column Column
}

func (i IsNotNull) Build() (string, []any, error) {
	return i.Column.ColumnName() + " IS NOT NULL", nil, nil
}

// IN represents column IN (values...). An empty value list is always false.
type IN struct {
	Column Column
	Values []any
}

func (i IN) Build() (string, []any, error) {
	switch len(i.Values) {
	case 0:
		return "1 = 0", nil, nil
	case 1:
		return compare(i.Column, "=", i.Values[0])
	default:
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(i.Values)), ", ")
		return fmt.Sprintf("%s IN (%s)", i.Column.ColumnName(), placeholders), i.Values, nil
	}
}

// And joins expressions with AND. Empty And is always true.
type And []Expression

func (a And) Build() (string, []any, error) { return joinExprs(a, " AND ", "1 = 1") }

// Or joins expressions with OR. Empty Or is always false.
type Or []Expression

func (o Or) Build() (string, []any, error) { return joinExprs(o, " OR ", "1 = 0") }

func joinExprs(exprs []Expression, sep, empty string) (string, []any, error) {
	if len(exprs) == 0 {
		return empty, nil, nil
	}
	parts := make([]string, 0, len(exprs))
	var args []any
	for _, expr := range exprs {
		sql, exprArgs, err := expr.Build()
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		args = append(args, exprArgs...)
	}
	return strings.Join(parts, sep), args, nil
}

// Not negates an expression.
type Not struct {
	Expr Expression
}

func (n Not) Build() (string, []any, error) {
	sql, args, err := n.Expr.Build()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

// Expr is a raw SQL fragment with bound variables.
type Expr struct {
	SQL  string
	Vars []any
}

func (e Expr) Build() (string, []any, error) { return e.SQL, e.Vars, nil }

// OrderByColumn represents one ORDER BY term.
type OrderByColumn struct {
	Column Column
	Desc   bool
}

func (o OrderByColumn) Build() (string, []any, error) {
	sql := o.Column.ColumnName()
	if o.Desc {
		sql += " DESC"
	}
	return sql, nil, nil
}

// Ref is an opaque reference to a column of an enclosing query's row. It
// renders as a bare column reference and carries no bound values, which is
// what makes it usable as a correlation anchor inside a sub-query.
type Ref struct {
	Column Column
}

func (r Ref) Build() (string, []any, error) {
	return r.Column.ColumnName(), nil, nil
}

// EqExpr represents column = (opaque expression). The expression is rendered
// inline rather than bound as a value; it is typically a Ref to an enclosing
// row's column.
type EqExpr struct {
	Column Column
	Expr   Expression
}

func (e EqExpr) Build() (string, []any, error) {
	sql, args, err := e.Expr.Build()
	if err != nil {
		return "", nil, err
	}
	return e.Column.ColumnName() + " = " + sql, args, nil
}

// InSub represents column IN (sub-query).
type InSub struct {
	Column Column
	Sub    Expression
}

func (i InSub) Build() (string, []any, error) {
	sql, args, err := i.Sub.Build()
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s IN (%s)", i.Column.ColumnName(), sql), args, nil
}

// Aliased attaches an output name to an expression for use in a projection
// list. The wrapped expression is expected to be self-delimiting (a
// parenthesized sub-select or a plain column reference).
type Aliased struct {
	Expr Expression
	As   string
}

func (a Aliased) Build() (string, []any, error) {
	sql, args, err := a.Expr.Build()
	if err != nil {
		return "", nil, err
	}
	return sql + " AS " + a.As, args, nil
}
