package field

import (
	"github.com/arllen133/relq/clause"
	"golang.org/x/exp/constraints"
)

// Number represents a numeric column, parameterized over the Go value type.
type Number[T constraints.Integer | constraints.Float] struct {
	column clause.Column
}

// Column returns the underlying column for this field.
func (n Number[T]) Column() clause.Column { return n.column }

// ColumnName implements the clause.Columnar interface.
func (n Number[T]) ColumnName() string {
	return n.column.ColumnName()
}

var _ clause.Columnar = Number[int]{}

// WithColumn creates a new Number field with the specified column name.
func (n Number[T]) WithColumn(name string) Number[T] {
	column := n.column
	column.Name = name
	return Number[T]{column: column}
}

// WithTable creates a new Number field with the specified table name.
func (n Number[T]) WithTable(name string) Number[T] {
	column := n.column
	column.Table = name
	return Number[T]{column: column}
}

// Eq creates field = value.
func (n Number[T]) Eq(value T) clause.Expression {
	return clause.Eq{Column: n.column, Value: value}
}

// Neq creates field <> value.
func (n Number[T]) Neq(value T) clause.Expression {
	return clause.Neq{Column: n.column, Value: value}
}

// Gt creates field > value.
func (n Number[T]) Gt(value T) clause.Expression {
	return clause.Gt{Column: n.column, Value: value}
}

// Gte creates field >= value.
func (n Number[T]) Gte(value T) clause.Expression {
	return clause.Gte{Column: n.column, Value: value}
}

// Lt creates field < value.
func (n Number[T]) Lt(value T) clause.Expression {
	return clause.Lt{Column: n.column, Value: value}
}

// Lte creates field <= value.
func (n Number[T]) Lte(value T) clause.Expression {
	return clause.Lte{Column: n.column, Value: value}
}

// In creates field IN (values...).
func (n Number[T]) In(values ...T) clause.Expression {
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return clause.IN{Column: n.column, Values: anyValues}
}

// IsNull creates field IS NULL.
func (n Number[T]) IsNull() clause.Expression {
	return clause.IsNull{Column: n.column}
}

// IsNotNull creates field IS NOT NULL.
func (n Number[T]) IsNotNull() clause.Expression {
	return clause.IsNotNull{Column: n.column}
}

// InSub creates field IN (sub-query).
func (n Number[T]) InSub(sub clause.Expression) clause.Expression {
	return clause.InSub{Column: n.column, Sub: sub}
}

// Asc creates an ascending ORDER BY term.
func (n Number[T]) Asc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: n.column}
}

// Desc creates a descending ORDER BY term.
func (n Number[T]) Desc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: n.column, Desc: true}
}
