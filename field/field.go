// Package field provides typed column references for building relation
// customize predicates and selectors without raw strings. Fields are plain
// values constructed with WithColumn/WithTable; each predicate method
// returns a clause expression.
package field

import "github.com/arllen133/relq/clause"

// Field represents a column of any type. Use the typed variants (String,
// Number) when the value type is known.
type Field struct {
	column clause.Column
}

// Column returns the underlying column for this field.
func (f Field) Column() clause.Column { return f.column }

// ColumnName implements the clause.Columnar interface.
func (f Field) ColumnName() string {
	return f.column.ColumnName()
}

var _ clause.Columnar = Field{}

// WithColumn creates a new Field with the specified column name.
func (f Field) WithColumn(name string) Field {
	column := f.column
	column.Name = name
	return Field{column: column}
}

// WithTable creates a new Field with the specified table name.
func (f Field) WithTable(name string) Field {
	column := f.column
	column.Table = name
	return Field{column: column}
}

// Eq creates field = value.
func (f Field) Eq(value any) clause.Expression {
	return clause.Eq{Column: f.column, Value: value}
}

// Neq creates field <> value.
func (f Field) Neq(value any) clause.Expression {
	return clause.Neq{Column: f.column, Value: value}
}

// In creates field IN (values...).
func (f Field) In(values ...any) clause.Expression {
	return clause.IN{Column: f.column, Values: values}
}

// IsNull creates field IS NULL.
func (f Field) IsNull() clause.Expression {
	return clause.IsNull{Column: f.column}
}

// IsNotNull creates field IS NOT NULL.
func (f Field) IsNotNull() clause.Expression {
	return clause.IsNotNull{Column: f.column}
}

// InSub creates field IN (sub-query).
func (f Field) InSub(sub clause.Expression) clause.Expression {
	return clause.InSub{Column: f.column, Sub: sub}
}

// Asc creates an ascending ORDER BY term.
func (f Field) Asc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: f.column}
}

// Desc creates a descending ORDER BY term.
func (f Field) Desc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: f.column, Desc: true}
}
