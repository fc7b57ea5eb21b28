package field

import "github.com/arllen133/relq/clause"

// String represents a string-valued column.
type String struct {
	column clause.Column
}

// Column returns the underlying column for this field.
func (s String) Column() clause.Column { return s.column }

// ColumnName implements the clause.Columnar interface.
func (s String) ColumnName() string {
	return s.column.ColumnName()
}

var _ clause.Columnar = String{}

// WithColumn creates a new String field with the specified column name.
func (s String) WithColumn(name string) String {
	column := s.column
	column.Name = name
	return String{column: column}
}

// WithTable creates a new String field with the specified table name.
func (s String) WithTable(name string) String {
	column := s.column
	column.Table = name
	return String{column: column}
}

// Eq creates field = value.
func (s String) Eq(value string) clause.Expression {
	return clause.Eq{Column: s.column, Value: value}
}

// Neq creates field <> value.
func (s String) Neq(value string) clause.Expression {
	return clause.Neq{Column: s.column, Value: value}
}

// Like creates field LIKE pattern.
func (s String) Like(pattern string) clause.Expression {
	return clause.Like{Column: s.column, Value: pattern}
}

// In creates field IN (values...).
func (s String) In(values ...string) clause.Expression {
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return clause.IN{Column: s.column, Values: anyValues}
}

// IsNull creates field IS NULL.
func (s String) IsNull() clause.Expression {
	return clause.IsNull{Column: s.column}
}

// IsNotNull creates field IS NOT NULL.
func (s String) IsNotNull() clause.Expression {
	return clause.IsNotNull{Column: s.column}
}

// InSub creates field IN (sub-query).
func (s String) InSub(sub clause.Expression) clause.Expression {
	return clause.InSub{Column: s.column, Sub: sub}
}

// Asc creates an ascending ORDER BY term.
func (s String) Asc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: s.column}
}

// Desc creates a descending ORDER BY term.
func (s String) Desc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: s.column, Desc: true}
}
