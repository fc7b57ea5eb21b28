package jsonagg

import "fmt"

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite3" }

// Nested JSON values must pass through json() or json_object would embed
// them as escaped strings once the subtype is lost across the derived table.

func (sqliteDialect) ObjectFrom(sub string, args []any, columns []Column) (string, []any, error) {
	pairs, err := objectPairs("obj", columns, "json")
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("(SELECT json_object(%s) FROM (%s) AS obj)", pairs, sub), args, nil
}

func (sqliteDialect) ArrayFrom(sub string, args []any, columns []Column) (string, []any, error) {
	pairs, err := objectPairs("agg", columns, "json")
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf(
		"(SELECT COALESCE(json_group_array(json_object(%s)), '[]') FROM (%s) AS agg)",
		pairs, sub,
	)
	return sql, args, nil
}
