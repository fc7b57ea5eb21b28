package jsonagg

import "fmt"

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

// MySQL keeps the JSON type of nested values across derived tables, so no
// wrapping function is needed in the object pairs.

func (mysqlDialect) ObjectFrom(sub string, args []any, columns []Column) (string, []any, error) {
	pairs, err := objectPairs("obj", columns, "")
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("(SELECT JSON_OBJECT(%s) FROM (%s) AS obj)", pairs, sub), args, nil
}

func (mysqlDialect) ArrayFrom(sub string, args []any, columns []Column) (string, []any, error) {
	pairs, err := objectPairs("agg", columns, "")
	if err != nil {
		return "", nil, err
	}
	// JSON_ARRAYAGG returns NULL over an empty group; coalesce to [] and
	// cast so drivers hand the value back as JSON rather than a string.
	sql := fmt.Sprintf(
		"(SELECT CAST(COALESCE(JSON_ARRAYAGG(JSON_OBJECT(%s)), '[]') AS JSON) FROM (%s) AS agg)",
		pairs, sub,
	)
	return sql, args, nil
}
