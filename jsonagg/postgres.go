package jsonagg

import "fmt"

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) ObjectFrom(sub string, args []any, _ []Column) (string, []any, error) {
	// Scalar sub-select: to_json over the row alias yields NULL when the
	// sub-select produces no rows. Works for any projection, * included.
	return fmt.Sprintf("(SELECT to_json(obj) FROM (%s) AS obj)", sub), args, nil
}

func (postgresDialect) ArrayFrom(sub string, args []any, _ []Column) (string, []any, error) {
	return fmt.Sprintf("(SELECT COALESCE(json_agg(agg), '[]'::json) FROM (%s) AS agg)", sub), args, nil
}
