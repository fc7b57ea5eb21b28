package relq

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/codes"
)

// Executor is the read surface the session executes against. *sqlx.DB and
// *sqlx.Tx both satisfy it.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// Session is the execution collaborator compiled queries are handed to. The
// relation compiler never touches it: compilation is pure, and any runtime
// failure (connection loss, SQL errors) surfaces here unchanged from the
// driver. The session owns no relation state; it renders a SelectQuery with
// the engine's placeholder format and scans results.
type Session struct {
	db       *sqlx.DB
	executor Executor
	dialect  Dialect
	obs      *ObservabilityConfig
}

// NewSession wraps a database handle for the given dialect.
func NewSession(db *sql.DB, dialect Dialect, opts ...SessionOption) *Session {
	xdb := sqlx.NewDb(db, dialect.Name())
	s := &Session{
		db:       xdb,
		executor: xdb,
		dialect:  dialect,
		obs:      defaultObservabilityConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the session's engine dialect.
func (s *Session) Dialect() Dialect { return s.dialect }

// DB returns the underlying sqlx handle, for schema setup or raw statements
// outside the relation layer.
func (s *Session) DB() *sqlx.DB { return s.db }

// Query renders q for the session's engine and returns the raw rows. The
// caller owns the returned rows and must close them.
func (s *Session) Query(ctx context.Context, q SelectQuery) (*sql.Rows, error) {
	query, args, err := q.PlaceholderFormat(s.dialect.PlaceholderFormat()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("relq: failed to build sql: %w", err)
	}
	var rows *sql.Rows
	err = s.instrument(ctx, "query", query, func(ctx context.Context) error {
		var qerr error
		rows, qerr = s.executor.QueryContext(ctx, query, args...)
		return qerr
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Select renders q for the session's engine and scans all result rows into
// dest (a pointer to a slice). Relation columns scan through JSON[T].
func (s *Session) Select(ctx context.Context, dest any, q SelectQuery) error {
	query, args, err := q.PlaceholderFormat(s.dialect.PlaceholderFormat()).ToSQL()
	if err != nil {
		return fmt.Errorf("relq: failed to build sql: %w", err)
	}
	return s.instrument(ctx, "select", query, func(ctx context.Context) error {
		return s.executor.SelectContext(ctx, dest, query, args...)
	})
}

// Get renders q for the session's engine and scans a single result row into
// dest. Returns sql.ErrNoRows when nothing matches.
func (s *Session) Get(ctx context.Context, dest any, q SelectQuery) error {
	query, args, err := q.PlaceholderFormat(s.dialect.PlaceholderFormat()).ToSQL()
	if err != nil {
		return fmt.Errorf("relq: failed to build sql: %w", err)
	}
	return s.instrument(ctx, "get", query, func(ctx context.Context) error {
		return s.executor.GetContext(ctx, dest, query, args...)
	})
}

// instrument runs fn under a span, records metrics and logs the query.
func (s *Session) instrument(ctx context.Context, op, query string, fn func(context.Context) error) error {
	ctx, span := s.startSpan(ctx, "relq."+op)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	s.recordMetrics(ctx, op, duration, err)
	s.logQuery(ctx, op, query, duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("relq: query failed: %w", err)
	}
	return nil
}
