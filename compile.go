package relq

import (
	"fmt"

	"github.com/arllen133/relq/clause"
	"github.com/arllen133/relq/jsonagg"
)

// Kind is the relation kind. It determines which resolver correlates the
// sub-query and how the correlated rows are aggregated into a JSON value.
type Kind int

const (
	// HasOne aggregates into a single JSON object; NULL when no row matches.
	HasOne Kind = iota

	// HasOneNotNull is HasOne with a caller-asserted non-null contract. The
	// assertion is not enforced at runtime: zero matches still yield NULL.
	HasOneNotNull

	// HasMany aggregates into a JSON array; empty array when nothing matches.
	HasMany

	// HasManyThrough is HasMany correlated through a junction table.
	HasManyThrough
)

func (k Kind) String() string {
	switch k {
	case HasOne:
		return "hasOne"
	case HasOneNotNull:
		return "hasOneNotNull"
	case HasMany:
		return "hasMany"
	case HasManyThrough:
		return "hasManyThrough"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Selector is the caller-supplied column/shape selector: it maps the
// relation's correlated sub-query to the projection each related row should
// have: a column subset, computed columns, or further nested relations (via
// SelectQuery.WithRelation). A nil Selector keeps the sub-query's SELECT *,
// which only Postgres can aggregate.
type Selector func(SelectQuery) SelectQuery

// CompiledRelation is the compiled artifact: applied to an
// expression-building context bound to a parent query, it yields the aliased
// JSON aggregate expression for that parent's projection. It is stateless:
// each invocation re-derives the correlation from the given context and
// reconstructs the sub-query tree fresh, so one compiled relation can be
// reused across many parent queries and nested inside other relations.
type CompiledRelation func(*ExprContext) clause.Expression

// ExprContext is the expression-building context bound to an enclosing
// query. It resolves column references against that query's table.
type ExprContext struct {
	table string
}

// Context returns an expression-building context bound to the named table
// (or table alias).
func Context(table string) *ExprContext {
	return &ExprContext{table: table}
}

// Table returns the table the context is bound to.
func (c *ExprContext) Table() string { return c.table }

// Ref returns an opaque reference to a column of the enclosing row. The
// context's table takes precedence over the column's own qualifier, which is
// what lets one compiled relation be reused against differently named but
// shape-compatible parent contexts.
func (c *ExprContext) Ref(col clause.Column) clause.Expression {
	if c != nil && c.table != "" {
		col.Table = c.table
	}
	return clause.Ref{Column: col}
}

// Relations is the relation-declaration factory, parameterized once per
// database engine with the dialect whose JSON aggregation pair compiled
// relations will use.
type Relations struct {
	dialect Dialect
}

// NewRelations returns a declaration factory for the given engine dialect.
func NewRelations(d Dialect) *Relations {
	return &Relations{dialect: d}
}

// Define is the per-table declaration entry point. The define function
// receives the four relation constructors bound to the given table and
// returns whatever shape it likes, typically a struct of named
// CompiledRelations:
//
//	rels := relq.Define(r, "users", func(d *relq.Declare) userRels {
//		return userRels{
//			Profile: d.HasOne("profile", relq.RelationConfig{
//				Target:    "profiles",
//				Column:    clause.Column{Name: "id"},
//				Reference: clause.Column{Name: "user_id"},
//			})(selectProfile),
//			Posts: d.HasMany("posts", ...)(selectPost),
//		}
//	})
func Define[R any](r *Relations, table string, define func(*Declare) R) R {
	return define(&Declare{table: table, json: r.dialect.JSON()})
}

// Declare carries the four relation constructors for one declaring table.
type Declare struct {
	table string
	json  jsonagg.Dialect
}

// Table returns the declaring table.
func (d *Declare) Table() string { return d.table }

// HasOne declares a nullable single-row relation: one JSON object per parent
// row, NULL when no target row matches.
func (d *Declare) HasOne(name string, cfg RelationConfig, customize ...Customize) func(Selector) CompiledRelation {
	return d.relation(HasOne, name, cfg.Column, resolveSimple(cfg, firstCustomize(customize)))
}

// HasOneNotNull declares a single-row relation the caller asserts always
// matches. The assertion is a declaration-time contract only; at runtime the
// behavior is identical to HasOne and zero matches still produce NULL.
func (d *Declare) HasOneNotNull(name string, cfg RelationConfig, customize ...Customize) func(Selector) CompiledRelation {
	return d.relation(HasOneNotNull, name, cfg.Column, resolveSimple(cfg, firstCustomize(customize)))
}

// HasMany declares a multi-row relation: a JSON array per parent row, empty
// when no target row matches.
func (d *Declare) HasMany(name string, cfg RelationConfig, customize ...Customize) func(Selector) CompiledRelation {
	return d.relation(HasMany, name, cfg.Column, resolveSimple(cfg, firstCustomize(customize)))
}

// HasManyThrough declares a multi-row relation correlated through a junction
// table. An empty junction match yields an empty array, never NULL.
func (d *Declare) HasManyThrough(name string, cfg ThroughRelationConfig, customize ...Customize) func(Selector) CompiledRelation {
	return d.relation(HasManyThrough, name, cfg.Column, resolveThrough(cfg, firstCustomize(customize)))
}

func (d *Declare) relation(kind Kind, name string, anchor clause.Column, correlate correlateFunc) func(Selector) CompiledRelation {
	anchor = qualify(anchor, d.table)
	return func(sel Selector) CompiledRelation {
		p := relationPlan{
			kind:      kind,
			name:      name,
			anchor:    anchor,
			correlate: correlate,
			selector:  sel,
			json:      d.json,
		}
		return p.compile()
	}
}

func firstCustomize(customize []Customize) Customize {
	if len(customize) == 0 {
		return nil
	}
	return customize[0]
}

// relationPlan is the inspectable middle form between declaration and
// invocation: kind, output name, correlation anchor and template, shape
// selector, and the engine's aggregation pair. Compilation consumes a plan;
// invocation re-derives everything per call from the plan's immutable
// fields.
type relationPlan struct {
	kind      Kind
	name      string
	anchor    clause.Column
	correlate correlateFunc
	selector  Selector
	json      jsonagg.Dialect
}

func (p relationPlan) compile() CompiledRelation {
	return func(ctx *ExprContext) clause.Expression {
		sub := p.correlate(ctx.Ref(p.anchor))
		if p.selector != nil {
			sub = p.selector(sub)
		}
		return clause.Aliased{
			Expr: aggregateExpr{kind: p.kind, name: p.name, sub: sub, json: p.json},
			As:   p.name,
		}
	}
}

// aggregateExpr wraps a correlated sub-query in the kind-appropriate JSON
// aggregation. Rendering is deferred to Build so that a compiled relation's
// expression stays a pure tree until the outermost query is rendered.
type aggregateExpr struct {
	kind Kind
	name string
	sub  SelectQuery
	json jsonagg.Dialect
}

func (a aggregateExpr) Build() (string, []any, error) {
	sub, args, err := a.sub.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("relq: relation %q: %w", a.name, err)
	}

	var sql string
	switch a.kind {
	case HasOne, HasOneNotNull:
		sql, args, err = a.json.ObjectFrom(sub, args, a.sub.selectedColumns())
	case HasMany, HasManyThrough:
		sql, args, err = a.json.ArrayFrom(sub, args, a.sub.selectedColumns())
	default:
		err = fmt.Errorf("unknown relation kind %v", a.kind)
	}
	if err != nil {
		return "", nil, fmt.Errorf("relq: relation %q: %w", a.name, err)
	}
	return sql, args, nil
}
