package relq

import (
	"github.com/arllen133/relq/clause"
)

// RelationConfig identifies the target table of a relation and the equality
// correlation between the declaring table's column and the target's
// reference column. It is immutable once constructed and supplied entirely
// at declaration time.
type RelationConfig struct {
	// Target is the table the related rows come from.
	Target string

	// Column is the correlation endpoint on the declaring (parent) table,
	// usually its primary key. An empty table qualifier defaults to the
	// declaring table.
	Column clause.Column

	// Reference is the column on Target matched against Column, usually a
	// foreign key. An empty table qualifier defaults to Target.
	Reference clause.Column
}

// ThroughRelationConfig describes a two-hop correlation via a junction
// table: parent rows correlate to junction rows through ThroughColumn, and
// junction rows correlate to target rows through ThroughReference matched
// against Reference.
type ThroughRelationConfig struct {
	RelationConfig

	// Through is the junction table.
	Through string

	// ThroughColumn is the junction column holding the parent key. An empty
	// table qualifier defaults to Through.
	ThroughColumn clause.Column

	// ThroughReference is the junction column holding the target key. An
	// empty table qualifier defaults to Through.
	ThroughReference clause.Column
}

// Customize narrows a relation's base query before correlation is applied,
// e.g. with an additional filter. It is applied exactly once, to the target
// table's query only: for through relations it never sees the junction
// query, so a customized filter cannot pick up join fan-out from the
// junction side.
type Customize func(SelectQuery) SelectQuery

// correlateFunc is a correlation-parameterized sub-query template: given an
// opaque expression referencing the enclosing row (typically a clause.Ref to
// the parent's key column), it returns the fully filtered sub-query rooted
// at the relation's target table. The function is total for any expression
// of the right shape; the expression is never inspected.
type correlateFunc func(expr clause.Expression) SelectQuery

// resolveSimple turns a single-hop relation configuration into a correlation
// template: base query over the target, customized once, then filtered with
// reference = expr.
func resolveSimple(cfg RelationConfig, customize Customize) correlateFunc {
	base := From(cfg.Target)
	if customize != nil {
		base = customize(base)
	}
	reference := qualify(cfg.Reference, cfg.Target)
	return func(expr clause.Expression) SelectQuery {
		return base.Where(clause.EqExpr{Column: reference, Expr: expr})
	}
}

// resolveThrough turns a junction-hop configuration into a correlation
// template. The junction is consulted through a nested IN sub-query rather
// than a join: the target-side customization and the junction-side
// correlation stay fully decoupled, and duplicate junction rows cannot fan
// out into duplicate target rows.
func resolveThrough(cfg ThroughRelationConfig, customize Customize) correlateFunc {
	base := From(cfg.Target)
	if customize != nil {
		base = customize(base)
	}
	reference := qualify(cfg.Reference, cfg.Target)
	throughColumn := qualify(cfg.ThroughColumn, cfg.Through)
	throughReference := qualify(cfg.ThroughReference, cfg.Through)
	return func(expr clause.Expression) SelectQuery {
		junction := From(cfg.Through).
			Select(throughReference).
			Where(clause.EqExpr{Column: throughColumn, Expr: expr})
		return base.Where(clause.InSub{Column: reference, Sub: junction})
	}
}

// qualify fills in a column's table qualifier when the caller left it empty.
func qualify(col clause.Column, table string) clause.Column {
	if col.Table == "" {
		col.Table = table
	}
	return col
}
