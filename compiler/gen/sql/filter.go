package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/entityc/compiler/gen"
	"github.com/syssam/entityc/schema/field"
)

// Default paging applied when a filter request leaves limit/offset unset.
const (
	DefaultFilterLimit  = 100
	DefaultFilterOffset = 0
)

// FilterInput carries the values of one dynamic filter request, keyed by
// declared field name. Absent keys contribute no condition.
type FilterInput struct {
	// Eq holds equality values for fields declaring an eq filter.
	Eq map[string]any
	// Like holds raw substring values for fields declaring a like filter.
	// Values are escaped and wrapped in wildcards during planning.
	Like map[string]string
	// From and To hold the independent lower and upper bounds for fields
	// declaring a range filter.
	From map[string]any
	To   map[string]any
	// Limit and Offset page the result. Zero or negative limit falls back
	// to the default.
	Limit  int
	Offset int
}

// FilterPlan synthesizes the dynamic filter query of one entity. Conditions
// follow field declaration order and placeholder indices are assigned
// sequentially to the values actually supplied.
type FilterPlan struct {
	entity *gen.Entity
}

// Filter returns the dynamic filter plan of the entity.
func (b *Builder) Filter() *FilterPlan {
	return &FilterPlan{entity: b.entity}
}

// Build renders the filter query and its bind values for one request. The
// deletion-marker condition always comes first on soft-delete entities.
func (p *FilterPlan) Build(in FilterInput) (string, []any) {
	e := p.entity
	d := e.Dialect()
	var (
		conds []string
		args  []any
	)
	next := func() string { return d.Placeholder(len(args) + 1) }

	if e.SoftDelete() {
		conds = append(conds, "deleted_at IS NULL")
	}
	for _, f := range e.FilterFields() {
		name, col := f.Name(), f.Name()
		switch f.Filter() {
		case field.FilterEq:
			if v, ok := in.Eq[name]; ok {
				conds = append(conds, fmt.Sprintf("%s = %s", col, next()))
				args = append(args, v)
			}
		case field.FilterLike:
			if v, ok := in.Like[name]; ok {
				conds = append(conds, fmt.Sprintf("%s ILIKE %s", col, next()))
				args = append(args, "%"+escapeLike(v)+"%")
			}
		case field.FilterRange:
			if v, ok := in.From[name]; ok {
				conds = append(conds, fmt.Sprintf("%s >= %s", col, next()))
				args = append(args, v)
			}
			if v, ok := in.To[name]; ok {
				conds = append(conds, fmt.Sprintf("%s <= %s", col, next()))
				args = append(args, v)
			}
		}
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultFilterLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = DefaultFilterOffset
	}
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY %s DESC LIMIT %s OFFSET %s",
		strings.Join(responseColumns(e), ", "), e.TableQualifiedName(), where,
		e.IdentityField().Name(), next(), d.Placeholder(len(args)+2))
	args = append(args, limit, offset)
	return query, args
}

// escapeLike escapes the LIKE metacharacters of a raw substring so user
// input matches literally.
func escapeLike(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
