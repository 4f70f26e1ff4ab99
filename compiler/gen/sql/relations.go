package sql

import (
	"fmt"

	"github.com/syssam/entityc/compiler/gen"
)

// BelongsTo synthesizes the parent lookup of a relation field. The parent
// table is the naive plural of the target entity name in the public
// namespace; relation references resolve by name only, with no cross-entity
// validation.
func (b *Builder) BelongsTo(f *gen.Field) Operation {
	sql := fmt.Sprintf("SELECT * FROM public.%ss WHERE id = %s",
		gen.Snake(f.BelongsTo()), b.entity.Dialect().Placeholder(1))
	return Operation{
		Name:      "find_" + gen.Snake(f.BelongsTo()),
		Statement: Statement{SQL: sql, Binds: []Bind{{Field: f.Name(), Column: f.Name()}}},
		Result:    ResultRows,
	}
}

// HasMany synthesizes the child listing of a one-to-many target. The child
// table and foreign-key column are derived from the entity names.
func (b *Builder) HasMany(target string) Operation {
	e := b.entity
	child := gen.Snake(target)
	sql := fmt.Sprintf("SELECT * FROM public.%ss WHERE %s_id = %s",
		child, gen.Snake(e.Name()), e.Dialect().Placeholder(1))
	return Operation{
		Name:      "list_" + child + "s",
		Statement: Statement{SQL: sql, Binds: []Bind{b.idBind()}},
		Result:    ResultRows,
	}
}

// Projection synthesizes the partial read of a named field subset. The
// deletion marker is not consulted; a projection can read soft-deleted
// rows.
func (b *Builder) Projection(p gen.Projection) Operation {
	cols := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		cols[i] = f.Name()
	}
	return Operation{
		Name:      "find_" + p.Name,
		Statement: Statement{SQL: b.selectByID(cols), Binds: []Bind{b.idBind()}},
		Result:    ResultRows,
	}
}

// Relations returns the relation and projection operations of the entity in
// declaration order.
func (b *Builder) Relations() []Operation {
	e := b.entity
	var ops []Operation
	for _, f := range e.RelationFields() {
		ops = append(ops, b.BelongsTo(f))
	}
	for _, target := range e.OneToMany() {
		ops = append(ops, b.HasMany(target))
	}
	for _, p := range e.Projections() {
		ops = append(ops, b.Projection(p))
	}
	return ops
}
