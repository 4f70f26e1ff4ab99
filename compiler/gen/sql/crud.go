package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/entityc/compiler/gen"
)

// Create synthesizes the insert statement. The column list covers all
// fields, identity and generated included, since their values are filled by
// policy before the statement runs. The read-back branches on the returning
// policy: only the full policy scans the RETURNING row; the identity, none
// and column-list policies build the result from the request values, so a
// column-list policy requests columns it never reads.
func (b *Builder) Create() Operation {
	e := b.entity
	d := e.Dialect()
	fields := e.AllFields()
	cols := make([]string, len(fields))
	binds := make([]Bind, len(fields))
	for i, f := range fields {
		cols[i] = f.Name()
		binds[i] = Bind{Field: f.Name(), Column: f.Name()}
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		e.TableQualifiedName(), strings.Join(cols, ", "), d.Placeholders(len(cols)))

	result := ResultFromInput
	switch ret := e.Returning(); ret.Kind {
	case gen.ReturningFull:
		sql += " RETURNING *"
		result = ResultRowFromReturning
	case gen.ReturningIdentity:
		sql += " RETURNING " + e.IdentityField().Name()
	case gen.ReturningColumns:
		sql += " RETURNING " + strings.Join(ret.Columns, ", ")
	}
	return Operation{
		Name:      "create",
		Statement: Statement{SQL: sql, Binds: binds},
		Result:    result,
	}
}

// Find synthesizes the read-by-identity statement over the response
// columns. Soft-delete entities exclude marked rows.
func (b *Builder) Find() Operation {
	e := b.entity
	sql := b.selectByID(responseColumns(e))
	if e.SoftDelete() {
		sql += " AND deleted_at IS NULL"
	}
	return Operation{
		Name:      "find",
		Statement: Statement{SQL: sql, Binds: []Bind{b.idBind()}},
		Result:    ResultRows,
	}
}

// FindWithDeleted synthesizes the read-by-identity statement without the
// deletion-marker filter.
func (b *Builder) FindWithDeleted() Operation {
	return Operation{
		Name:      "find_with_deleted",
		Statement: Statement{SQL: b.selectByID(responseColumns(b.entity)), Binds: []Bind{b.idBind()}},
		Result:    ResultRows,
	}
}

// Update synthesizes the update statement over the update-exposed fields.
// The full returning policy reads the row back via RETURNING. The
// column-list policy appends its RETURNING clause but still re-reads by
// identity, so the requested columns are never scanned. The identity and
// none policies re-read by identity with no RETURNING.
func (b *Builder) Update() Operation {
	e := b.entity
	d := e.Dialect()
	fields := e.UpdateFields()
	cols := make([]string, len(fields))
	binds := make([]Bind, 0, len(fields)+1)
	for i, f := range fields {
		cols[i] = f.Name()
		binds = append(binds, Bind{Field: f.Name(), Column: f.Name()})
	}
	id := e.IdentityField().Name()
	binds = append(binds, b.idBind())
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		e.TableQualifiedName(), d.Assignments(cols, 1), id, d.Placeholder(len(cols)+1))

	result := ResultReadAfterWrite
	switch ret := e.Returning(); ret.Kind {
	case gen.ReturningFull:
		sql += " RETURNING *"
		result = ResultRowFromReturning
	case gen.ReturningColumns:
		sql += " RETURNING " + strings.Join(ret.Columns, ", ")
	}
	return Operation{
		Name:      "update",
		Statement: Statement{SQL: sql, Binds: binds},
		Result:    result,
	}
}

// Delete synthesizes the delete statement: a marker update for soft-delete
// entities, a physical delete otherwise. The result reduces to "at least
// one row affected".
func (b *Builder) Delete() Operation {
	e := b.entity
	var sql string
	if e.SoftDelete() {
		sql = fmt.Sprintf("UPDATE %s SET deleted_at = NOW() WHERE %s = %s AND deleted_at IS NULL",
			e.TableQualifiedName(), e.IdentityField().Name(), e.Dialect().Placeholder(1))
	} else {
		sql = b.physicalDelete()
	}
	return Operation{
		Name:      "delete",
		Statement: Statement{SQL: sql, Binds: []Bind{b.idBind()}},
		Result:    ResultRowsAffected,
	}
}

// HardDelete always synthesizes the physical delete, regardless of the
// marker state. It is only exposed on soft-delete entities.
func (b *Builder) HardDelete() Operation {
	return Operation{
		Name:      "hard_delete",
		Statement: Statement{SQL: b.physicalDelete(), Binds: []Bind{b.idBind()}},
		Result:    ResultRowsAffected,
	}
}

// Restore reverses the deletion marker of a soft-deleted row.
func (b *Builder) Restore() Operation {
	e := b.entity
	sql := fmt.Sprintf("UPDATE %s SET deleted_at = NULL WHERE %s = %s AND deleted_at IS NOT NULL",
		e.TableQualifiedName(), e.IdentityField().Name(), e.Dialect().Placeholder(1))
	return Operation{
		Name:      "restore",
		Statement: Statement{SQL: sql, Binds: []Bind{b.idBind()}},
		Result:    ResultRowsAffected,
	}
}

// List synthesizes the paged listing over the response columns, newest
// identity first. Soft-delete entities exclude marked rows.
func (b *Builder) List() Operation {
	return b.list("list", b.entity.SoftDelete())
}

// ListWithDeleted synthesizes the paged listing without the deletion-marker
// filter.
func (b *Builder) ListWithDeleted() Operation {
	return b.list("list_with_deleted", false)
}

func (b *Builder) list(name string, markerFilter bool) Operation {
	e := b.entity
	d := e.Dialect()
	where := ""
	if markerFilter {
		where = "WHERE deleted_at IS NULL "
	}
	sql := fmt.Sprintf("SELECT %s FROM %s %sORDER BY %s DESC LIMIT %s OFFSET %s",
		strings.Join(responseColumns(e), ", "), e.TableQualifiedName(), where,
		e.IdentityField().Name(), d.Placeholder(1), d.Placeholder(2))
	return Operation{
		Name: name,
		Statement: Statement{SQL: sql, Binds: []Bind{
			{Field: "limit"},
			{Field: "offset"},
		}},
		Result: ResultRows,
	}
}

func (b *Builder) selectByID(cols []string) string {
	e := b.entity
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(cols, ", "), e.TableQualifiedName(),
		e.IdentityField().Name(), e.Dialect().Placeholder(1))
}

func (b *Builder) physicalDelete() string {
	e := b.entity
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		e.TableQualifiedName(), e.IdentityField().Name(), e.Dialect().Placeholder(1))
}

func (b *Builder) idBind() Bind {
	id := b.entity.IdentityField().Name()
	return Bind{Field: id, Column: id}
}

func responseColumns(e *gen.Entity) []string {
	fields := e.ResponseFields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name()
	}
	return cols
}
