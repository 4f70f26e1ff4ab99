package sql

import (
	"fmt"

	"github.com/syssam/entityc"
	"github.com/syssam/entityc/compiler/gen"
	"github.com/syssam/entityc/dialect"
)

// ResultMode describes how a generated operation produces its result.
type ResultMode uint8

const (
	// ResultRowFromReturning scans the result from the RETURNING row.
	ResultRowFromReturning ResultMode = iota
	// ResultFromInput builds the result from the write request values.
	// Storage-side defaults and triggers are not reflected.
	ResultFromInput
	// ResultReadAfterWrite re-reads the row by identity after the write.
	ResultReadAfterWrite
	// ResultRowsAffected reduces to "at least one row affected".
	ResultRowsAffected
	// ResultRows scans zero or more rows.
	ResultRows
)

// String returns a stable token for the mode.
func (m ResultMode) String() string {
	switch m {
	case ResultFromInput:
		return "from_input"
	case ResultReadAfterWrite:
		return "read_after_write"
	case ResultRowsAffected:
		return "rows_affected"
	case ResultRows:
		return "rows"
	default:
		return "row_from_returning"
	}
}

// Bind names the value bound to one placeholder, in placeholder order.
type Bind struct {
	// Field is the declared field name the value comes from, or a
	// synthetic name ("limit", "offset") for paging values.
	Field string
	// Column is the storage column the placeholder compares or assigns.
	Column string
}

// Statement is one parameterized SQL statement.
type Statement struct {
	SQL   string
	Binds []Bind
}

// Operation is one generated access operation.
type Operation struct {
	Name string
	Statement
	Result ResultMode
}

// Builder synthesizes the CRUD statement set of one entity. Synthesis is
// total for a validated entity; construction is the only failure point.
type Builder struct {
	entity *gen.Entity
}

// NewBuilder creates a statement builder for the entity. Dialects other
// than postgres are declared but not implemented and fail here instead of
// producing wrong SQL.
func NewBuilder(e *gen.Entity) (*Builder, error) {
	if d := e.Dialect(); d != dialect.Postgres {
		return nil, fmt.Errorf("entityc: dialect %q not yet implemented, generate interface only: %w", d, entityc.ErrUnsupportedDialect)
	}
	return &Builder{entity: e}, nil
}

// Entity returns the entity the builder synthesizes for.
func (b *Builder) Entity() *gen.Entity { return b.entity }

// Operations returns every operation of the entity in a stable order.
// Entities without create-exposed or update-exposed fields get no create
// or update operation; an empty column or SET list is never synthesized.
func (b *Builder) Operations() []Operation {
	e := b.entity
	var ops []Operation
	if len(e.CreateFields()) > 0 {
		ops = append(ops, b.Create())
	}
	ops = append(ops, b.Find())
	if len(e.UpdateFields()) > 0 {
		ops = append(ops, b.Update())
	}
	ops = append(ops, b.Delete(), b.List())
	if b.entity.SoftDelete() {
		ops = append(ops,
			b.HardDelete(),
			b.Restore(),
			b.FindWithDeleted(),
			b.ListWithDeleted(),
		)
	}
	return ops
}
