// Package entityc is a schema-driven data-access compiler. A schema is a
// declarative description of one entity (fields, identity, relations,
// filters, storage policy) from which the compiler synthesizes parameterized
// CRUD/filter SQL, DDL migration text, and a typed Go access surface.
package entityc

import (
	"github.com/syssam/entityc/schema/field"
	"github.com/syssam/entityc/schema/index"
)

// Interface is implemented by all entity declarations.
type Interface interface {
	// Config returns the entity-level configuration.
	Config() Config
	// Fields returns the ordered field declarations of the entity.
	Fields() []Field
	// Indexes returns the composite index declarations of the entity.
	Indexes() []Index
}

// Config holds the entity-level directives of a declaration.
type Config struct {
	// Table is the storage table name. Required.
	Table string `json:"table,omitempty"`
	// Schema is the storage namespace. Defaults to "public".
	Schema string `json:"schema,omitempty"`
	// Dialect selects the storage backend: "postgres" (default),
	// "clickhouse" or "mongodb". Only postgres synthesizes SQL.
	Dialect string `json:"dialect,omitempty"`
	// ID selects the identity generation policy: "v7" for time-ordered
	// identifiers (default) or "v4" for random ones.
	ID string `json:"id,omitempty"`
	// Error names the error kind propagated by the generated access
	// surface. Informational placeholder.
	Error string `json:"error,omitempty"`
	// SoftDelete marks rows as deleted via the deleted_at column instead
	// of physically removing them.
	SoftDelete bool `json:"soft_delete,omitempty"`
	// Returning controls what is read back after a write: "full"
	// (default), "id", "none", or a comma-separated column list.
	Returning string `json:"returning,omitempty"`
	// HasMany lists entity names this entity owns one-to-many.
	HasMany []string `json:"has_many,omitempty"`
	// Projections declares named field subsets for partial reads.
	Projections []Projection `json:"projections,omitempty"`
}

// Projection is a named subset of an entity's fields used for an optimized
// partial read.
type Projection struct {
	Name   string   `json:"name,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// Field is the interface for entity field declarations.
type Field interface {
	Descriptor() *field.Descriptor
}

// Index is the interface for entity composite index declarations.
type Index interface {
	Descriptor() *index.Descriptor
}

// Schema is the default implementation for entity declarations. Embed it in
// a declaration struct and override the methods you need:
//
//	type User struct {
//		entityc.Schema
//	}
//
//	func (User) Config() entityc.Config {
//		return entityc.Config{Table: "users", SoftDelete: true}
//	}
//
//	func (User) Fields() []entityc.Field {
//		return []entityc.Field{
//			field.UUID("id").Identity(),
//			field.String("email").Unique().FilterEq(),
//		}
//	}
type Schema struct{}

// Config of the schema. Overridden by declarations that set directives.
func (Schema) Config() Config { return Config{} }

// Fields of the schema.
func (Schema) Fields() []Field { return nil }

// Indexes of the schema.
func (Schema) Indexes() []Index { return nil }
