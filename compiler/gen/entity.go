package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/entityc"
	"github.com/syssam/entityc/compiler/load"
	"github.com/syssam/entityc/dialect"
	"github.com/syssam/entityc/schema/field"
)

// Entity is the validated intermediate representation of one declared
// entity. It is immutable after construction; every accessor returns a copy
// so consumers can never mutate the schema through it.
type Entity struct {
	name        string
	table       string
	namespace   string
	dialect     dialect.Dialect
	idGen       entityc.IDGeneration
	errKind     string
	softDelete  bool
	returning   Returning
	fields      []*Field
	identity    *Field
	hasMany     []string
	indexes     []*Index
	projections []Projection
}

// Field is one field of the entity IR.
type Field struct {
	def load.Field
}

// Index is one composite index of the entity IR.
type Index struct {
	def load.Index
}

// Projection is a named field subset resolved against the entity's declared
// fields.
type Projection struct {
	Name   string
	Fields []*Field
}

var validOnDelete = []string{
	field.Cascade, field.SetNull, field.SetDefault, field.Restrict, field.NoAction,
}

// NewEntity validates a loaded schema and builds its IR. Validation collects
// every finding before failing; the returned error is a Diagnostics value
// matching ErrInvalidSchema. No IR is produced for an invalid schema.
func NewEntity(s *load.Schema) (*Entity, error) {
	var diags Diagnostics
	diag := func(field, option, format string, args ...any) {
		diags = append(diags, Diagnostic{
			Entity:  s.Name,
			Field:   field,
			Option:  option,
			Message: fmt.Sprintf(format, args...),
		})
	}

	e := &Entity{
		name:      s.Name,
		table:     s.Config.Table,
		namespace: s.Config.Schema,
		errKind:   s.Config.Error,
	}
	if e.name == "" {
		diag("", "", "entity name is required")
	}
	if e.table == "" {
		diag("", "table", "table name is required")
	}
	if e.namespace == "" {
		e.namespace = "public"
	}

	d, err := dialect.FromString(s.Config.Dialect)
	if err != nil {
		diag("", "dialect", "%v", err)
	}
	e.dialect = d

	idGen, err := entityc.ParseIDGeneration(s.Config.ID)
	if err != nil {
		diag("", "id", "%v", err)
	}
	e.idGen = idGen

	e.softDelete = s.Config.SoftDelete
	e.returning = ParseReturning(s.Config.Returning)

	seen := make(map[string]bool, len(s.Fields))
	for _, lf := range s.Fields {
		f := &Field{def: *lf}
		if seen[f.Name()] {
			diag(f.Name(), "", "duplicate field name")
			continue
		}
		seen[f.Name()] = true
		if f.Identity() {
			if e.identity != nil {
				diag(f.Name(), "identity", "entity already has identity field %q", e.identity.Name())
			} else {
				e.identity = f
			}
		}
		if od := f.OnDelete(); od != "" {
			if f.BelongsTo() == "" {
				diag(f.Name(), "on_delete", "on_delete requires a relation target")
			} else if !slices.Contains(validOnDelete, od) {
				diag(f.Name(), "on_delete", "unknown action %q; use one of %s", od, strings.Join(validOnDelete, ", "))
			}
		}
		e.fields = append(e.fields, f)
	}
	if e.identity == nil {
		diag("", "identity", "exactly one field must be marked identity")
	}

	if e.softDelete {
		marker := e.fieldByColumn("deleted_at")
		switch {
		case marker == nil:
			diag("", "soft_delete", "soft delete requires a nullable deleted_at field")
		case !marker.Nullable():
			diag(marker.Name(), "soft_delete", "deletion marker must be nullable")
		}
	}

	for _, target := range s.Config.HasMany {
		if target == "" {
			diag("", "has_many", "relation target cannot be empty")
			continue
		}
		e.hasMany = append(e.hasMany, target)
	}

	for _, idx := range s.Indexes {
		if len(idx.Fields) == 0 {
			diag("", "index", "index requires at least one column")
			continue
		}
		for _, col := range idx.Fields {
			if e.fieldByColumn(col) == nil {
				diag("", "index", "column %q is not declared on the entity", col)
			}
		}
		e.indexes = append(e.indexes, &Index{def: *idx})
	}

	for _, p := range s.Config.Projections {
		proj := Projection{Name: p.Name}
		if proj.Name == "" {
			diag("", "projection", "projection requires a name")
			continue
		}
		for _, name := range p.Fields {
			f := e.fieldByName(name)
			if f == nil {
				diag("", "projection", "projection %q references undeclared field %q", p.Name, name)
				continue
			}
			proj.Fields = append(proj.Fields, f)
		}
		e.projections = append(e.projections, proj)
	}

	if len(diags) > 0 {
		return nil, diags
	}
	return e, nil
}

// Name returns the entity name.
func (e *Entity) Name() string { return e.name }

// Table returns the storage table name.
func (e *Entity) Table() string { return e.table }

// Namespace returns the storage namespace.
func (e *Entity) Namespace() string { return e.namespace }

// TableQualifiedName returns the namespace-qualified table name.
func (e *Entity) TableQualifiedName() string {
	return e.namespace + "." + e.table
}

// Dialect returns the storage dialect.
func (e *Entity) Dialect() dialect.Dialect { return e.dialect }

// IDGeneration returns the identity generation policy.
func (e *Entity) IDGeneration() entityc.IDGeneration { return e.idGen }

// ErrorKind returns the declared error kind. Informational only.
func (e *Entity) ErrorKind() string { return e.errKind }

// SoftDelete reports whether deletes mark rows instead of removing them.
func (e *Entity) SoftDelete() bool { return e.softDelete }

// Returning returns the read-back policy of write operations.
func (e *Entity) Returning() Returning {
	return Returning{Kind: e.returning.Kind, Columns: slices.Clone(e.returning.Columns)}
}

// IdentityField returns the single identity field.
func (e *Entity) IdentityField() *Field { return e.identity }

// AllFields returns every declared field in declaration order.
func (e *Entity) AllFields() []*Field { return slices.Clone(e.fields) }

// CreateFields returns the fields of the create request. Identity, generated
// and skipped fields never appear here.
func (e *Entity) CreateFields() []*Field {
	return e.filter(func(f *Field) bool {
		return f.In(field.ExposeCreate) && !f.Identity() && !f.Generated()
	})
}

// UpdateFields returns the fields of the update request. Identity, generated
// and skipped fields never appear here.
func (e *Entity) UpdateFields() []*Field {
	return e.filter(func(f *Field) bool {
		return f.In(field.ExposeUpdate) && !f.Identity() && !f.Generated()
	})
}

// ResponseFields returns the fields of the response. The identity field is
// always present even when not explicitly exposed.
func (e *Entity) ResponseFields() []*Field {
	var out []*Field
	for _, f := range e.fields {
		if f.Identity() || f.In(field.ExposeResponse) {
			out = append(out, f)
		}
	}
	return out
}

// RelationFields returns the fields declaring a belongs-to relation.
func (e *Entity) RelationFields() []*Field {
	return e.filter(func(f *Field) bool { return f.BelongsTo() != "" })
}

// FilterFields returns the fields participating in the dynamic filter
// surface, in declaration order.
func (e *Entity) FilterFields() []*Field {
	return e.filter(func(f *Field) bool { return f.Filter() != field.FilterNone })
}

// HasFilters reports whether any field declares a filter.
func (e *Entity) HasFilters() bool { return len(e.FilterFields()) > 0 }

// OneToMany returns the names of entities this entity owns one-to-many.
func (e *Entity) OneToMany() []string { return slices.Clone(e.hasMany) }

// Indexes returns the composite index declarations.
func (e *Entity) Indexes() []*Index { return slices.Clone(e.indexes) }

// Projections returns the declared projections.
func (e *Entity) Projections() []Projection {
	out := make([]Projection, len(e.projections))
	for i, p := range e.projections {
		out[i] = Projection{Name: p.Name, Fields: slices.Clone(p.Fields)}
	}
	return out
}

func (e *Entity) filter(keep func(*Field) bool) []*Field {
	var out []*Field
	for _, f := range e.fields {
		if !f.Skipped() && keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func (e *Entity) fieldByName(name string) *Field {
	for _, f := range e.fields {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func (e *Entity) fieldByColumn(col string) *Field {
	for _, f := range e.fields {
		if f.Column() == col {
			return f
		}
	}
	return nil
}

// Name returns the declared field name.
func (f *Field) Name() string { return f.def.Name }

// Column returns the storage column, honoring the custom column override.
func (f *Field) Column() string {
	if f.def.StorageKey != "" {
		return f.def.StorageKey
	}
	return f.def.Name
}

// StructField returns the exported Go identifier of the field.
func (f *Field) StructField() string { return Pascal(f.def.Name) }

// Type returns the semantic type of the field.
func (f *Field) Type() field.Type { return f.def.Type }

// Identity reports whether this is the identity field.
func (f *Field) Identity() bool { return f.def.Identity }

// Generated reports whether the value is supplied by storage.
func (f *Field) Generated() bool { return f.def.Generated }

// Skipped reports whether the field is removed from every surface.
func (f *Field) Skipped() bool { return f.def.Expose.Has(field.ExposeSkip) }

// In reports whether the field participates in the given surface. Skip wins
// silently over every other flag.
func (f *Field) In(surface field.Expose) bool {
	return !f.Skipped() && f.def.Expose.Has(surface)
}

// Filter returns the dynamic-filter capability.
func (f *Field) Filter() field.Filter { return f.def.Filter }

// Unique reports whether the column carries a UNIQUE constraint.
func (f *Field) Unique() bool { return f.def.Unique }

// Indexed reports whether the column gets a single-column index.
func (f *Field) Indexed() bool { return f.def.Indexed }

// IndexKind returns the index kind of a single-column index. Unknown kinds
// fall back to btree at emission time.
func (f *Field) IndexKind() string { return f.def.IndexKind }

// DefaultExpr returns the verbatim DEFAULT expression, if any.
func (f *Field) DefaultExpr() string { return f.def.DefaultExpr }

// Check returns the verbatim CHECK expression, if any.
func (f *Field) Check() string { return f.def.Check }

// Size returns the varchar bound, or zero when unbounded.
func (f *Field) Size() int64 {
	if f.def.Size == nil {
		return 0
	}
	return *f.def.Size
}

// SQLType returns the explicit storage type override, if any.
func (f *Field) SQLType() string { return f.def.SQLType }

// Nullable reports whether the column accepts NULL.
func (f *Field) Nullable() bool { return f.def.Nullable || f.def.Type.Nullable() }

// BelongsTo returns the belongs-to relation target entity name, if any.
func (f *Field) BelongsTo() string { return f.def.BelongsTo }

// OnDelete returns the referential action of the relation, if any.
func (f *Field) OnDelete() string { return f.def.OnDelete }

// Columns returns the indexed columns in declaration order.
func (i *Index) Columns() []string { return slices.Clone(i.def.Fields) }

// Unique reports whether the index is a uniqueness constraint.
func (i *Index) Unique() bool { return i.def.Unique }

// Using returns the declared index kind, or empty for the backend default.
func (i *Index) Using() string { return i.def.Using }

// Where returns the partial-index predicate, if any.
func (i *Index) Where() string { return i.def.Where }

// Name returns the index name: the storage-key override when present,
// otherwise idx_{table}_{col1}_{col2}_... derived from the columns.
func (i *Index) Name(table string) string {
	if i.def.StorageKey != "" {
		return i.def.StorageKey
	}
	return "idx_" + table + "_" + strings.Join(i.def.Fields, "_")
}
