package field

import (
	"errors"
	"fmt"
)

// Expose is the set of generated surfaces a field participates in.
type Expose uint8

const (
	// ExposeCreate includes the field in the create request DTO.
	ExposeCreate Expose = 1 << iota
	// ExposeUpdate includes the field in the update request DTO.
	ExposeUpdate
	// ExposeResponse includes the field in the response DTO.
	ExposeResponse
	// ExposeSkip removes the field from every surface. It silently wins
	// over the other flags.
	ExposeSkip

	// ExposeDefault is the surface set of an unannotated field.
	ExposeDefault = ExposeCreate | ExposeUpdate | ExposeResponse
)

// Has reports whether all flags in mask are set.
func (e Expose) Has(mask Expose) bool { return e&mask == mask }

// Filter is the dynamic-filter capability of a field.
type Filter uint8

const (
	// FilterNone excludes the field from the filter query surface.
	FilterNone Filter = iota
	// FilterEq contributes an equality condition.
	FilterEq
	// FilterLike contributes a case-insensitive substring condition.
	FilterLike
	// FilterRange contributes independent lower and upper bound conditions.
	FilterRange
)

// String returns the directive token of the filter.
func (f Filter) String() string {
	switch f {
	case FilterEq:
		return "eq"
	case FilterLike:
		return "like"
	case FilterRange:
		return "range"
	default:
		return "none"
	}
}

// Referential actions accepted by OnDelete.
const (
	Cascade    = "cascade"
	SetNull    = "set_null"
	SetDefault = "set_default"
	Restrict   = "restrict"
	NoAction   = "no_action"
)

// Descriptor is the serializable description of a field declaration. It is
// exported for use by the compiler packages and should not be constructed
// directly; use the builders below.
type Descriptor struct {
	Name        string `json:"name,omitempty"`
	Type        Type   `json:"type"`
	Identity    bool   `json:"identity,omitempty"`
	Generated   bool   `json:"generated,omitempty"`
	Expose      Expose `json:"expose,omitempty"`
	Filter      Filter `json:"filter,omitempty"`
	Unique      bool   `json:"unique,omitempty"`
	Indexed     bool   `json:"indexed,omitempty"`
	IndexKind   string `json:"index_kind,omitempty"`
	DefaultExpr string `json:"default_expr,omitempty"`
	Check       string `json:"check,omitempty"`
	Size        int    `json:"size,omitempty"`
	SQLType     string `json:"sql_type,omitempty"`
	Nullable    bool   `json:"nullable,omitempty"`
	StorageKey  string `json:"storage_key,omitempty"`
	BelongsTo   string `json:"belongs_to,omitempty"`
	OnDelete    string `json:"on_delete,omitempty"`
	Err         error  `json:"-"`
}

// A Builder configures one field declaration. All modifier methods return
// the builder to allow chaining. Errors detected while building are recorded
// on the descriptor and surfaced when the schema is loaded.
type Builder struct {
	desc *Descriptor
}

func newBuilder(name string, t Type) *Builder {
	return &Builder{desc: &Descriptor{
		Name:   name,
		Type:   t,
		Expose: ExposeDefault,
	}}
}

// UUID returns a universally-unique-identifier field.
func UUID(name string) *Builder { return newBuilder(name, Scalar(ScalarUUID)) }

// String returns an unbounded text field. Use Varchar to bound its length.
func String(name string) *Builder { return newBuilder(name, Scalar(ScalarString)) }

// Int8 returns an 8-bit signed integer field.
func Int8(name string) *Builder { return newBuilder(name, Scalar(ScalarInt8)) }

// Int16 returns a 16-bit signed integer field.
func Int16(name string) *Builder { return newBuilder(name, Scalar(ScalarInt16)) }

// Int32 returns a 32-bit signed integer field.
func Int32(name string) *Builder { return newBuilder(name, Scalar(ScalarInt32)) }

// Int64 returns a 64-bit signed integer field.
func Int64(name string) *Builder { return newBuilder(name, Scalar(ScalarInt64)) }

// Float32 returns a 32-bit floating point field.
func Float32(name string) *Builder { return newBuilder(name, Scalar(ScalarFloat32)) }

// Float64 returns a 64-bit floating point field.
func Float64(name string) *Builder { return newBuilder(name, Scalar(ScalarFloat64)) }

// Bool returns a boolean field.
func Bool(name string) *Builder { return newBuilder(name, Scalar(ScalarBool)) }

// Time returns a time-zone-aware timestamp field.
func Time(name string) *Builder { return newBuilder(name, Scalar(ScalarTime)) }

// Date returns a calendar date field.
func Date(name string) *Builder { return newBuilder(name, Scalar(ScalarDate)) }

// TimeOfDay returns a wall-clock time field without a date component.
func TimeOfDay(name string) *Builder { return newBuilder(name, Scalar(ScalarTimeOfDay)) }

// DateTime returns a timestamp field without a time zone.
func DateTime(name string) *Builder { return newBuilder(name, Scalar(ScalarDateTime)) }

// JSON returns a JSON document field.
func JSON(name string) *Builder { return newBuilder(name, Scalar(ScalarJSON)) }

// Decimal returns an arbitrary-precision decimal field.
func Decimal(name string) *Builder { return newBuilder(name, Scalar(ScalarDecimal)) }

// IP returns a network address field.
func IP(name string) *Builder { return newBuilder(name, Scalar(ScalarIP)) }

// MAC returns a hardware address field.
func MAC(name string) *Builder { return newBuilder(name, Scalar(ScalarMAC)) }

// Bytes returns a binary blob field.
func Bytes(name string) *Builder { return newBuilder(name, Scalar(ScalarBytes)) }

// Other returns a field with no native column mapping. Without an explicit
// SQLType it degrades to an unbounded text column.
func Other(name string) *Builder { return newBuilder(name, Scalar(ScalarOther)) }

// Optional wraps the field type in an optional, making the column nullable.
func (b *Builder) Optional() *Builder {
	b.desc.Type = OptionalOf(b.desc.Type)
	return b
}

// List wraps the field type in a list, making the column an array.
func (b *Builder) List() *Builder {
	b.desc.Type = ListOf(b.desc.Type)
	return b
}

// Identity marks the field as the entity identity. Exactly one field per
// entity must be marked.
func (b *Builder) Identity() *Builder {
	b.desc.Identity = true
	return b
}

// Generated marks the field value as supplied by storage. Generated fields
// are excluded from the write DTOs.
func (b *Builder) Generated() *Builder {
	b.desc.Generated = true
	return b
}

// Expose replaces the default surface set of the field.
func (b *Builder) Expose(e Expose) *Builder {
	b.desc.Expose = e
	return b
}

// Skip removes the field from every generated surface, overriding any other
// expose flag.
func (b *Builder) Skip() *Builder {
	b.desc.Expose |= ExposeSkip
	return b
}

// FilterEq adds the field to the dynamic filter surface with an equality
// condition.
func (b *Builder) FilterEq() *Builder {
	b.desc.Filter = FilterEq
	return b
}

// FilterLike adds the field to the dynamic filter surface with a
// case-insensitive substring condition.
func (b *Builder) FilterLike() *Builder {
	b.desc.Filter = FilterLike
	return b
}

// FilterRange adds the field to the dynamic filter surface with independent
// lower and upper bound conditions.
func (b *Builder) FilterRange() *Builder {
	b.desc.Filter = FilterRange
	return b
}

// Unique adds a UNIQUE constraint to the column.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Indexed creates a single-column index on the field.
func (b *Builder) Indexed() *Builder {
	b.desc.Indexed = true
	return b
}

// IndexKind creates a single-column index of the given kind (btree, hash,
// gin, gist, brin). Unknown kinds fall back to btree.
func (b *Builder) IndexKind(kind string) *Builder {
	b.desc.Indexed = true
	b.desc.IndexKind = kind
	return b
}

// DefaultExpr sets a raw SQL default expression for the column. The
// expression is emitted verbatim and is caller-trusted.
func (b *Builder) DefaultExpr(expr string) *Builder {
	b.desc.DefaultExpr = expr
	return b
}

// Check sets a raw SQL check expression for the column. The expression is
// emitted verbatim and is caller-trusted.
func (b *Builder) Check(expr string) *Builder {
	b.desc.Check = expr
	return b
}

// Varchar bounds a string field to n characters.
func (b *Builder) Varchar(n int) *Builder {
	if n <= 0 {
		b.err(fmt.Errorf("varchar length must be positive, got %d", n))
		return b
	}
	if b.desc.Type.Leaf().ScalarKind() != ScalarString {
		b.err(errors.New("varchar applies to string fields only"))
		return b
	}
	b.desc.Size = n
	return b
}

// SQLType overrides the mapped column type with a raw SQL type name. It wins
// over every other mapping rule.
func (b *Builder) SQLType(t string) *Builder {
	b.desc.SQLType = t
	return b
}

// Nullable forces the column nullable regardless of the semantic type.
func (b *Builder) Nullable() *Builder {
	b.desc.Nullable = true
	return b
}

// StorageKey overrides the column name of the field in DDL and index
// statements.
func (b *Builder) StorageKey(key string) *Builder {
	b.desc.StorageKey = key
	return b
}

// BelongsTo declares a foreign key to the named entity's identity column.
func (b *Builder) BelongsTo(entity string) *Builder {
	b.desc.BelongsTo = entity
	return b
}

// OnDelete sets the referential action of a BelongsTo relation: Cascade,
// SetNull, SetDefault, Restrict or NoAction.
func (b *Builder) OnDelete(action string) *Builder {
	b.desc.OnDelete = action
	return b
}

// Descriptor returns the built field descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}

func (b *Builder) err(err error) {
	if b.desc.Err == nil {
		b.desc.Err = err
	}
}
