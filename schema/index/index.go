// Package index provides builders for declaring composite and partial
// indexes at the entity level.
//
//	index.Fields("name", "email")
//	index.Fields("email").Unique()
//	index.Fields("payload").Using("gin")
//	index.Fields("status").Where("deleted_at IS NULL").StorageKey("idx_live_status")
package index

// Descriptor is the serializable description of a composite index
// declaration.
type Descriptor struct {
	// Fields are the indexed columns, in declaration order.
	Fields []string `json:"fields,omitempty"`
	// Unique makes the index a uniqueness constraint.
	Unique bool `json:"unique,omitempty"`
	// Using selects the index kind (btree, hash, gin, gist, brin).
	// Empty means the backend default.
	Using string `json:"using,omitempty"`
	// Where restricts the index to rows matching the raw predicate. The
	// predicate is emitted verbatim and is caller-trusted.
	Where string `json:"where,omitempty"`
	// StorageKey overrides the generated index name.
	StorageKey string `json:"storage_key,omitempty"`
}

// A Builder configures one index declaration.
type Builder struct {
	desc *Descriptor
}

// Fields starts a new index over the given columns, in order.
func Fields(fields ...string) *Builder {
	return &Builder{desc: &Descriptor{Fields: fields}}
}

// Unique makes the index a uniqueness constraint.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Using selects the index kind. Unknown kinds fall back to btree.
func (b *Builder) Using(kind string) *Builder {
	b.desc.Using = kind
	return b
}

// Where restricts the index to rows matching the raw predicate.
func (b *Builder) Where(predicate string) *Builder {
	b.desc.Where = predicate
	return b
}

// StorageKey overrides the generated index name. Without it the name is
// derived as idx_{table}_{col1}_{col2}_...
func (b *Builder) StorageKey(key string) *Builder {
	b.desc.StorageKey = key
	return b
}

// Descriptor returns the built index descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
