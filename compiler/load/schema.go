package load

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/syssam/entityc"
	"github.com/syssam/entityc/schema/field"
	"github.com/syssam/entityc/schema/index"
)

// Schema represents an entityc.Interface that was loaded from a compiled
// user package.
type Schema struct {
	Name    string         `json:"name,omitempty"`
	Pos     string         `json:"-"`
	Config  entityc.Config `json:"config,omitempty"`
	Fields  []*Field       `json:"fields,omitempty"`
	Indexes []*Index       `json:"indexes,omitempty"`
}

// Field represents an entityc.Field that was loaded from a compiled user
// package. It mirrors field.Descriptor with stable JSON keys so schemas can
// round-trip between the loader process and the generator process.
type Field struct {
	Name        string       `json:"name,omitempty"`
	Type        field.Type   `json:"type"`
	Identity    bool         `json:"identity,omitempty"`
	Generated   bool         `json:"generated,omitempty"`
	Expose      field.Expose `json:"expose,omitempty"`
	Filter      field.Filter `json:"filter,omitempty"`
	Unique      bool         `json:"unique,omitempty"`
	Indexed     bool         `json:"indexed,omitempty"`
	IndexKind   string       `json:"index_kind,omitempty"`
	DefaultExpr string       `json:"default_expr,omitempty"`
	Check       string       `json:"check,omitempty"`
	Size        *int64       `json:"size,omitempty"`
	SQLType     string       `json:"sql_type,omitempty"`
	Nullable    bool         `json:"nullable,omitempty"`
	StorageKey  string       `json:"storage_key,omitempty"`
	BelongsTo   string       `json:"belongs_to,omitempty"`
	OnDelete    string       `json:"on_delete,omitempty"`
	Position    *Position    `json:"position,omitempty"`
}

// Position describes the position of a field in the declaration list.
type Position struct {
	Index int // Index in the field list.
}

// Index represents an entityc.Index that was loaded from a compiled user
// package.
type Index struct {
	Fields     []string `json:"fields,omitempty"`
	Unique     bool     `json:"unique,omitempty"`
	Using      string   `json:"using,omitempty"`
	Where      string   `json:"where,omitempty"`
	StorageKey string   `json:"storage_key,omitempty"`
}

// Column returns the storage column of the field, honoring the storage-key
// override.
func (f *Field) Column() string {
	if f.StorageKey != "" {
		return f.StorageKey
	}
	return f.Name
}

// NewField creates a loaded field from a field descriptor.
// It returns an error if the descriptor contains an error.
func NewField(fd *field.Descriptor) (*Field, error) {
	if fd.Err != nil {
		return nil, fmt.Errorf("field %q: %v", fd.Name, fd.Err)
	}
	sf := &Field{
		Name:        fd.Name,
		Type:        fd.Type,
		Identity:    fd.Identity,
		Generated:   fd.Generated,
		Expose:      fd.Expose,
		Filter:      fd.Filter,
		Unique:      fd.Unique,
		Indexed:     fd.Indexed,
		IndexKind:   fd.IndexKind,
		DefaultExpr: fd.DefaultExpr,
		Check:       fd.Check,
		SQLType:     fd.SQLType,
		Nullable:    fd.Nullable || fd.Type.Nullable(),
		StorageKey:  fd.StorageKey,
		BelongsTo:   fd.BelongsTo,
		OnDelete:    fd.OnDelete,
	}
	if sf.Type.ScalarKind() == field.ScalarInvalid && sf.Type.Kind() == field.KindScalar {
		return nil, fmt.Errorf("missing type for field %q", sf.Name)
	}
	if size := int64(fd.Size); size != 0 {
		sf.Size = &size
	}
	return sf, nil
}

// NewIndex creates a loaded index from an index descriptor.
func NewIndex(idx *index.Descriptor) *Index {
	return &Index{
		Fields:     idx.Fields,
		Unique:     idx.Unique,
		Using:      idx.Using,
		Where:      idx.Where,
		StorageKey: idx.StorageKey,
	}
}

// MarshalSchema encodes the entityc.Interface into a JSON buffer that can be
// decoded into the Schema objects declared above.
func MarshalSchema(schema entityc.Interface) (b []byte, err error) {
	s := &Schema{
		Config: schema.Config(),
		Name:   indirect(reflect.TypeOf(schema)).Name(),
	}
	if err = s.loadFields(schema); err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	indexes, err := safeIndexes(schema)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	for _, idx := range indexes {
		s.Indexes = append(s.Indexes, NewIndex(idx.Descriptor()))
	}
	return json.Marshal(s)
}

// UnmarshalSchema decodes the given buffer to a loaded schema.
func UnmarshalSchema(buf []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(buf, s); err != nil {
		return nil, err
	}
	return s, nil
}

// loadFields loads fields to schema from entityc.Interface.
func (s *Schema) loadFields(schema entityc.Interface) error {
	fields, err := safeFields(schema)
	if err != nil {
		return err
	}
	for i, f := range fields {
		sf, err := NewField(f.Descriptor())
		if err != nil {
			return err
		}
		sf.Position = &Position{Index: i}
		s.Fields = append(s.Fields, sf)
	}
	return nil
}

// safeFields wraps the schema.Fields method with recover to ensure no panics in marshaling.
func safeFields(fd interface{ Fields() []entityc.Field }) (fields []entityc.Field, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Fields panics: %v", fd, v)
			fields = nil
		}
	}()
	return fd.Fields(), nil
}

// safeIndexes wraps the schema.Indexes method with recover to ensure no panics in marshaling.
func safeIndexes(schema interface{ Indexes() []entityc.Index }) (indexes []entityc.Index, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("schema.Indexes panics: %v", v)
			indexes = nil
		}
	}()
	return schema.Indexes(), nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
