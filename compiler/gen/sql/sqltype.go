// Package sql synthesizes parameterized postgres statements, DDL migration
// text and the typed Go access surface from the entity IR.
package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/entityc/compiler/gen"
	"github.com/syssam/entityc/schema/field"
)

// SQLType is the storage type of one column.
type SQLType struct {
	Name       string
	Nullable   bool
	ArrayDepth int
}

// String renders the column type, appending one "[]" per array dimension.
func (t SQLType) String() string {
	return t.Name + strings.Repeat("[]", t.ArrayDepth)
}

// columnType maps a field to its postgres column type. An explicit sql_type
// override wins outright, with nullability taken from the wrap or the
// force-nullable flag. Otherwise Optional wraps set nullability and List
// wraps add array dimensions while the mapping recurses into the element.
func columnType(f *gen.Field) SQLType {
	if st := f.SQLType(); st != "" {
		return SQLType{Name: st, Nullable: f.Nullable()}
	}
	t := scalarType(f.Type(), f)
	t.Nullable = t.Nullable || f.Nullable()
	return t
}

func scalarType(t field.Type, f *gen.Field) SQLType {
	switch t.Kind() {
	case field.KindOptional:
		inner := scalarType(t.Elem(), f)
		inner.Nullable = true
		return inner
	case field.KindList:
		inner := scalarType(t.Elem(), f)
		inner.ArrayDepth++
		return inner
	}
	return SQLType{Name: scalarName(t.ScalarKind(), f)}
}

// scalarName is the postgres native type of each scalar. Unrecognized
// scalars silently degrade to TEXT.
func scalarName(k field.ScalarKind, f *gen.Field) string {
	switch k {
	case field.ScalarUUID:
		return "UUID"
	case field.ScalarString:
		if size := f.Size(); size > 0 {
			return fmt.Sprintf("VARCHAR(%d)", size)
		}
		return "TEXT"
	case field.ScalarInt8, field.ScalarInt16:
		return "SMALLINT"
	case field.ScalarInt32:
		return "INTEGER"
	case field.ScalarInt64:
		return "BIGINT"
	case field.ScalarFloat32:
		return "REAL"
	case field.ScalarFloat64:
		return "DOUBLE PRECISION"
	case field.ScalarBool:
		return "BOOLEAN"
	case field.ScalarTime:
		return "TIMESTAMPTZ"
	case field.ScalarDate:
		return "DATE"
	case field.ScalarTimeOfDay:
		return "TIME"
	case field.ScalarDateTime:
		return "TIMESTAMP"
	case field.ScalarJSON:
		return "JSONB"
	case field.ScalarDecimal:
		return "DECIMAL"
	case field.ScalarIP:
		return "INET"
	case field.ScalarMAC:
		return "MACADDR"
	case field.ScalarBytes:
		return "BYTEA"
	default:
		return "TEXT"
	}
}
