// Package mixin provides reusable field fragments for entity declarations.
//
// A fragment is a plain field slice; splice it into a declaration's Fields
// method:
//
//	func (User) Fields() []entityc.Field {
//		return append([]entityc.Field{
//			field.String("email").Unique().FilterEq(),
//		}, mixin.Timestamps()...)
//	}
package mixin

import (
	"github.com/syssam/entityc"
	"github.com/syssam/entityc/schema/field"
)

// ID returns the conventional UUID identity field. The value is filled by
// the configured generation policy before insert.
func ID() entityc.Field {
	return field.UUID("id").Identity().Generated()
}

// CreateTime returns a created_at timestamp filled by the database.
func CreateTime() entityc.Field {
	return field.Time("created_at").Generated().DefaultExpr("NOW()")
}

// UpdateTime returns an updated_at timestamp filled by the database.
func UpdateTime() entityc.Field {
	return field.Time("updated_at").Generated().DefaultExpr("NOW()")
}

// Timestamps returns the created_at and updated_at pair.
func Timestamps() []entityc.Field {
	return []entityc.Field{CreateTime(), UpdateTime()}
}

// SoftDelete returns the nullable deleted_at marker required by entities
// declaring soft deletion.
func SoftDelete() entityc.Field {
	return field.Time("deleted_at").Optional().Skip()
}

// TenantID returns an indexed tenant_id column for multi-tenant tables.
func TenantID() entityc.Field {
	return field.UUID("tenant_id").Indexed().FilterEq()
}
