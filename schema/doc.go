// Package schema groups the building blocks of entity declarations:
//
//   - [field]: fluent builders for entity attributes
//   - [index]: composite index declarations
//   - [mixin]: reusable field fragments
//
// A declaration embeds entityc.Schema and overrides the methods it needs:
//
//	type User struct{ entityc.Schema }
//
//	func (User) Config() entityc.Config {
//		return entityc.Config{Table: "users", SoftDelete: true}
//	}
//
//	func (User) Fields() []entityc.Field {
//		return []entityc.Field{
//			field.UUID("id").Identity().Generated(),
//			field.String("email").Unique().FilterEq(),
//			field.Time("deleted_at").Optional(),
//		}
//	}
//
//	func (User) Indexes() []entityc.Index {
//		return []entityc.Index{
//			index.Fields("email", "deleted_at").Unique(),
//		}
//	}
//
// Declarations are marshaled by compiler/load and compiled into generated
// code by compiler/gen.
package schema
