// Package field provides fluent builders for declaring entity fields.
//
// Field names follow database conventions (snake_case); the generated Go
// access surface converts them to PascalCase:
//
//	field.Int64("user_id")    // DB: user_id, Go: UserId
//	field.String("email")     // DB: email, Go: Email
//
// # Field Types
//
// Every builder starts from a scalar semantic type:
//
//	field.UUID("id")
//	field.String("name")
//	field.Int32("count")
//	field.Float64("price")
//	field.Bool("is_active")
//	field.Time("created_at")
//	field.JSON("metadata")
//	field.Decimal("balance")
//	field.Bytes("payload")
//
// Optional and List wrap the type recursively, so a nullable array of
// integers is declared as:
//
//	field.Int32("scores").List().Optional()
//
// # Field Options
//
//	field.String("email").
//	    Unique().               // UNIQUE constraint
//	    FilterEq().             // equality condition in the filter surface
//	    Varchar(255)            // bounded text column
//
//	field.Time("created_at").
//	    Generated().            // value supplied by storage
//	    DefaultExpr("NOW()")    // raw SQL default, emitted verbatim
//
// # Surfaces
//
// Expose controls which generated DTOs include the field. The default is
// create, update and response; Skip silently wins over everything:
//
//	field.String("password_hash").Expose(field.ExposeCreate)
//	field.String("internal_tag").Skip()
//
// # Relations
//
// BelongsTo declares a foreign key to another entity's identity column:
//
//	field.UUID("user_id").BelongsTo("User").OnDelete(field.Cascade)
package field
