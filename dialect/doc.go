// Package dialect provides the storage backend abstraction for the entityc
// compiler and its generated access surface.
//
// # Supported Dialects
//
// Each backend is identified by a constant:
//
//	dialect.Postgres   = "postgres"
//	dialect.ClickHouse = "clickhouse"
//	dialect.MongoDB    = "mongodb"
//
// Only Postgres synthesizes SQL text. ClickHouse and MongoDB are declared
// placeholders: statement synthesis for them fails with an explicit
// "not yet implemented" error instead of producing wrong SQL.
//
// # Syntax Strategy
//
// Dialect values carry the syntax differences the synthesizers need:
//
//	d.Placeholder(3)                     // "$3"
//	d.Placeholders(2)                    // "$1, $2"
//	d.Assignments([]string{"a","b"}, 1)  // "a = $1, b = $2"
//	d.SupportsReturning()                // true for postgres
//
// # Driver Interface
//
// The Driver and Tx interfaces abstract the runtime connection used by
// generated repositories:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The dialect/sql sub-package implements them on top of database/sql:
//
//	import (
//	    "github.com/syssam/entityc/dialect"
//	    "github.com/syssam/entityc/dialect/sql"
//	)
//
//	drv, err := sql.Open(string(dialect.Postgres), "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
package dialect
