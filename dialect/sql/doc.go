// Package sql implements the dialect.Driver interface on top of
// database/sql. Generated repositories execute the compiler's synthesized
// statements through it.
//
// # Opening a Driver
//
//	import (
//	    "github.com/syssam/entityc/dialect"
//	    entsql "github.com/syssam/entityc/dialect/sql"
//
//	    _ "github.com/lib/pq"
//	)
//
//	drv, err := entsql.Open(string(dialect.Postgres), "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// An existing *sql.DB can be wrapped instead:
//
//	drv := entsql.OpenDB(string(dialect.Postgres), db)
//
// # Transactions
//
//	tx, err := drv.Tx(ctx)
//	if err != nil {
//	    return err
//	}
//	if err := tx.Exec(ctx, query, args, nil); err != nil {
//	    return errors.Join(err, tx.Rollback())
//	}
//	return tx.Commit()
//
// # Session Variables
//
// WithVar attaches session variables to a context; they are set before every
// statement executed with that context and reset when the connection returns
// to the pool:
//
//	ctx = entsql.WithVar(ctx, "app.tenant_id", tenantID)
//
// # Observability
//
// StatsDriver and DebugDriver wrap a Driver with per-statement statistics
// (and slow statement detection) or statement logging. Callers tag each
// synthesized statement with WithStatement so aggregates break down by
// entity and operation:
//
//	drv, err := entsql.OpenWithStats("postgres", dsn,
//	    entsql.WithSlowThreshold(100*time.Millisecond),
//	    entsql.WithSlowStatementLog(),
//	)
//	ctx := entsql.WithStatement(ctx, "User", "create")
//	err = drv.Exec(ctx, sqlUserCreate, args, nil)
package sql
