package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect identifies a storage backend and encapsulates its SQL syntax
// differences: positional placeholders, assignment clauses, and RETURNING
// support.
type Dialect string

const (
	// Postgres is the fully implemented SQL backend.
	Postgres Dialect = "postgres"
	// ClickHouse is a placeholder backend. Statement synthesis for it
	// fails loudly; only the access interface is generated.
	ClickHouse Dialect = "clickhouse"
	// MongoDB is a placeholder document backend, like ClickHouse.
	MongoDB Dialect = "mongodb"
)

// FromString parses a dialect directive including its common aliases. The
// empty string selects Postgres.
func FromString(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "", "postgres", "postgresql", "pg":
		return Postgres, nil
	case "clickhouse", "ch":
		return ClickHouse, nil
	case "mongodb", "mongo":
		return MongoDB, nil
	default:
		return "", fmt.Errorf("dialect: unknown dialect %q (want postgres, clickhouse or mongodb)", s)
	}
}

// String returns the canonical dialect name.
func (d Dialect) String() string { return string(d) }

// Valid reports whether the dialect is a known backend.
func (d Dialect) Valid() bool {
	return d == Postgres || d == ClickHouse || d == MongoDB
}

// IsSQL reports whether the backend speaks SQL.
func (d Dialect) IsSQL() bool {
	return d == Postgres || d == ClickHouse
}

// IsDocument reports whether the backend is document-oriented.
func (d Dialect) IsDocument() bool {
	return d == MongoDB
}

// SupportsReturning reports whether the backend can read rows back from a
// write statement.
func (d Dialect) SupportsReturning() bool {
	return d == Postgres
}

// Placeholder returns the positional placeholder for the i-th bind
// parameter (1-based).
func (d Dialect) Placeholder(i int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}

// Placeholders returns a comma-separated placeholder list for n bind
// parameters starting at position 1.
func (d Dialect) Placeholders(n int) string {
	return d.PlaceholdersFrom(n, 1)
}

// PlaceholdersFrom returns a comma-separated placeholder list for n bind
// parameters starting at the given position.
func (d Dialect) PlaceholdersFrom(n, start int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Placeholder(start + i))
	}
	return b.String()
}

// Assignments returns a SET clause body assigning each column to a
// positional placeholder, starting at the given position.
func (d Dialect) Assignments(columns []string, start int) string {
	var b strings.Builder
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString(" = ")
		b.WriteString(d.Placeholder(start + i))
	}
	return b.String()
}

// ExecQuerier wraps the database operations used by generated code.
type ExecQuerier interface {
	// Exec executes a query that does not return records.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the database abstraction the generated access surface runs on.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the driver dialect name.
	Dialect() string
}

// Tx wraps transaction operations.
type Tx interface {
	ExecQuerier
	// Commit commits the transaction.
	Commit() error
	// Rollback discards the transaction.
	Rollback() error
}

// Result is an alias to sql.Result, re-exported for generated code.
type Result = sql.Result
