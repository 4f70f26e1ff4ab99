package sql

import (
	"context"
	"testing"
	"time"

	"github.com/syssam/entityc/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func TestWithVars(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	drv := OpenDB(string(dialect.Postgres), db)
	mock.ExpectExec("SET foo = 'bar'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("RESET foo").WillReturnResult(sqlmock.NewResult(0, 0))
	rows := &Rows{}
	err = drv.Query(
		WithVar(context.Background(), "foo", "bar"),
		"SELECT 1",
		[]any{},
		rows,
	)
	require.NoError(t, err)
	require.NoError(t, rows.Close(), "rows should be closed to release the connection")
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec("SET foo = 'bar'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET foo = 'baz'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("RESET foo").WillReturnResult(sqlmock.NewResult(0, 0))
	err = drv.Query(
		WithVar(WithVar(context.Background(), "foo", "bar"), "foo", "baz"),
		"SELECT 1",
		[]any{},
		rows,
	)
	require.NoError(t, err)
	require.NoError(t, rows.Close(), "rows should be closed to release the connection")
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectBegin()
	mock.ExpectExec("SET foo = 'bar'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectCommit()
	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	err = tx.Query(
		WithVar(context.Background(), "foo", "bar"),
		"SELECT 1",
		[]any{},
		rows,
	)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
	// Rows should not be closed to release the session,
	// as a transaction is always scoped to a single connection.

	mock.ExpectExec("SET foo = 'qux'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO users DEFAULT VALUES").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RESET foo").WillReturnResult(sqlmock.NewResult(0, 0))
	err = drv.Exec(
		WithVar(context.Background(), "foo", "qux"),
		"INSERT INTO users DEFAULT VALUES",
		[]any{},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	// No rows are returned, so no need to close them.
}

// TestOpenDB tests wrapping an existing *sql.DB.
func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		want    string
	}{
		{"Postgres", string(dialect.Postgres), "postgres"},
		{"PostgresWrapped", "postgres+telemetry", "postgres"},
		{"Passthrough", "sqlite", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			drv := OpenDB(tt.dialect, db)
			assert.Equal(t, tt.want, drv.Dialect())
			assert.NotNil(t, drv.DB())
		})
	}
}

// TestOpenPostgres tests that the pq driver is registered; Open does not
// dial, so no server is needed.
func TestOpenPostgres(t *testing.T) {
	drv, err := Open(string(dialect.Postgres), "postgres://localhost:5432/entityc?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "postgres", drv.Dialect())
	require.NoError(t, drv.Close())
}

// TestOpenSQLite smoke-tests the driver wrapper against an embedded
// database.
func TestOpenSQLite(t *testing.T) {
	drv, err := Open("sqlite", "file:entityc?mode=memory&cache=shared")
	require.NoError(t, err)
	defer drv.Close()

	ctx := context.Background()
	err = drv.Exec(ctx, "CREATE TABLE metrics (id TEXT PRIMARY KEY, value REAL)", []any{}, nil)
	require.NoError(t, err)

	var res Result
	err = drv.Exec(ctx, "INSERT INTO metrics (id, value) VALUES ($1, $2)", []any{"m1", 4.2}, &res)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	rows := &Rows{}
	err = drv.Query(ctx, "SELECT value FROM metrics WHERE id = $1", []any{"m1"}, rows)
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var v float64
	require.NoError(t, rows.Scan(&v))
	assert.Equal(t, 4.2, v)
}

// TestExecArgErrors tests the argument type validation of Exec and Query.
func TestExecArgErrors(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(string(dialect.Postgres), db)
	ctx := context.Background()

	err = drv.Exec(ctx, "SELECT 1", "not-a-slice", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect []any for args")

	err = drv.Exec(ctx, "SELECT 1", []any{}, "not-a-result")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect *sql.Result")

	err = drv.Query(ctx, "SELECT 1", []any{}, "not-rows")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect *sql.Rows")
}

// TestTxRollback tests rollback plumbing.
func TestTxRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(string(dialect.Postgres), db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE metrics").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), "UPDATE metrics SET value = $1", []any{1.0}, nil))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestStatsDriver tests per-statement statistics collection.
func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := NewStatsDriver(OpenDB(string(dialect.Postgres), db))

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))

	rows := &Rows{}
	findCtx := WithStatement(context.Background(), "User", "find")
	require.NoError(t, drv.Query(findCtx, "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, drv.Query(findCtx, "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, drv.Exec(context.Background(), "INSERT INTO t DEFAULT VALUES", []any{}, nil))

	s := drv.Stats().Snapshot()
	require.Len(t, s.Operations, 2)
	assert.EqualValues(t, 2, s.Operations["User.find"].Count)
	assert.EqualValues(t, 1, s.Operations["unlabeled"].Count)
	totals := s.Totals()
	assert.EqualValues(t, 3, totals.Count)
	assert.EqualValues(t, 0, totals.Errors)
	assert.GreaterOrEqual(t, totals.Total, time.Duration(0))
	assert.Contains(t, s.String(), "User.find count=2")

	drv.Stats().Reset()
	assert.Empty(t, drv.Stats().Snapshot().Operations)
}

// TestStatsDriverSlowHook tests slow statement detection.
func TestStatsDriverSlowHook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	var slow []string
	drv := NewStatsDriver(OpenDB(string(dialect.Postgres), db),
		WithSlowThreshold(0),
		WithSlowStatementHook(func(_ context.Context, label, _ string, _ []any, _ time.Duration) {
			slow = append(slow, label)
		}),
	)

	mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
	ctx := WithStatement(context.Background(), "User", "create")
	require.NoError(t, drv.Exec(ctx, "INSERT INTO t DEFAULT VALUES", []any{}, nil))
	require.Equal(t, []string{"User.create"}, slow)
	assert.EqualValues(t, 1, drv.Stats().Snapshot().Operations["User.create"].Slow)
}

// TestDebugDriver tests statement logging.
func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	var logged []string
	drv := NewDebugDriver(OpenDB(string(dialect.Postgres), db),
		DebugWithLog(func(_ context.Context, v ...any) {
			for _, e := range v {
				logged = append(logged, e.(string))
			}
		}),
	)

	mock.ExpectExec("DELETE").WillReturnResult(sqlmock.NewResult(0, 1))
	ctx := WithStatement(context.Background(), "User", "delete")
	require.NoError(t, drv.Exec(ctx, "DELETE FROM t WHERE id = $1", []any{7}, nil))
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "User.delete: exec: DELETE FROM t WHERE id = $1")
}
