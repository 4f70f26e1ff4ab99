package sql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/entityc/dialect"
	entsql "github.com/syssam/entityc/dialect/sql"
)

// The synthesized statements are checked against a database handle so the
// placeholder counts and argument order line up with what database/sql
// expects.
func TestStatementsExecute(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	b := mustBuilder(t, metricSchema(t))
	id := uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")
	now := time.Now()

	create := b.Create()
	require.Len(t, create.Binds, 4)
	mock.ExpectQuery(regexp.QuoteMeta(create.SQL)).
		WithArgs(id, "requests_total", 42.5, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), now))
	rows, err := db.Query(create.SQL, id, "requests_total", 42.5, now)
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	find := b.Find()
	mock.ExpectQuery(regexp.QuoteMeta(find.SQL)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "value", "created_at"}).
			AddRow(id.String(), "requests_total", 42.5, now))
	rows, err = db.Query(find.SQL, id)
	require.NoError(t, err)
	require.True(t, rows.Next())
	var (
		gotID   uuid.UUID
		name    string
		value   float64
		created time.Time
	)
	require.NoError(t, rows.Scan(&gotID, &name, &value, &created))
	assert.Equal(t, id, gotID)
	assert.Equal(t, "requests_total", name)
	require.NoError(t, rows.Close())

	del := b.Delete()
	mock.ExpectExec(regexp.QuoteMeta(del.SQL)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	res, err := db.Exec(del.SQL, id)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	require.NoError(t, mock.ExpectationsWereMet())
}

// Synthesized statements run through the instrumented driver tagged with
// their entity and operation name, so the snapshot breaks down per
// operation.
func TestStatementsInstrumented(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	b := mustBuilder(t, metricSchema(t))
	drv := entsql.NewStatsDriver(entsql.OpenDB(string(dialect.Postgres), db))
	defer drv.Close()
	id := uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")

	find := b.Find()
	mock.ExpectQuery(regexp.QuoteMeta(find.SQL)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "value", "created_at"}).
			AddRow(id.String(), "requests_total", 42.5, time.Now()))
	ctx := entsql.WithStatement(context.Background(), b.Entity().Name(), find.Name)
	rows := &entsql.Rows{}
	require.NoError(t, drv.Query(ctx, find.SQL, []any{id}, rows))
	require.NoError(t, rows.Close())

	del := b.Delete()
	mock.ExpectExec(regexp.QuoteMeta(del.SQL)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ctx = entsql.WithStatement(context.Background(), b.Entity().Name(), del.Name)
	require.NoError(t, drv.Exec(ctx, del.SQL, []any{id}, nil))

	s := drv.Stats().Snapshot()
	assert.EqualValues(t, 1, s.Operations["Metric.find"].Count)
	assert.EqualValues(t, 1, s.Operations["Metric.delete"].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterExecutes(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	plan := mustBuilder(t, userSchema(t)).Filter()
	query, args := plan.Build(FilterInput{
		Eq:   map[string]any{"email": "a@b.c"},
		Like: map[string]string{"name": "ann"},
	})
	require.Len(t, args, 4)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("a@b.c", "%ann%", DefaultFilterLimit, DefaultFilterOffset).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "age", "org_id", "deleted_at"}))
	rows, err := db.Query(query, args...)
	require.NoError(t, err)
	assert.False(t, rows.Next())
	require.NoError(t, rows.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}
