package dialect_test

import (
	"testing"

	"github.com/syssam/entityc/dialect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFromString tests dialect parsing including aliases.
func TestFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    dialect.Dialect
		wantErr bool
	}{
		{input: "", want: dialect.Postgres},
		{input: "postgres", want: dialect.Postgres},
		{input: "postgresql", want: dialect.Postgres},
		{input: "pg", want: dialect.Postgres},
		{input: "Postgres", want: dialect.Postgres},
		{input: "clickhouse", want: dialect.ClickHouse},
		{input: "ch", want: dialect.ClickHouse},
		{input: "mongodb", want: dialect.MongoDB},
		{input: "mongo", want: dialect.MongoDB},
		{input: "mysql", wantErr: true},
		{input: "sqlite", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := dialect.FromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestPlaceholders tests positional placeholder rendering.
func TestPlaceholders(t *testing.T) {
	t.Parallel()

	t.Run("postgres", func(t *testing.T) {
		t.Parallel()
		d := dialect.Postgres
		assert.Equal(t, "$1", d.Placeholder(1))
		assert.Equal(t, "$7", d.Placeholder(7))
		assert.Equal(t, "$1, $2, $3", d.Placeholders(3))
		assert.Equal(t, "$4, $5", d.PlaceholdersFrom(2, 4))
		assert.Equal(t, "", d.Placeholders(0))
	})

	t.Run("clickhouse", func(t *testing.T) {
		t.Parallel()
		d := dialect.ClickHouse
		assert.Equal(t, "?", d.Placeholder(1))
		assert.Equal(t, "?, ?, ?", d.Placeholders(3))
	})
}

// TestAssignments tests SET clause rendering.
func TestAssignments(t *testing.T) {
	t.Parallel()

	d := dialect.Postgres
	assert.Equal(t, "name = $1, email = $2", d.Assignments([]string{"name", "email"}, 1))
	assert.Equal(t, "name = $3", d.Assignments([]string{"name"}, 3))
	assert.Equal(t, "", d.Assignments(nil, 1))
}

// TestCapabilities tests the capability predicates per dialect.
func TestCapabilities(t *testing.T) {
	t.Parallel()

	assert.True(t, dialect.Postgres.SupportsReturning())
	assert.True(t, dialect.Postgres.IsSQL())
	assert.False(t, dialect.Postgres.IsDocument())

	assert.False(t, dialect.ClickHouse.SupportsReturning())
	assert.True(t, dialect.ClickHouse.IsSQL())

	assert.False(t, dialect.MongoDB.IsSQL())
	assert.True(t, dialect.MongoDB.IsDocument())

	assert.True(t, dialect.Postgres.Valid())
	assert.False(t, dialect.Dialect("mysql").Valid())
}
