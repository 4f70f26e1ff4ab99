package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/entityc"
	"github.com/syssam/entityc/compiler/gen"
	"github.com/syssam/entityc/compiler/load"
	"github.com/syssam/entityc/schema/field"
)

// fieldOf builds a one-field entity around the builder and returns the IR
// field.
func fieldOf(t *testing.T, b *field.Builder) *gen.Field {
	t.Helper()
	s := &load.Schema{
		Name:   "Sample",
		Config: entityc.Config{Table: "samples"},
		Fields: []*load.Field{
			mustField(t, field.UUID("id").Identity().Generated()),
			mustField(t, b),
		},
	}
	e, err := gen.NewEntity(s)
	require.NoError(t, err)
	return e.AllFields()[1]
}

func TestColumnTypeScalars(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		b    *field.Builder
		want string
	}{
		{"uuid", field.UUID("v"), "UUID"},
		{"string", field.String("v"), "TEXT"},
		{"varchar", field.String("v").Varchar(120), "VARCHAR(120)"},
		{"int8", field.Int8("v"), "SMALLINT"},
		{"int16", field.Int16("v"), "SMALLINT"},
		{"int32", field.Int32("v"), "INTEGER"},
		{"int64", field.Int64("v"), "BIGINT"},
		{"float32", field.Float32("v"), "REAL"},
		{"float64", field.Float64("v"), "DOUBLE PRECISION"},
		{"bool", field.Bool("v"), "BOOLEAN"},
		{"time", field.Time("v"), "TIMESTAMPTZ"},
		{"date", field.Date("v"), "DATE"},
		{"time_of_day", field.TimeOfDay("v"), "TIME"},
		{"datetime", field.DateTime("v"), "TIMESTAMP"},
		{"json", field.JSON("v"), "JSONB"},
		{"decimal", field.Decimal("v"), "DECIMAL"},
		{"ip", field.IP("v"), "INET"},
		{"mac", field.MAC("v"), "MACADDR"},
		{"bytes", field.Bytes("v"), "BYTEA"},
		{"unknown scalar falls back to text", field.Other("v"), "TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := columnType(fieldOf(t, tt.b))
			assert.Equal(t, tt.want, got.String())
			assert.False(t, got.Nullable)
		})
	}
}

func TestColumnTypeWraps(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		b        *field.Builder
		want     string
		nullable bool
	}{
		{"optional", field.Int32("v").Optional(), "INTEGER", true},
		{"list", field.String("v").List(), "TEXT[]", false},
		{"optional list", field.Int32("v").List().Optional(), "INTEGER[]", true},
		{"list of lists", field.String("v").List().List(), "TEXT[][]", false},
		{"force nullable", field.String("v").Nullable(), "TEXT", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := columnType(fieldOf(t, tt.b))
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.nullable, got.Nullable)
		})
	}
}

func TestColumnTypeSQLTypeOverride(t *testing.T) {
	t.Parallel()
	got := columnType(fieldOf(t, field.String("v").SQLType("CITEXT")))
	assert.Equal(t, "CITEXT", got.String())
	assert.False(t, got.Nullable)

	got = columnType(fieldOf(t, field.String("v").SQLType("CITEXT").Optional()))
	assert.Equal(t, "CITEXT", got.Name)
	assert.True(t, got.Nullable, "wrap nullability survives the override")
}

func TestSQLTypeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "BIGINT", SQLType{Name: "BIGINT"}.String())
	assert.Equal(t, "BIGINT[][]", SQLType{Name: "BIGINT", ArrayDepth: 2}.String())
}
