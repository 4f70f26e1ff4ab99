package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/entityc/schema/field"
	"github.com/syssam/entityc/schema/mixin"
)

func TestID(t *testing.T) {
	t.Parallel()
	d := mixin.ID().Descriptor()
	require.NoError(t, d.Err)
	assert.Equal(t, "id", d.Name)
	assert.Equal(t, field.ScalarUUID, d.Type.ScalarKind())
	assert.True(t, d.Identity)
	assert.True(t, d.Generated)
}

func TestTimestamps(t *testing.T) {
	t.Parallel()
	fields := mixin.Timestamps()
	require.Len(t, fields, 2)

	created := fields[0].Descriptor()
	assert.Equal(t, "created_at", created.Name)
	assert.True(t, created.Generated)
	assert.Equal(t, "NOW()", created.DefaultExpr)

	updated := fields[1].Descriptor()
	assert.Equal(t, "updated_at", updated.Name)
	assert.Equal(t, field.ScalarTime, updated.Type.ScalarKind())
}

func TestSoftDelete(t *testing.T) {
	t.Parallel()
	d := mixin.SoftDelete().Descriptor()
	assert.Equal(t, "deleted_at", d.Name)
	assert.True(t, d.Type.Nullable())
	assert.True(t, d.Expose.Has(field.ExposeSkip))
}

func TestTenantID(t *testing.T) {
	t.Parallel()
	d := mixin.TenantID().Descriptor()
	assert.Equal(t, "tenant_id", d.Name)
	assert.True(t, d.Indexed)
	assert.Equal(t, field.FilterEq, d.Filter)
}
