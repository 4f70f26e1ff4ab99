package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()
	c, err := NewConfig(
		WithPackage("github.com/org/project/entities"),
		WithTarget("./entities"),
		WithHeader("Code generated. DO NOT EDIT."),
		WithSchema("billing"),
		WithWorkers(2),
		WithMigrateDir("./migrations"),
		WithMigrateFormat("flyway"),
		WithManifest("./manifest.bin"),
	)
	require.NoError(t, err)
	assert.Equal(t, "github.com/org/project/entities", c.Package)
	assert.Equal(t, "./entities", c.Target)
	assert.Equal(t, "Code generated. DO NOT EDIT.", c.Header)
	assert.Equal(t, "billing", c.Schema)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, "./migrations", c.MigrateDir)
	assert.Equal(t, "flyway", c.MigrateFormat)
	assert.Equal(t, "./manifest.bin", c.Manifest)
}

func TestOptionErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty package", WithPackage("")},
		{"empty target", WithTarget("")},
		{"zero workers", WithWorkers(0)},
		{"negative workers", WithWorkers(-1)},
		{"unknown migrate format", WithMigrateFormat("alembic")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := (&Config{}).Apply(tt.opt)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingConfig)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestApplyStopsAtFirstError(t *testing.T) {
	t.Parallel()
	c := &Config{}
	err := c.Apply(WithWorkers(0), WithTarget("./entities"))
	require.Error(t, err)
	assert.Empty(t, c.Target)
}

func TestApplyAllCollectsErrors(t *testing.T) {
	t.Parallel()
	c := &Config{}
	err := c.ApplyAll(WithWorkers(0), WithPackage(""), WithTarget("./entities"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "Workers")
	assert.ErrorContains(t, err, "Package")
	assert.Equal(t, "./entities", c.Target)
}

func TestMustNewConfigPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustNewConfig(WithWorkers(-1)) })
}
