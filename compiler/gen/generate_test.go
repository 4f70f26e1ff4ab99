package gen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/entityc"
	"github.com/syssam/entityc/compiler/load"
	"github.com/syssam/entityc/schema/field"
)

type stubEmitter struct {
	artifactErr error
}

func (s stubEmitter) Artifact(e *Entity) (*jen.File, error) {
	if s.artifactErr != nil {
		return nil, s.artifactErr
	}
	f := jen.NewFile("entities")
	f.Const().Id(Pascal(e.Name()) + "Table").Op("=").Lit(e.Table())
	return f, nil
}

func (s stubEmitter) Migration(e *Entity) (string, string, error) {
	up := "CREATE TABLE " + e.TableQualifiedName() + " ();"
	down := "DROP TABLE " + e.TableQualifiedName() + ";"
	return up, down, nil
}

func postSchema(t *testing.T) *load.Schema {
	t.Helper()
	return &load.Schema{
		Name:   "Post",
		Config: entityc.Config{Table: "posts"},
		Fields: []*load.Field{
			mustField(t, field.UUID("id").Identity().Generated()),
			mustField(t, field.String("title")),
		},
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	target := filepath.Join(dir, "entities")
	migrations := filepath.Join(dir, "migrations")
	manifest := filepath.Join(dir, "manifest.bin")

	g, err := NewGenerator(MustNewConfig(
		WithPackage("example.com/app/entities"),
		WithTarget(target),
		WithMigrateDir(migrations),
		WithManifest(manifest),
	), stubEmitter{})
	require.NoError(t, err)

	user, post := userSchema(t), postSchema(t)
	require.NoError(t, g.Generate(context.Background(), user, post))

	buf, err := os.ReadFile(filepath.Join(target, "user.go"))
	require.NoError(t, err)
	assert.Contains(t, string(buf), DefaultHeader)
	assert.Contains(t, string(buf), `UserTable = "users"`)
	_, err = os.Stat(filepath.Join(target, "post.go"))
	require.NoError(t, err)

	ups, err := filepath.Glob(filepath.Join(migrations, "*.up.sql"))
	require.NoError(t, err)
	require.Len(t, ups, 1)
	up, err := os.ReadFile(ups[0])
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE public.users")
	assert.Contains(t, string(up), "CREATE TABLE public.posts")

	downs, err := filepath.Glob(filepath.Join(migrations, "*.down.sql"))
	require.NoError(t, err)
	require.Len(t, downs, 1)
	_, err = os.Stat(filepath.Join(migrations, "atlas.sum"))
	require.NoError(t, err)

	m, err := ReadManifest(manifest)
	require.NoError(t, err)
	sum, err := SchemaChecksum(user)
	require.NoError(t, err)
	assert.Equal(t, ManifestEntry{Checksum: sum, Files: []string{"user.go"}}, m.Entities["User"])
	assert.Contains(t, m.Entities, "Post")
}

func TestGenerateIdempotent(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "entities")
	g, err := NewGenerator(MustNewConfig(
		WithPackage("example.com/app/entities"),
		WithTarget(target),
	), stubEmitter{})
	require.NoError(t, err)

	require.NoError(t, g.Generate(context.Background(), userSchema(t)))
	first, err := os.ReadFile(filepath.Join(target, "user.go"))
	require.NoError(t, err)

	require.NoError(t, g.Generate(context.Background(), userSchema(t)))
	second, err := os.ReadFile(filepath.Join(target, "user.go"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestGenerateDefaultSchemaNamespace(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	migrations := filepath.Join(dir, "migrations")
	g, err := NewGenerator(MustNewConfig(
		WithPackage("example.com/app/entities"),
		WithTarget(filepath.Join(dir, "entities")),
		WithSchema("billing"),
		WithMigrateDir(migrations),
	), stubEmitter{})
	require.NoError(t, err)

	user := userSchema(t)
	post := postSchema(t)
	post.Config.Schema = "audit"
	require.NoError(t, g.Generate(context.Background(), user, post))

	ups, err := filepath.Glob(filepath.Join(migrations, "*.up.sql"))
	require.NoError(t, err)
	require.Len(t, ups, 1)
	up, err := os.ReadFile(ups[0])
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE billing.users")
	assert.Contains(t, string(up), "CREATE TABLE audit.posts", "declared namespaces are never overridden")
	assert.Empty(t, user.Config.Schema, "input schemas are not mutated")
}

func TestGenerateInvalidSchema(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "entities")
	g, err := NewGenerator(MustNewConfig(
		WithPackage("example.com/app/entities"),
		WithTarget(target),
	), stubEmitter{})
	require.NoError(t, err)

	bad := userSchema(t)
	bad.Config.Table = ""
	err = g.Generate(context.Background(), userSchema(t), bad)
	require.ErrorIs(t, err, ErrInvalidSchema)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "no artifact is written when any schema is invalid")
}

func TestGenerateEmitterError(t *testing.T) {
	t.Parallel()
	g, err := NewGenerator(MustNewConfig(
		WithPackage("example.com/app/entities"),
		WithTarget(filepath.Join(t.TempDir(), "entities")),
	), stubEmitter{artifactErr: errors.New("boom")})
	require.NoError(t, err)

	err = g.Generate(context.Background(), userSchema(t))
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorContains(t, err, "boom")
}

func TestNewGeneratorValidation(t *testing.T) {
	t.Parallel()
	_, err := NewGenerator(nil, stubEmitter{})
	assert.ErrorIs(t, err, ErrMissingConfig)

	_, err = NewGenerator(&Config{Target: "./entities"}, nil)
	assert.ErrorIs(t, err, ErrMissingConfig)

	_, err = NewGenerator(&Config{}, stubEmitter{})
	assert.ErrorIs(t, err, ErrMissingConfig)
}
