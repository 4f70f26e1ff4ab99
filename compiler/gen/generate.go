package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/sqltool"
	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/entityc/compiler/load"
)

// DefaultHeader is the comment at the top of every generated file.
const DefaultHeader = "Code generated by entityc. DO NOT EDIT."

// An Emitter renders dialect-specific artifacts for one entity. The sql
// subpackage provides the postgres implementation.
type Emitter interface {
	// Artifact renders the typed Go access surface of the entity.
	Artifact(e *Entity) (*jen.File, error)
	// Migration renders the DDL migration pair of the entity.
	Migration(e *Entity) (up, down string, err error)
}

// Generator drives artifact generation: it validates loaded schemas into
// entity IRs, renders per-entity files in parallel and records the run in
// the generation manifest.
type Generator struct {
	config  *Config
	emitter Emitter
	log     *slog.Logger
}

// NewGenerator creates a generator from a config and an emitter.
func NewGenerator(c *Config, emitter Emitter) (*Generator, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	c.defaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	if emitter == nil {
		return nil, NewConfigError("Emitter", nil, "emitter cannot be nil")
	}
	return &Generator{
		config:  c,
		emitter: emitter,
		log:     slog.Default().With("component", "entityc"),
	}, nil
}

// WithLogger replaces the generator's logger.
func (g *Generator) WithLogger(log *slog.Logger) *Generator {
	if log != nil {
		g.log = log
	}
	return g
}

// Generate builds the IR for every schema and writes all artifacts. Schema
// validation runs for every input before any file is written so a broken
// schema never produces partial output.
func (g *Generator) Generate(ctx context.Context, schemas ...*load.Schema) error {
	entities, err := g.build(schemas)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(g.config.Target, 0o755); err != nil {
		return err
	}

	manifest := NewManifest()
	var manifestMu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.config.Workers)
	for i, e := range entities {
		schema, entity := schemas[i], e
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			name := Snake(entity.Name()) + ".go"
			if err := g.writeArtifact(entity, name); err != nil {
				return err
			}
			sum, err := SchemaChecksum(schema)
			if err != nil {
				return err
			}
			manifestMu.Lock()
			manifest.Record(entity.Name(), sum, name)
			manifestMu.Unlock()
			g.log.Info("generated entity", "entity", entity.Name(), "file", name)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if g.config.MigrateDir != "" {
		if err := g.writeMigrations(entities); err != nil {
			return err
		}
	}
	if g.config.Manifest != "" {
		if err := manifest.WriteFile(g.config.Manifest); err != nil {
			return err
		}
	}
	return nil
}

// build validates all schemas, collecting diagnostics across entities.
func (g *Generator) build(schemas []*load.Schema) ([]*Entity, error) {
	entities := make([]*Entity, 0, len(schemas))
	var diags Diagnostics
	for _, s := range schemas {
		if g.config.Schema != "" && s.Config.Schema == "" {
			clone := *s
			clone.Config.Schema = g.config.Schema
			s = &clone
		}
		e, err := NewEntity(s)
		if err != nil {
			var d Diagnostics
			if errors.As(err, &d) {
				diags = append(diags, d...)
				continue
			}
			return nil, err
		}
		entities = append(entities, e)
	}
	if len(diags) > 0 {
		return nil, diags
	}
	return entities, nil
}

// NewFile creates a Jennifer file with the configured header comment.
func (g *Generator) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	header := g.config.Header
	if header == "" {
		header = DefaultHeader
	}
	f.HeaderComment(header)
	return f
}

// writeArtifact renders the entity artifact, runs it through goimports and
// writes it under the target directory.
func (g *Generator) writeArtifact(e *Entity, filename string) error {
	f, err := g.emitter.Artifact(e)
	if err != nil {
		return NewGenerationError(e.Name(), filename, "render artifact", err)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError(e.Name(), filename, "render artifact", err)
	}
	path := filepath.Join(g.config.Target, filename)
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		return NewGenerationError(e.Name(), filename, "format artifact", err)
	}
	return os.WriteFile(path, formatted, 0o644)
}

// writeMigrations writes one versioned migration covering all entities into
// the migration directory, in the configured tool format.
func (g *Generator) writeMigrations(entities []*Entity) error {
	if err := os.MkdirAll(g.config.MigrateDir, 0o755); err != nil {
		return err
	}
	dir, err := migrate.NewLocalDir(g.config.MigrateDir)
	if err != nil {
		return err
	}
	plan := &migrate.Plan{
		Name:    "entities",
		Version: time.Now().UTC().Format("20060102150405"),
	}
	for _, e := range entities {
		up, down, err := g.emitter.Migration(e)
		if err != nil {
			return NewGenerationError(e.Name(), "", "render migration", err)
		}
		plan.Changes = append(plan.Changes, &migrate.Change{
			Cmd:     up,
			Reverse: down,
			Comment: fmt.Sprintf("create %q table", e.Table()),
		})
	}
	files, err := g.formatter().Format(plan)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := dir.WriteFile(f.Name(), f.Bytes()); err != nil {
			return err
		}
	}
	sum, err := dir.Checksum()
	if err != nil {
		return err
	}
	return migrate.WriteSumFile(dir, sum)
}

func (g *Generator) formatter() migrate.Formatter {
	switch g.config.MigrateFormat {
	case "goose":
		return sqltool.GooseFormatter
	case "dbmate":
		return sqltool.DBMateFormatter
	case "flyway":
		return sqltool.FlywayFormatter
	case "liquibase":
		return sqltool.LiquibaseFormatter
	default:
		return sqltool.GolangMigrateFormatter
	}
}
