// entityc generates typed data access code from schema declarations.
//
// Schemas are JSON documents produced by load.MarshalSchema, one entity per
// file. Run: go run ./compiler/gen/cmd/entityc -schemas ./schemas -target ./gen
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/syssam/entityc/compiler/gen"
	"github.com/syssam/entityc/compiler/gen/sql"
	"github.com/syssam/entityc/compiler/load"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML generation config")
		schemaDir  = flag.String("schemas", ".", "directory holding schema JSON files")
		target     = flag.String("target", "", "output directory for generated code")
		pkg        = flag.String("package", "entities", "package name of the generated code")
		migrateDir = flag.String("migrate-dir", "", "directory for versioned migration files")
		watch      = flag.Bool("watch", false, "regenerate on schema changes")
	)
	flag.Parse()

	config, err := loadConfig(*configPath, *target, *pkg, *migrateDir)
	if err != nil {
		fail(err)
	}
	generator, err := gen.NewGenerator(config, sql.NewEmitter(config.Package))
	if err != nil {
		fail(err)
	}

	reload := func() ([]*load.Schema, error) { return loadSchemas(*schemaDir) }
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		if err := generator.Watch(ctx, *schemaDir, reload); err != nil && ctx.Err() == nil {
			fail(err)
		}
		return
	}
	schemas, err := reload()
	if err != nil {
		fail(err)
	}
	if err := generator.Generate(ctx, schemas...); err != nil {
		fail(err)
	}
}

// loadConfig builds the generation config from a YAML file when given, with
// flags overriding its fields.
func loadConfig(path, target, pkg, migrateDir string) (*gen.Config, error) {
	config := &gen.Config{}
	if path != "" {
		loaded, err := gen.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	var opts []gen.Option
	if target != "" {
		opts = append(opts, gen.WithTarget(target))
	}
	if config.Package == "" {
		opts = append(opts, gen.WithPackage(pkg))
	}
	if migrateDir != "" {
		opts = append(opts, gen.WithMigrateDir(migrateDir))
	}
	if err := config.Apply(opts...); err != nil {
		return nil, err
	}
	return config, nil
}

// loadSchemas reads every schema JSON file under dir, in name order.
func loadSchemas(dir string) ([]*load.Schema, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("entityc: no schema files under %s", dir)
	}
	sort.Strings(paths)
	schemas := make([]*load.Schema, 0, len(paths))
	for _, path := range paths {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		s, err := load.UnmarshalSchema(buf)
		if err != nil {
			return nil, fmt.Errorf("entityc: parse %s: %w", filepath.Base(path), err)
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
