package gen

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config controls artifact generation.
type Config struct {
	// Package is the import path of the generated package.
	// For example: "github.com/org/project/entityc".
	Package string `yaml:"package"`
	// Target is the directory generated code is written to.
	Target string `yaml:"target"`
	// Header overrides the header comment added at the top of each
	// generated file.
	Header string `yaml:"header,omitempty"`
	// Schema is the default storage namespace of entities that declare
	// none. The per-entity default is "public".
	Schema string `yaml:"schema,omitempty"`
	// Workers bounds parallel file generation. Defaults to GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`
	// MigrateDir is the directory versioned migration files are written
	// to. Empty disables migration output.
	MigrateDir string `yaml:"migrate_dir,omitempty"`
	// MigrateFormat selects the migration file layout: "golang-migrate"
	// (default), "goose", "dbmate", "flyway" or "liquibase".
	MigrateFormat string `yaml:"migrate_format,omitempty"`
	// Manifest is the path of the generation manifest. Empty disables
	// manifest output.
	Manifest string `yaml:"manifest,omitempty"`
}

// LoadConfig reads a generator config file in YAML format.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("entityc: read config: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("entityc: parse config %s: %w", path, err)
	}
	c.defaults()
	return c, nil
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.MigrateFormat == "" {
		c.MigrateFormat = "golang-migrate"
	}
}

func (c *Config) validate() error {
	if c.Target == "" {
		return NewConfigError("Target", nil, "target directory cannot be empty")
	}
	return nil
}
