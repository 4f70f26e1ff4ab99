package gen

import "errors"

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the output package import path.
// For example: "github.com/org/project/entityc".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithSchema sets the default storage namespace for entities that do not
// declare one.
func WithSchema(schema string) Option {
	return func(c *Config) error {
		c.Schema = schema
		return nil
	}
}

// WithWorkers bounds the number of parallel generation workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "worker count must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithMigrateDir enables versioned migration output into the given
// directory.
func WithMigrateDir(dir string) Option {
	return func(c *Config) error {
		c.MigrateDir = dir
		return nil
	}
}

// WithMigrateFormat selects the migration file layout.
// Supported formats: "golang-migrate", "goose", "dbmate", "flyway",
// "liquibase".
func WithMigrateFormat(format string) Option {
	return func(c *Config) error {
		switch format {
		case "golang-migrate", "goose", "dbmate", "flyway", "liquibase":
			c.MigrateFormat = format
			return nil
		default:
			return NewConfigError("MigrateFormat", format, "unsupported format; use golang-migrate, goose, dbmate, flyway, or liquibase")
		}
	}
}

// WithManifest enables the generation manifest at the given path.
func WithManifest(path string) Option {
	return func(c *Config) error {
		c.Manifest = path
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.defaults()
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
