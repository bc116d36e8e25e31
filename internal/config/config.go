package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level siko.yaml project configuration.
type Config struct {
	// Entry is the fully qualified function evaluated by "siko run"
	// (e.g. "Main.main").
	Entry string `yaml:"entry,omitempty"`

	// Sources lists source files or directories, relative to the config file.
	Sources []string `yaml:"sources,omitempty"`

	// Emit controls backend source generation.
	Emit EmitConfig `yaml:"emit,omitempty"`

	// Diagnostics controls how errors are printed.
	Diagnostics DiagnosticsConfig `yaml:"diagnostics,omitempty"`

	// Parallel enables concurrent processing of independent modules.
	Parallel *bool `yaml:"parallel,omitempty"`

	// Verbose turns on the session log.
	Verbose bool `yaml:"verbose,omitempty"`

	// Dir is the directory containing the config file. Not read from YAML.
	Dir string `yaml:"-"`
}

// EmitConfig describes where emitted units go.
type EmitConfig struct {
	// Dir receives one .go file per module.
	Dir string `yaml:"dir,omitempty"`

	// Format runs emitted units through goimports formatting.
	Format *bool `yaml:"format,omitempty"`

	// SQLite, when set, also records every emitted unit in this database.
	SQLite string `yaml:"sqlite,omitempty"`
}

// DiagnosticsConfig controls diagnostic rendering.
type DiagnosticsConfig struct {
	// Color is one of "auto", "always", "never".
	Color string `yaml:"color,omitempty"`
}

// Default returns the configuration used when no siko.yaml is present.
func Default() *Config {
	cfg := &Config{Dir: "."}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a siko.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses siko.yaml content from bytes.
// The path argument is used for error messages and to anchor relative paths.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for siko.yaml starting from dir and walking up
// to parent directories. Returns "" and nil error if none is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Entry != "" {
		dot := strings.LastIndex(c.Entry, ".")
		if dot <= 0 || dot == len(c.Entry)-1 {
			return fmt.Errorf("%s: entry %q must be a qualified function name like Main.main", path, c.Entry)
		}
	}
	switch c.Diagnostics.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: diagnostics.color must be auto, always or never, got %q", path, c.Diagnostics.Color)
	}
	seen := make(map[string]bool)
	for i, src := range c.Sources {
		if src == "" {
			return fmt.Errorf("%s: sources[%d]: empty path", path, i)
		}
		if filepath.IsAbs(src) {
			return fmt.Errorf("%s: sources[%d]: path must be relative to the config file", path, i)
		}
		if seen[src] {
			return fmt.Errorf("%s: sources[%d]: duplicate path %q", path, i, src)
		}
		seen[src] = true
	}
	if c.Emit.SQLite != "" && c.Emit.SQLite == c.Emit.Dir {
		return fmt.Errorf("%s: emit.sqlite and emit.dir must differ", path)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Entry == "" {
		c.Entry = MainModule + "." + EntryFunction
	}
	if c.Diagnostics.Color == "" {
		c.Diagnostics.Color = "auto"
	}
	if c.Emit.Dir == "" {
		c.Emit.Dir = "out"
	}
	if c.Emit.Format == nil {
		t := true
		c.Emit.Format = &t
	}
	if c.Parallel == nil {
		t := true
		c.Parallel = &t
	}
}

// EntryModule returns the module part of Entry.
func (c *Config) EntryModule() string {
	return c.Entry[:strings.LastIndex(c.Entry, ".")]
}

// EntryName returns the function part of Entry.
func (c *Config) EntryName() string {
	return c.Entry[strings.LastIndex(c.Entry, ".")+1:]
}

// Resolve makes a config-relative path usable from the working directory.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// SourceFiles expands Sources into the list of source files, in a
// stable order.
func (c *Config) SourceFiles() ([]string, error) {
	var files []string
	for _, src := range c.Sources {
		p := c.Resolve(src)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsSourceFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// IsSourceFile checks if a file has a recognized source extension
func IsSourceFile(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
