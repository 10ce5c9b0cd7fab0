// Package config loads project files for the compile command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hanpama/jsonschema2sdl/internal/document"
	"github.com/hanpama/jsonschema2sdl/internal/translate"
)

// Config describes a set of schemas to translate into one SDL document.
type Config struct {
	Roots       []Root    `json:"roots" yaml:"roots"`
	Output      string    `json:"output,omitempty" yaml:"output,omitempty"`       // SDL file to write; stdout when empty
	ValidateSDL bool      `json:"validate,omitempty" yaml:"validate,omitempty"`   // Shorthand for check: schema
	Check       string    `json:"check,omitempty" yaml:"check,omitempty"`         // none, syntax or schema
	RefSuffix   RefSuffix `json:"refSuffix,omitempty" yaml:"refSuffix,omitempty"` // Suffixes appended to resolved $ref names

	dir string
}

// Root is one schema translated under a root type name.
type Root struct {
	Name      string `json:"name" yaml:"name"`
	Schema    string `json:"schema" yaml:"schema"`                           // Path relative to the project file
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"` // "input" or "output" (default)
}

// RefSuffix holds the per-direction suffix for reference type names.
type RefSuffix struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// For returns the suffix for d.
func (s RefSuffix) For(d translate.Direction) string {
	if d == translate.Input {
		return s.Input
	}
	return s.Output
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RefSuffix: RefSuffix{Input: "Input"},
	}
}

// Load reads and parses a project file. YAML is used for .yaml/.yml files,
// JSON otherwise.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	config.dir = filepath.Dir(path)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return &config, nil
}

// Validate checks that every root is named once, has a schema and a known
// direction.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return errors.New("at least one root is required")
	}
	var errs []error
	seen := map[string]bool{}
	for i, r := range c.Roots {
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("roots[%d]: name is required", i))
		} else if seen[r.Name] {
			errs = append(errs, fmt.Errorf("roots[%d]: duplicate root name %q", i, r.Name))
		}
		seen[r.Name] = true
		if r.Schema == "" {
			errs = append(errs, fmt.Errorf("roots[%d]: schema is required", i))
		}
		if _, err := translate.ParseDirection(r.Direction); err != nil {
			errs = append(errs, fmt.Errorf("roots[%d]: %w", i, err))
		}
	}
	if _, err := document.ParseCheck(c.Check); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CheckLevel returns the checks the assembled document must pass. validate
// always means full schema validation.
func (c *Config) CheckLevel() document.Check {
	if c.ValidateSDL {
		return document.CheckSchema
	}
	check, _ := document.ParseCheck(c.Check)
	return check
}

// SchemaPath resolves the schema file of r against the project file location.
func (c *Config) SchemaPath(r Root) string {
	if filepath.IsAbs(r.Schema) || c.dir == "" {
		return r.Schema
	}
	return filepath.Join(c.dir, r.Schema)
}

// OutputPath resolves the output file against the project file location.
func (c *Config) OutputPath() string {
	if c.Output == "" || filepath.IsAbs(c.Output) || c.dir == "" {
		return c.Output
	}
	return filepath.Join(c.dir, c.Output)
}

// DirectionOf returns the parsed direction of r. Load has already validated it.
func (r Root) DirectionOf() translate.Direction {
	d, _ := translate.ParseDirection(r.Direction)
	return d
}
