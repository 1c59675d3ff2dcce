// Package config loads the optional .listpipe.yaml configuration file
// holding default columns, format and sort settings. Precedence is
// resolved by the caller: explicit CLI flags override the file, the file
// overrides the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"listpipe/internal/column"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = ".listpipe.yaml"

// Config holds all listpipe configuration.
type Config struct {
	// Columns are the default column definitions used when the CLI does
	// not supply its own.
	Columns []column.Config `yaml:"columns"`

	// Format is the default output format name.
	Format string `yaml:"format"`

	// Sort is the default sort spec in "column:direction,..." form.
	Sort string `yaml:"sort"`

	// Delimiter overrides the csv delimiter (single character).
	Delimiter string `yaml:"delimiter"`

	// FlexColumn names the table column that absorbs leftover width.
	FlexColumn string `yaml:"flex_column"`

	// Tree groups the tree-format settings.
	Tree TreeConfig `yaml:"tree"`
}

// TreeConfig configures hierarchy reconstruction for the tree format.
type TreeConfig struct {
	// KeyField identifies a record; defaults to "name".
	KeyField string `yaml:"key_field"`
	// ParentField references the parent record's key.
	ParentField string `yaml:"parent_field"`
}

// DefaultConfig returns the built-in defaults: a name/description table
// sorted by name.
func DefaultConfig() *Config {
	return &Config{
		Columns: []column.Config{
			{Name: "Name", Value: "{{ .name }}"},
			{Name: "Description", Value: "{{ .description }}"},
		},
		Format: "table",
		Tree: TreeConfig{
			KeyField:    "name",
			ParentField: "parent",
		},
	}
}

// Load reads configuration from path, falling back to DefaultFileName in
// the working directory, and fills unset fields from the defaults. A
// missing default file is not an error; a missing explicit path or a
// malformed file is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}

	cfg.merge(loaded)
	return cfg, nil
}

// merge overlays non-zero fields from other onto the receiver.
func (c *Config) merge(other *Config) {
	if len(other.Columns) > 0 {
		c.Columns = other.Columns
	}
	if other.Format != "" {
		c.Format = other.Format
	}
	if other.Sort != "" {
		c.Sort = other.Sort
	}
	if other.Delimiter != "" {
		c.Delimiter = other.Delimiter
	}
	if other.FlexColumn != "" {
		c.FlexColumn = other.FlexColumn
	}
	if other.Tree.KeyField != "" {
		c.Tree.KeyField = other.Tree.KeyField
	}
	if other.Tree.ParentField != "" {
		c.Tree.ParentField = other.Tree.ParentField
	}
}
