// Package config loads minisql's optional TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file minisql looks for in the data
// directory. Its absence is not an error; Load returns Defaults().
const FileName = "minisql.toml"

// Config holds the tunables an embedder or the CLI may override.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	REPL   REPLConfig   `toml:"repl"`
}

// EngineConfig controls the storage and index layers.
type EngineConfig struct {
	// BTreeDegree overrides the B-tree minimum degree t for every index
	// opened against this data directory. Zero means btree.DefaultDegree.
	BTreeDegree int `toml:"btree_degree"`
}

// REPLConfig controls the interactive shell.
type REPLConfig struct {
	Prompt string `toml:"prompt"`
}

// Defaults returns the configuration used when no minisql.toml exists.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{BTreeDegree: 0},
		REPL:   REPLConfig{Prompt: "minisql> "},
	}
}

// Load reads <dataDir>/minisql.toml if present, layering it over
// Defaults(). A missing file is not an error.
func Load(dataDir string) (Config, error) {
	cfg := Defaults()

	path := filepath.Join(dataDir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
