package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ftskit/ftsengine/internal/config"
	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/pkg/ftsengine"
)

// sidecarConfigPath returns the YAML file an index's configuration is
// persisted to, next to its bbolt database file.
func sidecarConfigPath(dbPath string) string {
	return dbPath + ".config.yaml"
}

// createIndex builds a fresh config (name defaults to "default", fields
// must be supplied by the caller) and writes its sidecar file, failing if
// one already exists at dbPath.
func createIndex(dbPath, name string, fields []string) (ftsengine.Config, error) {
	cfgPath := sidecarConfigPath(dbPath)
	if _, err := os.Stat(cfgPath); err == nil {
		return config.Config{}, fmt.Errorf("index already configured at %s (delete it to reconfigure)", cfgPath)
	}

	cfg := config.Default()
	if name == "" {
		name = "default"
	}
	cfg.Name = name
	cfg.Fields = fields

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to marshal index config: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
		return config.Config{}, fmt.Errorf("failed to write index config: %w", err)
	}
	return cfg, nil
}

// loadIndexConfig reads a previously-created sidecar config, erroring with
// a hint to run `index` first when none exists.
func loadIndexConfig(dbPath string) (ftsengine.Config, error) {
	cfgPath := sidecarConfigPath(dbPath)
	if _, err := os.Stat(cfgPath); err != nil {
		return config.Config{}, fmt.Errorf("no index configured at %s, run 'ftsengine index' first", dbPath)
	}
	return config.Load("", cfgPath)
}

// openEngine opens an existing index's durable store, using its sidecar
// config for field list and pipeline options.
func openEngine(dbPath string) (*ftsengine.Engine, error) {
	cfg, err := loadIndexConfig(dbPath)
	if err != nil {
		return nil, err
	}
	engine, err := ftsengine.New(ftsengine.WithConfig(cfg), ftsengine.WithDBFile(dbPath), ftsengine.WithLogger(activeLogger))
	if err != nil {
		return nil, fmt.Errorf("%s", ftserrors.FormatForCLI(err))
	}
	return engine, nil
}
