// Package config loads the engine's layered configuration: built-in
// defaults, a user-level YAML file, a project-level YAML file, then
// environment variable overrides, validated at the end of the chain.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/internal/pipeline"
)

// PipelineConfig mirrors pipeline.Options' enumerated configuration, kept
// as plain data here so it can be YAML/env decoded before being turned
// into pipeline.Options by the caller.
type PipelineConfig struct {
	Language             string                       `yaml:"language"`
	StopWords            []string                     `yaml:"stopWords"`
	EnableStemming       bool                         `yaml:"enableStemming"`
	EnableEdgeNGrams     bool                         `yaml:"enableEdgeNGrams"`
	EdgeNGramMinLength   int                          `yaml:"edgeNGramMinLength"`
	EdgeNGramMaxLength   int                          `yaml:"edgeNGramMaxLength"`
	EdgeNGramFieldConfig map[string]FieldNGramSetting `yaml:"edgeNGramFieldConfig"`
}

// FieldNGramSetting is the YAML-facing shape of a per-field n-gram override.
type FieldNGramSetting struct {
	Enabled   bool `yaml:"enabled"`
	MinLength int  `yaml:"minLength"`
	MaxLength int  `yaml:"maxLength"`
}

// StorageConfig controls the persistence adapter.
type StorageConfig struct {
	DBName    string `yaml:"dbName"`
	Version   int    `yaml:"version"`
	ChunkSize int    `yaml:"chunkSize"`
}

// CacheConfig sizes the engine's LRU caches.
type CacheConfig struct {
	Terms   int `yaml:"terms"`
	Vectors int `yaml:"vectors"`
}

// LoggingConfig controls internal/logging.Setup.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// FilePath is the rotating log file's path. Empty disables file logging.
	FilePath string `yaml:"filePath"`
	// MaxSizeMB is the file size, in megabytes, that triggers rotation.
	MaxSizeMB int `yaml:"maxSizeMB"`
	// MaxFiles is the number of rotated files kept alongside the active one.
	MaxFiles int `yaml:"maxFiles"`
	// WriteToStderr additionally writes every log line to stderr.
	WriteToStderr bool `yaml:"writeToStderr"`
}

// Config is the engine's fully-resolved configuration.
type Config struct {
	Name     string         `yaml:"name"`
	Fields   []string       `yaml:"fields"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Default returns the built-in defaults, the innermost layer of the load
// chain.
func Default() Config {
	return Config{
		Fields: []string{},
		Pipeline: PipelineConfig{
			Language:           "en",
			EdgeNGramMinLength: 2,
			EdgeNGramMaxLength: 15,
		},
		Storage: StorageConfig{
			DBName:    "ftsengine",
			Version:   1,
			ChunkSize: 256,
		},
		Cache: CacheConfig{
			Terms:   2048,
			Vectors: 512,
		},
		Logging: LoggingConfig{
			Level:         "info",
			MaxSizeMB:     10,
			MaxFiles:      5,
			WriteToStderr: true,
		},
	}
}

// Load builds a Config by layering, in order: built-in defaults, the
// user-level YAML file at userPath (if it exists), the project-level YAML
// file at projectPath (if it exists), then environment variable
// overrides. The result is validated before being returned.
func Load(userPath, projectPath string) (Config, error) {
	cfg := Default()

	if err := mergeYAMLFile(&cfg, userPath); err != nil {
		return Config{}, err
	}
	if err := mergeYAMLFile(&cfg, projectPath); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ToPipelineOptions converts the YAML-facing pipeline config into the
// pipeline package's Options, which Build expects.
func (c PipelineConfig) ToPipelineOptions() pipeline.Options {
	fieldConfig := make(map[string]pipeline.FieldNGramConfig, len(c.EdgeNGramFieldConfig))
	for field, setting := range c.EdgeNGramFieldConfig {
		setting := setting
		fc := pipeline.FieldNGramConfig{Enabled: setting.Enabled}
		if setting.MinLength > 0 {
			fc.MinLength = &setting.MinLength
		}
		if setting.MaxLength > 0 {
			fc.MaxLength = &setting.MaxLength
		}
		fieldConfig[field] = fc
	}

	return pipeline.Options{
		Language:             c.Language,
		StopWords:            c.StopWords,
		StopWordsSet:         len(c.StopWords) > 0,
		EnableStemming:       c.EnableStemming,
		EnableEdgeNGrams:     c.EnableEdgeNGrams,
		EdgeNGramMinLength:   c.EdgeNGramMinLength,
		EdgeNGramMaxLength:   c.EdgeNGramMaxLength,
		EdgeNGramFieldConfig: fieldConfig,
	}
}

// DefaultUserConfigPath returns the conventional per-user config location.
func DefaultUserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ftsengine", "config.yaml")
}

// DefaultProjectConfigPath returns the conventional project-local config
// location relative to the current working directory.
func DefaultProjectConfigPath() string {
	return filepath.Join(".ftsengine", "config.yaml")
}

func mergeYAMLFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ftserrors.ValidationError(fmt.Sprintf("failed to read config file %s", path), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return ftserrors.ValidationError(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FTSENGINE_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv("FTSENGINE_LANGUAGE"); v != "" {
		cfg.Pipeline.Language = v
	}
	if v := os.Getenv("FTSENGINE_DB_NAME"); v != "" {
		cfg.Storage.DBName = v
	}
	if v, ok := envInt("FTSENGINE_CACHE_TERMS"); ok {
		cfg.Cache.Terms = v
	}
	if v, ok := envInt("FTSENGINE_CACHE_VECTORS"); ok {
		cfg.Cache.Vectors = v
	}
	if v, ok := envInt("FTSENGINE_CHUNK_SIZE"); ok {
		cfg.Storage.ChunkSize = v
	}
	if v := os.Getenv("FTSENGINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FTSENGINE_LOG_FILE"); v != "" {
		cfg.Logging.FilePath = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func validate(cfg Config) error {
	if cfg.Name == "" {
		return ftserrors.ValidationError("config: name must not be empty", nil)
	}
	if len(cfg.Fields) == 0 {
		return ftserrors.ValidationError("config: fields must not be empty", nil)
	}
	if cfg.Cache.Terms <= 0 {
		return ftserrors.ValidationError("config: cache.terms must be positive", nil)
	}
	if cfg.Cache.Vectors <= 0 {
		return ftserrors.ValidationError("config: cache.vectors must be positive", nil)
	}
	if cfg.Storage.ChunkSize <= 0 {
		return ftserrors.ValidationError("config: storage.chunkSize must be positive", nil)
	}
	return nil
}
