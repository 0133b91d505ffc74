package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsInvalidUntilNameAndFieldsSet(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err == nil {
		t.Fatalf("expected validation error on bare defaults")
	}
}

func TestLoadMergesUserThenProjectYAML(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "user.yaml")
	projectPath := filepath.Join(dir, "project.yaml")

	if err := os.WriteFile(userPath, []byte("name: from-user\nfields: [title, body]\ncache:\n  terms: 4096\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(projectPath, []byte("name: from-project\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(userPath, projectPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "from-project" {
		t.Fatalf("expected project layer to win for name, got %q", cfg.Name)
	}
	if len(cfg.Fields) != 2 {
		t.Fatalf("expected fields carried from user layer, got %v", cfg.Fields)
	}
	if cfg.Cache.Terms != 4096 {
		t.Fatalf("expected cache.terms carried from user layer, got %d", cfg.Cache.Terms)
	}
}

func TestLoadIgnoresMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "also-nope.yaml"))
	if err == nil {
		t.Fatalf("expected validation error since name/fields remain unset")
	}
}

func TestEnvOverridesApplyAfterYAML(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "user.yaml")
	if err := os.WriteFile(userPath, []byte("name: from-user\nfields: [title]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FTSENGINE_NAME", "from-env")
	t.Setenv("FTSENGINE_CACHE_TERMS", "99")

	cfg, err := Load(userPath, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Fatalf("expected env override to win, got %q", cfg.Name)
	}
	if cfg.Cache.Terms != 99 {
		t.Fatalf("expected env override for cache.terms, got %d", cfg.Cache.Terms)
	}
}

func TestValidateRejectsNonPositiveSizes(t *testing.T) {
	cfg := Default()
	cfg.Name = "ok"
	cfg.Fields = []string{"title"}
	cfg.Cache.Vectors = 0

	if err := validate(cfg); err == nil {
		t.Fatalf("expected error for zero cache.vectors")
	}
}

func TestToPipelineOptionsCarriesFieldOverrides(t *testing.T) {
	pc := PipelineConfig{
		Language:         "en",
		EnableEdgeNGrams: true,
		EdgeNGramFieldConfig: map[string]FieldNGramSetting{
			"title": {Enabled: true, MinLength: 3, MaxLength: 10},
		},
	}

	opts := pc.ToPipelineOptions()
	fc, ok := opts.EdgeNGramFieldConfig["title"]
	if !ok {
		t.Fatalf("expected title field override to carry over")
	}
	if fc.MinLength == nil || *fc.MinLength != 3 {
		t.Fatalf("expected MinLength 3, got %v", fc.MinLength)
	}
	if fc.MaxLength == nil || *fc.MaxLength != 10 {
		t.Fatalf("expected MaxLength 10, got %v", fc.MaxLength)
	}
}

func TestEnvIntRejectsNonNumeric(t *testing.T) {
	t.Setenv("FTSENGINE_CHUNK_SIZE", "not-a-number")
	if _, ok := envInt("FTSENGINE_CHUNK_SIZE"); ok {
		t.Fatalf("expected non-numeric env value to be rejected")
	}
}
