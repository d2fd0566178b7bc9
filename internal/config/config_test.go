package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.yaml")
	data := []byte("image_dir: /data/pairs\nmodel: gpt-4o-mini\nmax_attempts: 3\npacing: 250ms\nstore: sqlite\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ImageDir != "/data/pairs" || cfg.Model != "gpt-4o-mini" || cfg.MaxAttempts != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Pacing.Std() != 250*time.Millisecond {
		t.Errorf("Pacing = %v, want 250ms", cfg.Pacing.Std())
	}
	if cfg.Store != "sqlite" {
		t.Errorf("Store = %q", cfg.Store)
	}
	// Untouched keys keep their defaults.
	if cfg.Temperature != 0.7 || cfg.BaseURL != Default().BaseURL {
		t.Errorf("defaults clobbered: %+v", cfg)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.yaml")
	if err := os.WriteFile(path, []byte("pacing: fast\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for bad duration")
	}
}

func TestResolveAPIKey_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("sk-from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SWAY_API_KEY", "sk-from-env")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Default()
	cfg.APIKeyFile = keyFile
	if err := cfg.ResolveAPIKey(); err != nil {
		t.Fatalf("ResolveAPIKey: %v", err)
	}
	if cfg.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q, want env value", cfg.APIKey)
	}
}

func TestResolveAPIKey_FallbackEnv(t *testing.T) {
	t.Setenv("SWAY_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg := Default()
	cfg.APIKeyFile = filepath.Join(t.TempDir(), "absent")
	if err := cfg.ResolveAPIKey(); err != nil {
		t.Fatalf("ResolveAPIKey: %v", err)
	}
	if cfg.APIKey != "sk-openai" {
		t.Errorf("APIKey = %q, want OPENAI_API_KEY value", cfg.APIKey)
	}
}

func TestResolveAPIKey_FileFirstLine(t *testing.T) {
	t.Setenv("SWAY_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	keyFile := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(keyFile, []byte("  sk-file-key  \nsecond line ignored\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.APIKeyFile = keyFile
	if err := cfg.ResolveAPIKey(); err != nil {
		t.Fatalf("ResolveAPIKey: %v", err)
	}
	if cfg.APIKey != "sk-file-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
}

func TestResolveAPIKey_AbsentEverywhere(t *testing.T) {
	t.Setenv("SWAY_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Default()
	cfg.APIKeyFile = filepath.Join(t.TempDir(), "absent")
	if err := cfg.ResolveAPIKey(); err != nil {
		t.Fatalf("ResolveAPIKey: %v", err)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.ResultsDir = "out"
	if got := cfg.CSVPath(); got != filepath.Join("out", "analysis_results.csv") {
		t.Errorf("CSVPath = %q", got)
	}
	if got := cfg.DBPath(); got != filepath.Join("out", "results.db") {
		t.Errorf("DBPath = %q", got)
	}
	if got := cfg.HTMLPath(); got != filepath.Join("out", "visual_report.html") {
		t.Errorf("HTMLPath = %q", got)
	}
}
