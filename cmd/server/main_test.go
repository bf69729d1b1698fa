package main

import (
	"os"
	"path/filepath"
	"testing"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "MODEL_PATH", "STATIC_ROOT", "LOG_LEVEL", "LOG_FILE",
		"PREDICTION_CACHE_SIZE", "METRICS_ENABLED", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigUsesDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Fatalf("expected default port 5000, got %s", cfg.Port)
	}
	if cfg.ModelPath != "cad_model.json" {
		t.Fatalf("expected default model path, got %s", cfg.ModelPath)
	}
	if cfg.CacheSize != 1024 || !cfg.MetricsEnabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PREDICTION_CACHE_SIZE", "0")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, http://b.example")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.CacheSize != 0 || cfg.MetricsEnabled {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "port: \"7000\"\nmodel_path: /opt/cad/model.json\ncache_size: 16\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7001" {
		t.Fatalf("expected env to override file port, got %s", cfg.Port)
	}
	if cfg.ModelPath != "/opt/cad/model.json" || cfg.CacheSize != 16 || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"PORT":                  "http",
		"PREDICTION_CACHE_SIZE": "-1",
		"LOG_LEVEL":             "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)
			if _, err := loadConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error when CONFIG_FILE does not exist")
	}
}

func TestResolveModelPathKeepsAbsolute(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "model.json")
	if got := resolveModelPath(abs); got != abs {
		t.Fatalf("expected %s, got %s", abs, got)
	}
	if got := resolveModelPath("does-not-exist.json"); got != "does-not-exist.json" {
		t.Fatalf("expected working-directory fallback, got %s", got)
	}
}

func TestLoadConfigDefaultsEmptyOrigins(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("allowed_origins: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard origin, got %v", cfg.AllowedOrigins)
	}
}

func TestValidateDoesNotModifyConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.AllowedOrigins = nil
	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AllowedOrigins != nil {
		t.Fatalf("validate changed allowed origins to %v", cfg.AllowedOrigins)
	}
}
