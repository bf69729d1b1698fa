package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/Skufu/cadrisk/internal/logging"
)

type Config struct {
	Port           string   `yaml:"port"`
	ModelPath      string   `yaml:"model_path"`
	StaticRoot     string   `yaml:"static_root"`
	CacheSize      int      `yaml:"cache_size"`
	LogLevel       string   `yaml:"log_level"`
	LogFile        string   `yaml:"log_file"`
	MetricsEnabled bool     `yaml:"metrics_enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func defaultConfig() *Config {
	return &Config{
		Port:           "5000",
		ModelPath:      "cad_model.json",
		CacheSize:      1024,
		LogLevel:       "info",
		MetricsEnabled: true,
		AllowedOrigins: []string{"*"},
	}
}

// loadConfig layers defaults, an optional YAML file named by CONFIG_FILE and
// environment variables, in that order.
func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.ModelPath = getEnv("MODEL_PATH", cfg.ModelPath)
	cfg.StaticRoot = getEnv("STATIC_ROOT", cfg.StaticRoot)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	if v := os.Getenv("PREDICTION_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PREDICTION_CACHE_SIZE must be an integer: %w", err)
		}
		cfg.CacheSize = n
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.MetricsEnabled = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %q", c.Port)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("PREDICTION_CACHE_SIZE must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// resolveModelPath finds a relative artifact path next to the executable
// first, then in the working directory.
func resolveModelPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), path)
		if fileExists(candidate) {
			return candidate
		}
	}
	return path
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
