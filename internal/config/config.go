package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/replay/config.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "REPLAY_CONFIG"

// envPrefix is stripped from environment variables before mapping them onto
// config keys. A double underscore separates sections, e.g.
// REPLAY_CATALOG__YOUTUBE_API_KEY -> catalog.youtube_api_key.
const envPrefix = "REPLAY_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	AI       AIConfig       `koanf:"ai"`
	Catalog  CatalogConfig  `koanf:"catalog"`
}

type ServerConfig struct {
	Port string `koanf:"port"`
	// MetricsToken gates POST /log when non-empty; clients must send it in
	// the X-Metrics-Token header.
	MetricsToken string `koanf:"metrics_token"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type AIConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
	// Suggestions is how many candidate songs a single model call asks for.
	Suggestions int `koanf:"suggestions"`
}

type CatalogConfig struct {
	// Provider selects the resolution strategy: "youtube" or "spotify".
	Provider            string `koanf:"provider"`
	YouTubeAPIKey       string `koanf:"youtube_api_key"`
	SpotifyClientID     string `koanf:"spotify_client_id"`
	SpotifyClientSecret string `koanf:"spotify_client_secret"`
	// MaxResults caps the returned result set.
	MaxResults int `koanf:"max_results"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Path: "./replay.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		AI: AIConfig{
			Model:       "gpt-4",
			Suggestions: 10,
		},
		Catalog: CatalogConfig{
			Provider:   "youtube",
			MaxResults: 10,
		},
	}
}

// Load builds the configuration from defaults, then an optional YAML file,
// then REPLAY_-prefixed environment variables, in that order of priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) Validate() error {
	switch c.Catalog.Provider {
	case "youtube", "spotify":
	default:
		return fmt.Errorf("invalid catalog provider %q (want youtube or spotify)", c.Catalog.Provider)
	}

	if c.AI.Suggestions < 1 {
		return fmt.Errorf("ai.suggestions must be at least 1, got %d", c.AI.Suggestions)
	}

	if c.Catalog.MaxResults < 1 {
		return fmt.Errorf("catalog.max_results must be at least 1, got %d", c.Catalog.MaxResults)
	}

	return nil
}
