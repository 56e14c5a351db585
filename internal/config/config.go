// Package config loads skilltrail settings from an optional YAML file
// overlaid with SKILLTRAIL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/skilltrail/internal/llm"
)

// Config is the full settings tree. The client and the server read the
// sections they need.
type Config struct {
	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	LLM    llm.Config   `yaml:"llm"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	TokenPath string        `yaml:"token_path"`

	// GenerationAPIKey is forwarded on generate requests so the server can
	// use the caller's own model quota.
	GenerationAPIKey string `yaml:"generation_api_key"`
}

// ServerConfig configures `skilltrail serve`.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	DBPath      string        `yaml:"db_path"`
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	CORSOrigins []string      `yaml:"cors_origins"`
}

// LogConfig selects the zap encoder and, for the TUI, the log file.
type LogConfig struct {
	Mode string `yaml:"mode"` // "dev" or "prod"
	Path string `yaml:"path"`
}

// Default returns settings for a local setup.
func Default() Config {
	return Config{
		Client: ClientConfig{
			BaseURL: "http://localhost:8000/api/v1",
			Timeout: 60 * time.Second,
		},
		Server: ServerConfig{
			Addr:        ":8000",
			TokenTTL:    7 * 24 * time.Hour,
			CORSOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Log: LogConfig{Mode: "dev"},
		LLM: llm.DefaultConfig(),
	}
}

// Load reads path (if it exists) over the defaults, then applies the
// environment. An empty path means DefaultConfigPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overlays SKILLTRAIL_* variables.
func (c *Config) ApplyEnv() {
	setString(&c.Client.BaseURL, "SKILLTRAIL_API_URL")
	setString(&c.Client.TokenPath, "SKILLTRAIL_TOKEN_PATH")
	setString(&c.Client.GenerationAPIKey, "SKILLTRAIL_GENERATION_KEY")
	setDuration(&c.Client.Timeout, "SKILLTRAIL_TIMEOUT")

	setString(&c.Server.Addr, "SKILLTRAIL_ADDR")
	setString(&c.Server.DBPath, "SKILLTRAIL_DB")
	setString(&c.Server.JWTSecret, "SKILLTRAIL_JWT_SECRET")
	setDuration(&c.Server.TokenTTL, "SKILLTRAIL_TOKEN_TTL")
	if v := os.Getenv("SKILLTRAIL_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	setString(&c.Log.Mode, "SKILLTRAIL_LOG_MODE")
	setString(&c.Log.Path, "SKILLTRAIL_LOG_PATH")

	c.LLM.ApplyEnv()
}

// Validate checks the client section.
func (c Config) Validate() error {
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("client.base_url %q is not an absolute URL", c.Client.BaseURL)
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}
	return nil
}

// ValidateServer checks the server section and the model settings.
func (c Config) ValidateServer() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if len(c.Server.JWTSecret) < 16 {
		return fmt.Errorf("server.jwt_secret must be at least 16 characters (set SKILLTRAIL_JWT_SECRET)")
	}
	if c.Server.TokenTTL <= 0 {
		return fmt.Errorf("server.token_ttl must be positive")
	}
	return c.LLM.Validate()
}

// ResolvePaths fills empty client path settings with their XDG defaults.
func (c *Config) ResolvePaths() error {
	var err error
	if c.Client.TokenPath == "" {
		if c.Client.TokenPath, err = DefaultTokenPath(); err != nil {
			return err
		}
	}
	if c.Log.Path == "" {
		if c.Log.Path, err = DefaultLogPath(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultConfigPath is $XDG_CONFIG_HOME/skilltrail/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "skilltrail", "config.yaml"), nil
}

// DefaultTokenPath is $XDG_CONFIG_HOME/skilltrail/token.
func DefaultTokenPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "skilltrail", "token"), nil
}

// DefaultLogPath is $XDG_STATE_HOME/skilltrail/skilltrail.log.
func DefaultLogPath() (string, error) {
	dir, err := xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "skilltrail", "skilltrail.log"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if d := os.Getenv(env); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, fallback), nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, env string) {
	if v := os.Getenv(env); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
