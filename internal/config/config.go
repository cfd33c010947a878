// Package config handles the configuration directory, config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional YAML settings file in the config directory.
	ConfigFile = "config.yaml"

	// EnvFile is the optional dotenv file read from the working and config directories.
	EnvFile = ".env"

	// StoreFile is the default local key-value store file.
	StoreFile = "store.json"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultStorageKey is the key the task list is stored under.
	DefaultStorageKey = "minimal-todos-v1"

	// DefaultDebounce is the delay for coalesced writes.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultAddr is the listen address for the serve command.
	DefaultAddr = "127.0.0.1:8080"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Store selects the key-value backend (see kv.Open). Empty means the
	// local store file in Dir.
	Store string

	// StorageKey is the key the task list is persisted under.
	StorageKey string

	// Debounce delays and coalesces low-priority writes.
	Debounce time.Duration

	// Addr is the HTTP listen address.
	Addr string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is text or json.
	LogFormat string
}

// fileConfig mirrors config.yaml.
type fileConfig struct {
	Store      string `yaml:"store"`
	StorageKey string `yaml:"storage_key"`
	Debounce   string `yaml:"debounce"`
	Addr       string `yaml:"addr"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

// New creates a Config for configDir.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
// Settings come from defaults, then config.yaml, then .env files, then
// TODO_* environment variables.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:        dir,
		StorageKey: DefaultStorageKey,
		Debounce:   DefaultDebounce,
		Addr:       DefaultAddr,
		LogLevel:   "warn",
		LogFormat:  "text",
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return c.apply(func(key string) (string, bool) {
		switch key {
		case "STORE":
			return fc.Store, fc.Store != ""
		case "STORAGE_KEY":
			return fc.StorageKey, fc.StorageKey != ""
		case "DEBOUNCE":
			return fc.Debounce, fc.Debounce != ""
		case "ADDR":
			return fc.Addr, fc.Addr != ""
		case "LOG_LEVEL":
			return fc.LogLevel, fc.LogLevel != ""
		case "LOG_FORMAT":
			return fc.LogFormat, fc.LogFormat != ""
		}
		return "", false
	}, ConfigFile)
}

// loadEnv applies TODO_* variables. Process environment wins over .env files;
// the working directory's .env wins over the config directory's.
func (c *Config) loadEnv() error {
	dotenv := make(map[string]string)
	for _, path := range []string{filepath.Join(c.Dir, EnvFile), EnvFile} {
		values, err := godotenv.Read(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("invalid %s: %w", path, err)
		}
		for k, v := range values {
			dotenv[k] = v
		}
	}

	return c.apply(func(key string) (string, bool) {
		name := "TODO_" + key
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok && v != ""
	}, "environment")
}

func (c *Config) apply(lookup func(key string) (string, bool), source string) error {
	if v, ok := lookup("STORE"); ok {
		c.Store = strings.TrimSpace(v)
	}
	if v, ok := lookup("STORAGE_KEY"); ok {
		c.StorageKey = strings.TrimSpace(v)
	}
	if v, ok := lookup("DEBOUNCE"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d < 0 {
			return fmt.Errorf("invalid debounce in %s: %q", source, v)
		}
		c.Debounce = d
	}
	if v, ok := lookup("ADDR"); ok {
		c.Addr = strings.TrimSpace(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.LogFormat = strings.TrimSpace(v)
	}
	return nil
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// StorePath returns the path of the default local store file.
func (c *Config) StorePath() string {
	return filepath.Join(c.Dir, StoreFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// LogJSON reports whether logs should be JSON encoded.
func (c *Config) LogJSON() bool {
	return strings.EqualFold(c.LogFormat, "json")
}

// EffectiveLogLevel returns debug when Debug is set, otherwise LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
