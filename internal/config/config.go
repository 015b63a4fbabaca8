// Package config loads ~/.todoapp/config.yaml and the environment overrides
// layered on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName        = ".todoapp"
	configFileName = "config.yaml"
	logFileName    = "todoapp.log"

	defaultTimeoutMS = 10000
)

// Environment overrides. EnvHome replaces ~/.todoapp, moving the default
// config file, the credentials file and the log file with it.
const (
	EnvHome     = "TODOAPP_HOME"
	EnvEndpoint = "TODOAPP_ENDPOINT"
	EnvAPIKey   = "TODOAPP_API_KEY"
	EnvAuthURL  = "TODOAPP_AUTH_URL"
)

const defaultConfigYAML = `# todoapp configuration

# GraphQL endpoint of the Todo API (AppSync URL, or the devserver).
endpoint: http://localhost:8080/graphql

# How requests authenticate: user_pool (token from "todoapp auth login"),
# api_key, or none.
auth_mode: user_pool
# api_key: da2-xxxxxxxx

# Where "todoapp auth login --username" posts credentials.
auth_url: http://localhost:8080/auth/login

timeout_ms: 10000

# Show the last failed request in the status line instead of only logging it.
show_errors: false

# classic | neon | mono
theme: classic
`

// Config is the parsed configuration file.
type Config struct {
	Endpoint   string `yaml:"endpoint"`
	AuthMode   string `yaml:"auth_mode"`
	APIKey     string `yaml:"api_key,omitempty"`
	AuthURL    string `yaml:"auth_url,omitempty"`
	TimeoutMS  int    `yaml:"timeout_ms"`
	LogFile    string `yaml:"log_file,omitempty"`
	ShowErrors bool   `yaml:"show_errors"`
	Theme      string `yaml:"theme,omitempty"`

	// Path is the file the config was read from, empty when none existed.
	Path string `yaml:"-"`
}

// Dir is the per-user state directory, $TODOAPP_HOME or ~/.todoapp.
func Dir() (string, error) {
	if env := strings.TrimSpace(os.Getenv(EnvHome)); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var c Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &c); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return &c
}

// Load reads path (or DefaultPath when empty), applies environment
// overrides and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAuthURL)); v != "" {
		c.AuthURL = v
	}
}

// Validate checks the fields that have a fixed set of values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("config: endpoint is empty")
	}
	switch c.AuthMode {
	case "user_pool", "api_key", "none":
	default:
		return fmt.Errorf("config: unknown auth_mode %q", c.AuthMode)
	}
	if c.AuthMode == "api_key" && c.APIKey == "" {
		return fmt.Errorf("config: auth_mode api_key needs api_key")
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("config: timeout_ms must not be negative")
	}
	return nil
}

// Timeout is the per-request timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return defaultTimeoutMS * time.Millisecond
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// LogPath is the diagnostic log file.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

// Init writes the commented default config to path. An existing file is
// kept unless force is set.
func Init(path string, force bool) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o600); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// Redacted renders the config as YAML with secrets masked.
func (c *Config) Redacted() (string, error) {
	cp := *c
	if cp.APIKey != "" {
		cp.APIKey = "****"
	}
	b, err := yaml.Marshal(&cp)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(b), nil
}
