// Package config loads the client configuration and stores the activated user.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/phroun/vim-fmi/client"
)

const (
	// DefaultHost is the exercise server used when none is configured.
	DefaultHost = "https://vim-fmi.bg"

	// AppDir is the directory name under the user config directory.
	AppDir = "vim-fmi-cli"

	configFile = "config.yaml"
	userFile   = "user.json"
)

// ErrNoUser means setup has not been run yet.
var ErrNoUser = errors.New("no user is set up")

type Config struct {
	// Host is the exercise server, overridden by $VIMFMI_HOST.
	Host string `yaml:"host"`

	// Editor overrides editor discovery, like $VIMFMI_EXECUTABLE.
	Editor string `yaml:"editor,omitempty"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`          // debug, info, warn, error
	Dir   string `yaml:"dir,omitempty"`  // log file directory
	JSON  bool   `yaml:"json,omitempty"` // JSON on stderr
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Host: DefaultHost,
		Log:  LogConfig{Level: "info"},
	}
}

// Dir returns the directory holding the config file and user store.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user config directory: %w", err)
	}
	return filepath.Join(base, AppDir), nil
}

// DefaultPath returns the location of config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if host := os.Getenv("VIMFMI_HOST"); host != "" {
		cfg.Host = host
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating its directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadUser loads the user stored in dir, or ErrNoUser.
func ReadUser(dir string) (*client.User, error) {
	data, err := os.ReadFile(filepath.Join(dir, userFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}

	var u client.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse %s: %w", userFile, err)
	}
	return &u, nil
}

// WriteUser stores u in dir. The file holds a token and is private.
func WriteUser(dir string, u *client.User) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, userFile), data, 0o600)
}
