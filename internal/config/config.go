// Package config resolves flowboard settings from an optional YAML file and
// FLOWBOARD_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName        = ".flowboard"
	dbFileName     = "flowboard.db"
	configFileName = "config.yaml"

	defaultHTTPAddr    = ":8080"
	defaultSinkTimeout = 10 * time.Second
)

// BoardSinkConfig points at an optional remote board service.
type BoardSinkConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	DBPath    string          `yaml:"db_path"`
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"`
	HTTPAddr  string          `yaml:"http_addr"`
	BoardSink BoardSinkConfig `yaml:"board_sink"`

	// Path is the file the settings were read from, empty when none.
	Path string `yaml:"-"`
}

// Default returns the built-in settings rooted at home.
func Default(home string) Config {
	return Config{
		DBPath:    filepath.Join(home, dirName, dbFileName),
		LogLevel:  "info",
		LogFormat: "text",
		HTTPAddr:  defaultHTTPAddr,
		BoardSink: BoardSinkConfig{Timeout: defaultSinkTimeout},
	}
}

// Load builds the effective configuration. FLOWBOARD_CONFIG names the file;
// without it ~/.flowboard/config.yaml is used when it exists.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg := Default(home)

	path := os.Getenv("FLOWBOARD_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, dirName, configFileName)
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return Config{}, err
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.Path = path
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FLOWBOARD_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("FLOWBOARD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FLOWBOARD_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("FLOWBOARD_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("FLOWBOARD_BOARD_SINK_URL"); v != "" {
		c.BoardSink.URL = v
	}
	if v := os.Getenv("FLOWBOARD_BOARD_SINK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.BoardSink.Timeout = d
		}
	}
}

// Validate rejects settings the rest of the program cannot use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: db_path is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	if c.BoardSink.URL != "" && c.BoardSink.Timeout <= 0 {
		return fmt.Errorf("config: board_sink.timeout must be positive")
	}
	return nil
}
