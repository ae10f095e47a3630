// Package config loads the optional .railsnav.yml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is looked up from the navigated file's directory upwards.
const FileName = ".railsnav.yml"

// MaxFileSize bounds how much of a config file is read.
const MaxFileSize = 64 * 1024

// Config holds project-level settings. Naming conventions are fixed and
// not configurable.
type Config struct {
	LogLevel         string   `yaml:"log_level"`
	WorkspaceMarkers []string `yaml:"workspace_markers"`
	Audit            Audit    `yaml:"audit"`

	// Path is the file the config was read from; empty for defaults.
	Path string `yaml:"-"`
}

type Audit struct {
	Ignore         []string `yaml:"ignore"`
	IncludePrivate bool     `yaml:"include_private"`
}

func Default() *Config {
	return &Config{
		LogLevel:         "warn",
		WorkspaceMarkers: []string{".git", "Gemfile"},
	}
}

// Parse decodes YAML into a Config layered over Default.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("config exceeds maximum size (%d > %d)", len(data), MaxFileSize)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	markers := make([]string, 0, len(cfg.WorkspaceMarkers))
	for _, marker := range cfg.WorkspaceMarkers {
		if marker = strings.TrimSpace(marker); marker != "" {
			markers = append(markers, marker)
		}
	}
	if len(markers) == 0 {
		markers = Default().WorkspaceMarkers
	}
	cfg.WorkspaceMarkers = markers
	return cfg, nil
}

// Load reads the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover walks up from dir looking for FileName and falls back to Default
// when none exists.
func Discover(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for current := abs; ; current = filepath.Dir(current) {
		candidate := filepath.Join(current, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to inspect %s: %w", candidate, err)
		}
		if filepath.Dir(current) == current {
			return Default(), nil
		}
	}
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q (supported: debug, info, warn, error)", name)
	}
}
