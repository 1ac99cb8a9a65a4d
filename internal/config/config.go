package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"cialist/internal/errors"
)

// Config represents the application configuration structure.
// It defines listing limits, locale and theme overrides and watch settings.
type Config struct {
	Listing struct {
		Capacity         int      `yaml:"capacity"`          // Maximum entries per listing
		ScratchLimit     int      `yaml:"scratch_limit"`     // Largest entry batch a scan may allocate
		MaxTasks         int      `yaml:"max_tasks"`         // Concurrent scans allowed
		ShowHidden       bool     `yaml:"show_hidden"`       // List entries flagged hidden
		DirectoriesFirst bool     `yaml:"directories_first"` // Sort directories ahead of files
		Exclude          []string `yaml:"exclude"`           // Glob patterns of names to skip
	} `yaml:"listing"`
	Locale struct {
		Language string `yaml:"language"` // BCP 47 tag; empty uses the system language
	} `yaml:"locale"`
	Theme struct {
		Directory string `yaml:"directory"` // Display color for directories (#RRGGBB)
		Text      string `yaml:"text"`      // Display color for files (#RRGGBB)
	} `yaml:"theme"`
	Watch struct {
		DebounceMS int `yaml:"debounce_ms"` // Quiet period before a rescan
	} `yaml:"watch"`
	Icons struct {
		ExportScale int `yaml:"export_scale"` // Integer upscale for exported PNG icons
	} `yaml:"icons"`
	Log struct {
		Debug bool   `yaml:"debug"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// DefaultPath returns ~/.config/cialist/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cialist", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Unmarshal over the defaults so unset fields keep their default values
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Listing.Capacity = 1024
	cfg.Listing.ScratchLimit = 1 << 16
	cfg.Listing.MaxTasks = 2
	cfg.Listing.ShowHidden = false
	cfg.Listing.DirectoriesFirst = true
	cfg.Listing.Exclude = []string{}

	cfg.Theme.Directory = "#FFFF00"
	cfg.Theme.Text = "#FFFFFF"

	cfg.Watch.DebounceMS = 250
	cfg.Icons.ExportScale = 1

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if c.Listing.Capacity < 1 {
		return errors.NewConfigError("must be >= 1", "listing.capacity", errors.InvalidConfig, nil)
	}
	if c.Listing.ScratchLimit < 1 {
		return errors.NewConfigError("must be >= 1", "listing.scratch_limit", errors.InvalidConfig, nil)
	}
	if c.Listing.MaxTasks < 1 {
		return errors.NewConfigError("must be >= 1", "listing.max_tasks", errors.InvalidConfig, nil)
	}
	for i, pattern := range c.Listing.Exclude {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError(fmt.Sprintf("bad pattern %d", i), "listing.exclude", errors.InvalidConfig, err)
		}
	}

	if _, err := ParseColor(c.Theme.Directory); err != nil {
		return errors.NewConfigError("bad color", "theme.directory", errors.InvalidConfig, err)
	}
	if _, err := ParseColor(c.Theme.Text); err != nil {
		return errors.NewConfigError("bad color", "theme.text", errors.InvalidConfig, err)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.NewConfigError("must be >= 0", "watch.debounce_ms", errors.InvalidConfig, nil)
	}
	if err := ValidateExportScale(c.Icons.ExportScale); err != nil {
		return err
	}

	return nil
}

// Icon export scale bounds
const (
	MinExportScale = 1
	MaxExportScale = 16
)

// ValidateExportScale checks an icon export scale factor
func ValidateExportScale(scale int) error {
	if scale < MinExportScale || scale > MaxExportScale {
		return errors.NewConfigError(fmt.Sprintf("must be between %d and %d", MinExportScale, MaxExportScale),
			"icons.export_scale", errors.InvalidConfig, nil)
	}
	return nil
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA" into a packed 0xRRGGBBAA value.
// Colors without alpha are opaque.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		hex += "FF"
	case 8:
	default:
		return 0, fmt.Errorf("color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Listing.Capacity = 64
	cfg.Listing.MaxTasks = 4
	cfg.Locale.Language = "en"
	return cfg
}
