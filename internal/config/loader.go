package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".dailynote"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration. Only operational knobs live
// here; the API credential stays in the environment.
type File struct {
	// BaseDir overrides the repository root.
	BaseDir string `yaml:"base_dir"`

	// Timezone overrides the default-date timezone.
	Timezone string `yaml:"timezone"`

	// Keywords overrides the collection queries.
	Keywords []string `yaml:"keywords"`

	// Endpoint overrides the search API endpoint.
	Endpoint string `yaml:"endpoint"`

	// ResultCount overrides the per-keyword result count.
	ResultCount int `yaml:"result_count"`

	// RequestDelaySeconds overrides the inter-query delay.
	RequestDelaySeconds float64 `yaml:"request_delay_seconds"`

	// AuthorCommand overrides the authoring agent binary.
	AuthorCommand *string `yaml:"author_command"`

	// AuthorTimeoutSeconds overrides the authoring call deadline.
	AuthorTimeoutSeconds int `yaml:"author_timeout_seconds"`

	// ImageCommand overrides the image generator binary.
	ImageCommand *string `yaml:"image_command"`

	// AllowPlaceholder toggles the degraded placeholder image generator.
	AllowPlaceholder *bool `yaml:"allow_placeholder"`
}

// LoadConfigFile loads the YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .dailynote in the current directory
// 3. Look for .dailynote in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges the file's settings into the config. File values override
// defaults; CLI flags applied afterwards override both.
func (f *File) Apply(cfg *Config) {
	if f.BaseDir != "" {
		cfg.BaseDir = f.BaseDir
	}
	if f.Timezone != "" {
		cfg.Timezone = f.Timezone
	}
	if len(f.Keywords) > 0 {
		cfg.Keywords = append([]string(nil), f.Keywords...)
	}
	if f.Endpoint != "" {
		cfg.Endpoint = f.Endpoint
	}
	if f.ResultCount > 0 {
		cfg.ResultCount = f.ResultCount
	}
	if f.RequestDelaySeconds > 0 {
		cfg.RequestDelay = time.Duration(f.RequestDelaySeconds * float64(time.Second))
	}
	if f.AuthorCommand != nil {
		cfg.AuthorCommand = *f.AuthorCommand
	}
	if f.AuthorTimeoutSeconds > 0 {
		cfg.AuthorTimeout = time.Duration(f.AuthorTimeoutSeconds) * time.Second
	}
	if f.ImageCommand != nil {
		cfg.ImageCommand = *f.ImageCommand
	}
	if f.AllowPlaceholder != nil {
		cfg.AllowPlaceholder = *f.AllowPlaceholder
	}
}
