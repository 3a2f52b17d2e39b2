// Package config loads the server's tuning from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/staff-tools-mcp/internal/raster"
	"github.com/ironsheep/staff-tools-mcp/internal/staff"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "STAFF_MCP_CONFIG"

// Config is the server configuration. Fields missing from the file keep
// their defaults.
type Config struct {
	// Staff tunes the estimator, fitter and editor.
	Staff staff.Params `yaml:"staff"`

	// Threshold is the luminance below which a pixel binarizes to ink.
	Threshold uint8 `yaml:"threshold"`

	// Threads is the worker count used by staff_model.
	Threads int `yaml:"threads"`

	// LogLevel is "info" or "debug".
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Staff:     staff.DefaultParams(),
		Threshold: raster.DefaultThreshold,
		Threads:   runtime.NumCPU(),
		LogLevel:  "info",
	}
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if err := c.Staff.Validate(); err != nil {
		return fmt.Errorf("config: staff: %w", err)
	}
	if c.Threads < 1 {
		return fmt.Errorf("config: threads must be at least 1, got %d", c.Threads)
	}
	switch c.LogLevel {
	case "info", "debug":
	default:
		return fmt.Errorf("config: log_level must be info or debug, got %q", c.LogLevel)
	}
	return nil
}

// Parse decodes a YAML payload over the defaults. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by STAFF_MCP_CONFIG, or returns the defaults
// when the variable is unset.
func FromEnv() (Config, error) {
	path := strings.TrimSpace(os.Getenv(EnvPath))
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
