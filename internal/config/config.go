// Package config loads and saves the simulator's TOML configuration
// file: pipeline resource sizes, trace options, and statistics output
// options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable knob this simulator exposes outside of
// the program image itself.
type Config struct {
	Pipeline struct {
		MaxCycles     uint64 `toml:"max_cycles"`
		ROBCapacity   int    `toml:"rob_capacity"`
		RSCount       int    `toml:"reservation_stations"`
		LSBCount      int    `toml:"load_store_buffer_entries"`
		FetchCapacity int    `toml:"fetch_buffer_entries"`
	} `toml:"pipeline"`

	Trace struct {
		Enabled      bool   `toml:"enabled"`
		OutputFile   string `toml:"output_file"`
		Format       string `toml:"format"` // text, json
		FilterRegs   string `toml:"filter_registers"`
		MaxEntries   int    `toml:"max_entries"`
	} `toml:"trace"`

	Statistics struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
		Format     string `toml:"format"` // json, csv, html
	} `toml:"statistics"`
}

// DefaultConfig returns the sizes and options this simulator ships
// with, matching internal/core.DefaultConfig.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Pipeline.MaxCycles = 1_000_000
	cfg.Pipeline.ROBCapacity = 32
	cfg.Pipeline.RSCount = 16
	cfg.Pipeline.LSBCount = 16
	cfg.Pipeline.FetchCapacity = 4

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.Format = "text"
	cfg.Trace.FilterRegs = ""
	cfg.Trace.MaxEntries = 100_000

	cfg.Statistics.Enabled = false
	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rvsim")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rvsim")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory, creating it
// if needed. The trace and statistics output_file settings are used as
// given and are not resolved against it.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "rvsim", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "rvsim", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}
	return logDir
}

// Load loads configuration from the default config file, falling back
// to DefaultConfig if it does not exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// CoreConfig converts the pipeline section into internal/core's
// resource-size struct, which has no knowledge of TOML.
func (c *Config) CoreConfig() (capacity, rsCount, lsbCount, fetchCapacity int) {
	return c.Pipeline.ROBCapacity, c.Pipeline.RSCount, c.Pipeline.LSBCount, c.Pipeline.FetchCapacity
}
