// Package config loads and saves narmvm's TOML configuration: gas
// budget, default memory layout, and debugger/trace toggles. Grounded on
// config/config.go's struct-of-sections shape and its
// Load/LoadFrom/Save/SaveTo/GetConfigPath conventions, re-pointed at the
// ARMv6-M Thumb core's settings instead of ARM2's.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/lookbusy1344/narmvm/vm"
)

// Config is the top-level narmvm configuration document.
type Config struct {
	Execution struct {
		MaxCycles  uint64 `toml:"max_cycles"`
		GasEnabled bool   `toml:"gas_enabled"`
		GasBudget  uint64 `toml:"gas_budget"`
	} `toml:"execution"`

	// Memory describes the default segment layout a host creates before
	// loading an image, when the image itself doesn't specify one.
	Memory struct {
		CodeBase  uint32 `toml:"code_base"`
		CodeSize  uint32 `toml:"code_size"`
		DataBase  uint32 `toml:"data_base"`
		DataSize  uint32 `toml:"data_size"`
		StackBase uint32 `toml:"stack_base"`
		StackSize uint32 `toml:"stack_size"`
	} `toml:"memory"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowRegisters bool `toml:"show_registers"`
	} `toml:"debugger"`

	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
	} `toml:"trace"`
}

// DefaultConfig returns a Config populated with narmvm's defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = vm.DefaultMaxCycles
	cfg.Execution.GasEnabled = false
	cfg.Execution.GasBudget = 10_000_000

	cfg.Memory.CodeBase = 0x00010000
	cfg.Memory.CodeSize = 0x00010000
	cfg.Memory.DataBase = 0x20000000
	cfg.Memory.DataSize = 0x00010000
	cfg.Memory.StackBase = 0x20010000
	cfg.Memory.StackSize = 0x00008000

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowRegisters = true

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.log"

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
		configDir = filepath.Join(configDir, "narmvm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "narmvm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "narmvm", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "narmvm", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given path, falling back to
// defaults if the file does not exist.
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

// SaveTo saves configuration to the given path.
func (c *Config) SaveTo(path string) error {
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
