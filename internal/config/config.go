// Package config reads the dupeview configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
)

const appName = "dupeview"

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	Workers       int    `toml:"workers"`         // Files hashed in parallel
	Progress      bool   `toml:"progress"`        // Show the progress bar on a terminal
	SettingsFile  string `toml:"settings_file"`   // BoltDB settings store; "" keeps settings in memory
	DiffSizeLimit string `toml:"diff_size_limit"` // Combined size that triggers the diff warning, e.g. "512KiB"; "0" disables
	IncludeHidden bool   `toml:"include_hidden"`  // Include dot files when expanding directories
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Workers:       runtime.NumCPU(),
		Progress:      true,
		SettingsFile:  filepath.Join(defaultDir(), "settings.db"),
		DiffSizeLimit: "512KiB",
		IncludeHidden: true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/dupeview/config.toml or the
// platform equivalent.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.toml")
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.SizeLimit(); err != nil {
		return err
	}
	return nil
}

// SizeLimit parses DiffSizeLimit.
func (c *Config) SizeLimit() (uint64, error) {
	n, err := humanize.ParseBytes(c.DiffSizeLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid diff_size_limit %q: %w", c.DiffSizeLimit, err)
	}
	return n, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from r. Keys missing from r keep their defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes cfg to w.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads the Config at path. A missing file yields Default().
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Init writes cfg to path, refusing to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
