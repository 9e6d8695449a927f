// Package memfileconf loads the YAML configuration read by
// cmd/memfileserver (swap directory, page-size bounds, autosync cadence).
// cmd/memfilecli does not use it; it takes only its -swap flag.
//
// Grounded on the teacher's preference for flag defaults living in a
// single struct declared right next to main (cmd/server's flag block),
// translated into a YAML file via gopkg.in/yaml.v3 since MemFile here is
// consumed by two separate binaries that should agree on one shape
// rather than duplicating flag definitions.
package memfileconf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of a MemFile deployment's settings.
type Config struct {
	// SwapDir is the directory memfileserver creates its demo swap file in.
	SwapDir string `yaml:"swap_dir"`

	// MinPageSize/MaxPageSize are loaded and saved but not read by any
	// code: the device block-size probe always uses memfile.MinPageSize
	// and memfile.MaxPageSize.
	MinPageSize int `yaml:"min_page_size"`
	MaxPageSize int `yaml:"max_page_size"`

	// AutosyncCron is a 6-field cron expression (seconds included) or an
	// "@every" descriptor controlling how often the autosync scheduler
	// requests a sync. Empty falls back to autosync.DefaultSchedule.
	AutosyncCron string `yaml:"autosync_cron"`

	// AutosyncFlush is loaded and saved but not read by memfileserver:
	// its autosync ticks sync without fsync.
	AutosyncFlush bool `yaml:"autosync_flush"`
}

// Default returns the configuration memfileserver falls back to when no
// config file is given.
func Default() Config {
	return Config{
		SwapDir:      os.TempDir(),
		MinPageSize:  512,
		MaxPageSize:  65536,
		AutosyncCron: "@every 30s",
	}
}

// Load reads and parses a YAML config file at path, filling in any zero
// fields from Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
