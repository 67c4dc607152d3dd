// Package simconfig holds optional, JSON-encoded simulation options:
// the runaway-cycle safety ceiling and cache-timing opt-in. None of
// these change default engine semantics when absent — every field has
// a zero-impact default (spec.md §9's hardcoded safety ceiling becomes
// configurable here instead of fixed).
package simconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/archsim/tomasulo16/memsys"
)

// Config holds the options that shape a run without changing the
// hardware inventory or the program being simulated.
type Config struct {
	// MaxCycles bounds how many cycles Run will execute before giving
	// up and reporting a runtime-bound error. Default: 100000.
	MaxCycles uint64 `json:"max_cycles"`

	// CacheTiming enables the optional memsys cache-timing model for
	// the LOAD/STORE memory phase. Default: false, meaning memory-phase
	// duration is exactly each station's configured ExecCycles.
	CacheTiming bool `json:"cache_timing"`

	// Cache is the cache geometry used when CacheTiming is true.
	Cache memsys.Config `json:"cache"`
}

// Default returns the configuration a run uses when no sim-config file
// is given.
func Default() *Config {
	return &Config{
		MaxCycles:   100000,
		CacheTiming: false,
		Cache:       memsys.DefaultConfig(),
	}
}

// Load reads a Config from a JSON file, starting from Default and
// overwriting whatever fields the file sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sim config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sim config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save writes c to path as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sim config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sim config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a runnable
// simulation.
func (c *Config) Validate() error {
	if c.MaxCycles == 0 {
		return fmt.Errorf("max_cycles must be > 0")
	}
	if c.CacheTiming {
		if c.Cache.Size <= 0 || c.Cache.Associativity <= 0 || c.Cache.BlockSize <= 0 {
			return fmt.Errorf("cache geometry must be positive when cache_timing is enabled")
		}
		if c.Cache.Size%(c.Cache.Associativity*c.Cache.BlockSize) != 0 {
			return fmt.Errorf("cache size must divide evenly into associativity * block size")
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
