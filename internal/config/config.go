// Package config loads the engine's run configuration: simulation deadline,
// solver precision epsilon, and default link sharing policy. Mirrors
// sim/workload.WorkloadSpec's YAML + version-upgrade pattern, since this is
// the same shape of problem (a small versioned document loaded once at
// startup) applied to engine-level knobs instead of workload generation.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/simgrid/simgrid/internal/lmm"
)

// RunConfig is the top-level engine configuration document.
type RunConfig struct {
	Version        string  `yaml:"version"`
	Deadline       float64 `yaml:"deadline,omitempty"` // 0 = unbounded
	Epsilon        float64 `yaml:"epsilon,omitempty"`
	SharingPolicy  string  `yaml:"sharing_policy,omitempty"` // "shared" (default) or "fat_pipe"
	TraceOutput    string  `yaml:"trace_output,omitempty"`
	TraceDB        string  `yaml:"trace_db,omitempty"`
}

// defaultEpsilon matches the solver's own zero-value fallback so a config
// omitting epsilon behaves identically to one that was never loaded.
const defaultEpsilon = lmm.DefaultEpsilon

// UpgradeV1ToV0 auto-upgrades an unversioned run config to "1", the only
// version this kernel has shipped so far. Kept as a hook, not dead code: the
// moment a v2 field needs migrating (e.g. a renamed sharing_policy value),
// this is where that translation goes. Idempotent.
func UpgradeV1ToV0(cfg *RunConfig) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}
}

// LoadRunConfig reads and validates a run configuration from path.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	UpgradeV1ToV0(&cfg)
	if cfg.Epsilon == 0 {
		cfg.Epsilon = defaultEpsilon
	}
	return &cfg, nil
}

// LinkSharingPolicy maps the config's string form to the lmm constant, defaulting
// to Shared for an empty or unrecognized value (logged, not fatal).
func (c *RunConfig) LinkSharingPolicy() lmm.SharingPolicy {
	switch c.SharingPolicy {
	case "fat_pipe":
		return lmm.FatPipe
	case "", "shared":
		return lmm.Shared
	default:
		logrus.Warnf("run config: unrecognized sharing_policy %q, defaulting to shared", c.SharingPolicy)
		return lmm.Shared
	}
}
