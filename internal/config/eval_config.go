package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/colexpr/colexpr/internal/errors"
)

// EvalConfig controls parallel expression evaluation behavior
type EvalConfig struct {
	// MaxGroupSize caps the number of lanes per lane group.
	MaxGroupSize int `json:"max_group_size"`

	// GroupScratchBudget is the scratch memory available to one lane
	// group, in bytes. Group width is derated so that every lane's
	// scratch slots fit within this budget.
	GroupScratchBudget int `json:"group_scratch_budget"`

	// MaxResidentGroups caps the number of lane groups executing
	// concurrently. Zero means one group per available CPU.
	MaxResidentGroups int `json:"max_resident_groups"`
}

// DefaultEvalConfig returns production-ready defaults
func DefaultEvalConfig() *EvalConfig {
	return &EvalConfig{
		MaxGroupSize:       128,
		GroupScratchBudget: 48 * 1024,
		MaxResidentGroups:  0, // resolved to CPU count at launch
	}
}

// LoadFromEnv overrides settings from environment variables
func (c *EvalConfig) LoadFromEnv() {
	if v := os.Getenv("COLEXPR_MAX_GROUP_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxGroupSize = n
		}
	}
	if v := os.Getenv("COLEXPR_GROUP_SCRATCH_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.GroupScratchBudget = n
		}
	}
	if v := os.Getenv("COLEXPR_MAX_RESIDENT_GROUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxResidentGroups = n
		}
	}
}

// Validate checks configuration consistency
func (c *EvalConfig) Validate() error {
	if c.MaxGroupSize <= 0 {
		return errors.Newf(errors.InvalidConfig, "max group size must be positive, got %d", c.MaxGroupSize)
	}
	if c.GroupScratchBudget <= 0 {
		return errors.Newf(errors.InvalidConfig, "group scratch budget must be positive, got %d", c.GroupScratchBudget)
	}
	if c.MaxResidentGroups < 0 {
		return errors.Newf(errors.InvalidConfig, "max resident groups must be non-negative, got %d", c.MaxResidentGroups)
	}
	return nil
}

// ResidentGroups resolves the concurrent group cap, defaulting to the
// number of available CPUs.
func (c *EvalConfig) ResidentGroups() int {
	if c.MaxResidentGroups > 0 {
		return c.MaxResidentGroups
	}
	return runtime.GOMAXPROCS(0)
}
