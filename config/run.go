package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/kbukum/rivet/errors"
	"github.com/kbukum/rivet/observability"
	"github.com/kbukum/rivet/validation"
)

// Tool names accepted as keys of RunConfig.Tools.
const (
	ToolGenus   = "genus"
	ToolInnovus = "innovus"
	ToolPegasus = "pegasus"
)

// RunConfig is the configuration of one rivet invocation.
//
//	name: soc
//	work_dir: build
//	hierarchy: hierarchy.yml
//	tools:
//	  genus:
//	    binary: /opt/cadence/GENUS211/bin/genus
//	nodes:
//	  adder4:
//	    syn:
//	      pin: true
//	    par:
//	      start: place_opt_design
type RunConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// WorkDir holds every module's build directory.
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`
	// PDKRoot is the process design kit the reference flow reads libraries
	// and rule decks from.
	PDKRoot string `yaml:"pdk_root" mapstructure:"pdk_root"`
	// Hierarchy is the module hierarchy file.
	Hierarchy string `yaml:"hierarchy" mapstructure:"hierarchy"`
	// Tools overrides how each tool is launched.
	Tools map[string]ToolOverride `yaml:"tools" mapstructure:"tools" validate:"dive,keys,oneof=genus innovus pegasus,endkeys"`
	// Nodes adjusts individual steps, keyed by module then stage. Keys
	// are matched case-insensitively.
	Nodes map[string]map[string]NodeConfig `yaml:"nodes" mapstructure:"nodes" validate:"dive,dive"`
}

// ToolOverride replaces a tool's binary and adds launch arguments.
type ToolOverride struct {
	Binary string   `yaml:"binary" mapstructure:"binary"`
	Args   []string `yaml:"args" mapstructure:"args"`
}

// NodeConfig adjusts one step of the flow.
type NodeConfig struct {
	// Start resumes the step from the checkpoint written after this
	// substep.
	Start string `yaml:"start" mapstructure:"start" validate:"omitempty,identifier"`
	// Checkpoint overrides where the start checkpoint is read from.
	Checkpoint string `yaml:"checkpoint" mapstructure:"checkpoint"`
	// Stop ends the step after this substep.
	Stop string `yaml:"stop" mapstructure:"stop" validate:"omitempty,identifier"`
	// Pin marks the step as already built.
	Pin bool `yaml:"pin" mapstructure:"pin"`
	// Hooks insert or replace substeps.
	Hooks []HookConfig `yaml:"hooks" mapstructure:"hooks" validate:"dive"`
}

// HookConfig is a user substep. At most one of Before, After and Replace
// may be set; with none the hook is appended.
type HookConfig struct {
	Name       string `yaml:"name" mapstructure:"name" validate:"required,identifier"`
	Command    string `yaml:"command" mapstructure:"command" validate:"required"`
	Before     string `yaml:"before" mapstructure:"before"`
	After      string `yaml:"after" mapstructure:"after"`
	Replace    string `yaml:"replace" mapstructure:"replace"`
	Checkpoint bool   `yaml:"checkpoint" mapstructure:"checkpoint"`
}

// ApplyDefaults fills unset fields.
func (c *RunConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Observability.ApplyDefaults()
	if c.WorkDir == "" {
		c.WorkDir = "build"
	}
	if abs, err := filepath.Abs(c.WorkDir); err == nil {
		c.WorkDir = abs
	}
}

// Validate checks the configuration. Errors are *errors.AppError.
func (c *RunConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New()
	for _, module := range slices.Sorted(maps.Keys(c.Nodes)) {
		v.Identifier("nodes", module)
	}
	nodes := c.NodeConfigs()
	for _, key := range slices.Sorted(maps.Keys(nodes)) {
		node := nodes[key]
		prefix := "nodes." + key
		v.Custom(node.Checkpoint == "" || node.Start != "", prefix+".checkpoint", "requires start")

		names := make([]string, len(node.Hooks))
		for i, h := range node.Hooks {
			names[i] = h.Name
			field := fmt.Sprintf("%s.hooks[%d]", prefix, i)
			set := 0
			for _, anchor := range []struct{ name, value string }{
				{"before", h.Before}, {"after", h.After}, {"replace", h.Replace},
			} {
				if anchor.value != "" {
					set++
					v.Identifier(field+"."+anchor.name, anchor.value)
				}
			}
			v.Custom(set <= 1, field, "only one of before, after and replace may be set")
		}
		v.Unique(prefix+".hooks", names)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Node returns the configuration of one stage of a module.
func (c *RunConfig) Node(module, stage string) (NodeConfig, bool) {
	n, ok := c.NodeConfigs()[module+"."+stage]
	return n, ok
}

// NodeConfigs flattens Nodes into "<module>.<stage>" keys.
func (c *RunConfig) NodeConfigs() map[string]NodeConfig {
	flat := make(map[string]NodeConfig)
	for module, stages := range c.Nodes {
		for stage, node := range stages {
			flat[module+"."+stage] = node
		}
	}
	return flat
}

// RequireHierarchy reports a missing hierarchy file setting.
func (c *RunConfig) RequireHierarchy() error {
	if c.Hierarchy == "" {
		return errors.MissingField("hierarchy")
	}
	return nil
}
