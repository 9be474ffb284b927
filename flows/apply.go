package flows

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kbukum/rivet/config"
	"github.com/kbukum/rivet/dag"
	"github.com/kbukum/rivet/errors"
	"github.com/kbukum/rivet/step"
	"github.com/kbukum/rivet/substep"
	"github.com/kbukum/rivet/tool"
)

// Apply adjusts the steps of flow from per-node configuration keyed by
// "<module>.<stage>". Hooks are applied first, then pin, start and stop.
// Every referenced module, stage and substep must exist.
func Apply(flow *dag.Dag[*FlatFlow], nodes map[string]config.NodeConfig) error {
	for _, key := range slices.Sorted(maps.Keys(nodes)) {
		ts, err := Lookup(flow, key)
		if err != nil {
			return err
		}
		if err := applyNode(ts, nodes[key]); err != nil {
			return err
		}
	}
	return nil
}

func applyNode(ts *tool.ToolStep, n config.NodeConfig) error {
	for _, h := range n.Hooks {
		if err := applyHook(ts, h); err != nil {
			return err
		}
	}
	if n.Pin {
		ts.SetPinned(true)
	}
	if n.Start != "" {
		if ts.Substeps.Index(n.Start) < 0 {
			return errors.CheckpointNotFound(ts.Name(), n.Start)
		}
		ts.ResumeFrom(substep.Checkpoint{Name: n.Start, Path: n.Checkpoint})
	}
	if n.Stop != "" {
		if ts.Substeps.Index(n.Stop) < 0 {
			return errors.NotFound("substep", n.Stop).WithDetail("step", ts.Name())
		}
		ts.StopAfter(n.Stop)
	}
	if n.Start != "" && n.Stop != "" && ts.Substeps.Index(n.Start) > ts.Substeps.Index(n.Stop) {
		return errors.InvalidInput("stop", fmt.Sprintf("stop %q comes before start %q", n.Stop, n.Start)).
			WithDetail("step", ts.Name())
	}
	return nil
}

func applyHook(ts *tool.ToolStep, h config.HookConfig) error {
	anchor := func(name string) (int, error) {
		i := ts.Substeps.Index(name)
		if i < 0 {
			return 0, errors.NotFound("substep", name).WithDetail("step", ts.Name()).WithDetail("hook", h.Name)
		}
		return i, nil
	}
	switch {
	case h.Replace != "":
		return ts.ReplaceHook(h.Name, h.Command, h.Replace, h.Checkpoint)
	case h.Before != "":
		i, err := anchor(h.Before)
		if err != nil {
			return err
		}
		return ts.AddHook(h.Name, h.Command, i, h.Checkpoint)
	case h.After != "":
		i, err := anchor(h.After)
		if err != nil {
			return err
		}
		return ts.AddHook(h.Name, h.Command, i+1, h.Checkpoint)
	default:
		return ts.AddHook(h.Name, h.Command, ts.Substeps.Len(), h.Checkpoint)
	}
}

// Lookup finds the step for target, which is "<module>.<stage>" or a bare
// module name meaning its last stage. Module names match exactly first,
// then case-insensitively.
func Lookup(flow *dag.Dag[*FlatFlow], target string) (*tool.ToolStep, error) {
	module, stage, ok := strings.Cut(target, ".")
	if !ok {
		stage = Stages[len(Stages)-1]
	}
	f := findModule(flow, module)
	if f == nil {
		return nil, errors.NotFound("module", module)
	}
	ts, ok := f.Stage(strings.ToLower(stage))
	if !ok {
		return nil, errors.NotFound("stage", stage).WithDetail("module", f.Module)
	}
	return ts, nil
}

func findModule(flow *dag.Dag[*FlatFlow], name string) *FlatFlow {
	if p := dag.FindMut(flow, name); p != nil {
		return *p
	}
	var found *FlatFlow
	flow.Walk(func(sub *dag.Dag[*FlatFlow], _ int) bool {
		if strings.EqualFold(sub.Node.Module, name) {
			found = sub.Node
			return false
		}
		return true
	})
	return found
}

// Targets registers every stage of every module as "<module>.<stage>" and
// every module under its bare name for its last stage.
func Targets(flow *dag.Dag[*FlatFlow]) *step.Registry {
	reg := step.NewRegistry()
	for _, f := range flow.Nodes() {
		if _, ok := reg.Get(f.Module); ok {
			continue
		}
		for _, stage := range Stages {
			ts, _ := f.Stage(stage)
			reg.Register(f.Module+"."+stage, ts)
		}
		last, _ := f.Stage(Stages[len(Stages)-1])
		reg.Register(f.Module, last)
	}
	return reg
}

// Override applies configured binaries and extra arguments to the tool
// dialects of s.
func (s *Settings) Override(tools map[string]config.ToolOverride) {
	*s = s.withDefaults()
	apply := func(d tool.Dialect, key string) tool.Dialect {
		o, ok := tools[key]
		if !ok {
			return d
		}
		return d.WithBinary(o.Binary).WithExtraArgs(o.Args...)
	}
	s.Genus = apply(s.Genus, config.ToolGenus)
	s.Innovus = apply(s.Innovus, config.ToolInnovus)
	s.Pegasus = apply(s.Pegasus, config.ToolPegasus)
}

// Dialects returns the dialects the flow launches.
func (s Settings) Dialects() []tool.Dialect {
	s = s.withDefaults()
	return []tool.Dialect{s.Genus, s.Innovus, s.Pegasus}
}
