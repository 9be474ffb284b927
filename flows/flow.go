package flows

import (
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/kbukum/rivet/dag"
	"github.com/kbukum/rivet/errors"
	"github.com/kbukum/rivet/substep"
	"github.com/kbukum/rivet/tool"
	"github.com/kbukum/rivet/validation"
)

// Settings configures ReferenceFlow.
type Settings struct {
	// WorkDir holds one build-<module> directory per module.
	WorkDir string
	PDK     PDK
	Clock   Clock
	// Dialects launch the tools. Zero values use the tool defaults.
	Genus   tool.Dialect
	Innovus tool.Dialect
	Pegasus tool.Dialect
	// Env is added to every tool's environment.
	Env []string
}

func (s Settings) withDefaults() Settings {
	if s.Clock.Name == "" {
		s.Clock = DefaultClock
	}
	if s.Genus.Binary == "" {
		s.Genus = tool.Genus()
	}
	if s.Innovus.Binary == "" {
		s.Innovus = tool.Innovus()
	}
	if s.Pegasus.Binary == "" {
		s.Pegasus = tool.Pegasus(tool.PegasusDRC)
	}
	return s
}

// FlatFlow is the chain of steps that builds one module.
type FlatFlow struct {
	Module string
	Info   ModuleInfo
	Syn    *tool.ToolStep
	Par    *tool.ToolStep
	Drc    *tool.ToolStep

	netlistDir  string
	abstractDir string
	netlist     string
}

// Name implements dag.NamedNode.
func (f *FlatFlow) Name() string { return f.Module }

// Stage returns the step for stage name.
func (f *FlatFlow) Stage(name string) (*tool.ToolStep, bool) {
	switch name {
	case StageSyn:
		return f.Syn, true
	case StagePar:
		return f.Par, true
	case StageDrc:
		return f.Drc, true
	}
	return nil, false
}

// Steps returns the module's steps in execution order.
func (f *FlatFlow) Steps() []*tool.ToolStep { return []*tool.ToolStep{f.Syn, f.Par, f.Drc} }

// Netlist is the synthesized netlist, in the pinned run when synthesis is
// pinned.
func (f *FlatFlow) Netlist() string { return filepath.Join(f.netlistDir, f.netlist) }

// LEF is the abstract view a parent places.
func (f *FlatFlow) LEF() string { return filepath.Join(f.abstractDir, f.Module+"ILM.lef") }

// ILM is the interface logic model directory a parent reads.
func (f *FlatFlow) ILM() string { return filepath.Join(f.abstractDir, f.Module+"ILMDir") }

// GDS is the layout stream.
func (f *FlatFlow) GDS() string { return filepath.Join(f.abstractDir, f.Module+".gds") }

// MappedSDC is the constraints synthesis writes for place-and-route.
func (f *FlatFlow) MappedSDC() string { return filepath.Join(f.netlistDir, f.Module+".mapped.sdc") }

func (f *FlatFlow) abstract() abstract {
	return abstract{Name: f.Module, LEF: f.LEF(), ILM: f.ILM()}
}

// ReferenceFlow composes syn, par and drc steps for every module of
// hierarchy, children first. A module that appears more than once is built
// once: later occurrences share the first one's steps.
func ReferenceFlow(s Settings, hierarchy *dag.Dag[ModuleInfo]) (*dag.Dag[*FlatFlow], error) {
	s = s.withDefaults()
	if s.WorkDir == "" {
		return nil, errors.MissingField("work_dir")
	}
	built := make(map[string]*FlatFlow)

	return dag.Hierarchical(hierarchy, func(m ModuleInfo, children []dag.Pair[ModuleInfo, *FlatFlow]) (*FlatFlow, error) {
		if err := validation.Validate(m); err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(children))
		for _, c := range children {
			if seen[c.Source.Name] {
				return nil, errors.InvalidInput("children", fmt.Sprintf("module %q is listed twice", c.Source.Name))
			}
			seen[c.Source.Name] = true
		}
		if prev, ok := built[m.Name]; ok {
			if !reflect.DeepEqual(prev.Info, m) {
				return nil, errors.InvalidInput("module", fmt.Sprintf("module %q is described twice with different contents", m.Name))
			}
			return prev, nil
		}

		f, err := flatFlow(s, m, children)
		if err != nil {
			return nil, err
		}
		built[m.Name] = f
		return f, nil
	})
}

func flatFlow(s Settings, m ModuleInfo, children []dag.Pair[ModuleInfo, *FlatFlow]) (*FlatFlow, error) {
	moduleDir := filepath.Join(s.WorkDir, "build-"+m.Name)
	hierarchical := len(children) > 0

	f := &FlatFlow{
		Module:      m.Name,
		Info:        m,
		netlistDir:  filepath.Join(moduleDir, "syn-rundir"),
		abstractDir: filepath.Join(moduleDir, "par-rundir"),
		netlist:     netlistName(m.Name, hierarchical),
	}
	switch m.Pin.Stage {
	case StageSyn:
		f.netlistDir = m.Pin.Path
	case StagePar:
		f.netlistDir = m.Pin.Path
		f.abstractDir = m.Pin.Path
	}

	abstracts := make([]abstract, len(children))
	childNames := make([]string, len(children))
	for i, c := range children {
		abstracts[i] = c.Result.abstract()
		childNames[i] = c.Result.Module
	}

	syn, err := synStep(s, f, filepath.Join(moduleDir, "syn-rundir"), abstracts, childNames)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		syn.DependOn(c.Result.Par)
	}
	par, err := parStep(s, f, filepath.Join(moduleDir, "par-rundir"), abstracts, syn)
	if err != nil {
		return nil, err
	}
	drc, err := drcStep(s, f, filepath.Join(moduleDir, "drc-rundir"), par)
	if err != nil {
		return nil, err
	}

	switch m.Pin.Stage {
	case StagePar:
		par.SetPinned(true)
		syn.SetPinned(true)
	case StageSyn:
		syn.SetPinned(true)
	}
	f.Syn, f.Par, f.Drc = syn, par, drc
	return f, nil
}

func synStep(s Settings, f *FlatFlow, dir string, children []abstract, childNames []string) (*tool.ToolStep, error) {
	m := f.Info
	setup, ok := s.PDK.Corner(CornerSetup)
	if !ok {
		return nil, errors.InvalidInput("pdk", "no setup corner")
	}
	mmmc, err := MMMC(DefaultMMMC([]string{filepath.Join(dir, "clock_pin_constraints.sdc")}, s.PDK.Corners))
	if err != nil {
		return nil, err
	}

	sources := m.Sources
	ts := tool.New(m.Name+"."+StageSyn, dir, s.Genus, nil)
	if len(childNames) > 0 {
		sources = make([]string, len(m.Sources))
		for i, src := range m.Sources {
			name := strippedName(src)
			ts.AddGeneratedFile(name, stripFile(src, childNames))
			sources[i] = filepath.Join(dir, name)
		}
	}
	ts.AddFile("clock_pin_constraints.sdc", SDC(s.Clock))
	ts.AddFile("mmmc.tcl", mmmc)
	ts.AddFile("power_spec.cpf", powerSpec(m.Name))
	ts.Env = s.Env

	subs := []substep.Substep{genusDefaultOptions()}
	if s.PDK.ClockGate != "" {
		subs = append(subs, dontAvoidLibCells(s.PDK.ClockGate))
	}
	subs = append(subs,
		genusReadDesignFiles(filepath.Join(dir, "mmmc.tcl"), []string{s.PDK.TechLEF, s.PDK.CellLEF}, sources, children),
		elaborate(m.Name),
		genusInitDesign(m.Name, children),
		powerIntent(filepath.Join(dir, "power_spec.cpf")),
		synGeneric(),
		synMap(),
		addTieoffs(s.PDK.TieHigh, s.PDK.TieLow),
		genusWriteDesign(m.Name, f.netlist, setup, len(childNames) > 0),
	)
	return withSequence(ts, subs)
}

func parStep(s Settings, f *FlatFlow, dir string, children []abstract, syn *tool.ToolStep) (*tool.ToolStep, error) {
	m := f.Info
	mmmc, err := MMMC(DefaultMMMC([]string{filepath.Join(dir, "clock_pin_constraints.sdc"), f.MappedSDC()}, s.PDK.Corners))
	if err != nil {
		return nil, err
	}
	ts := tool.New(m.Name+"."+StagePar, dir, s.Innovus, nil, syn)
	ts.AddFile("clock_pin_constraints.sdc", SDC(s.Clock))
	ts.AddFile("mmmc.tcl", mmmc)
	ts.AddFile("floorplan.tcl", floorplanTcl(m.Placement))
	ts.AddFile("power_spec.cpf", powerSpec(m.Name))
	ts.Env = s.Env

	subs := []substep.Substep{
		setDefaultProcess(s.PDK.ProcessNode),
		parReadDesignFiles(m.Name, f.Netlist(), filepath.Join(dir, "mmmc.tcl"), []string{s.PDK.TechLEF, s.PDK.CellLEF}, children),
		parInitDesign(),
		innovusSettings(s.PDK.Routing),
	}
	if s.PDK.Settings != "" {
		subs = append(subs, technologySettings(s.PDK))
	}
	subs = append(subs,
		floorplanDesign(filepath.Join(dir, "floorplan.tcl"), filepath.Join(dir, "power_spec.cpf")),
		connectGlobalNets("connect_nets"),
		powerStraps(s.PDK.PowerStraps),
		placePins(m.Name, s.PDK.PinLayers),
		placeOptDesign(),
		addFillers(s.PDK.Fillers),
		routeDesign(),
		optDesign(),
		writeRegs(),
		connectGlobalNets("reconnect_nets"),
		parWriteDesign(m.Name, dir, s.PDK),
		writeILM(m.Name, s.PDK.PinLayers.Assign),
	)
	return withSequence(ts, subs)
}

func drcStep(s Settings, f *FlatFlow, dir string, par *tool.ToolStep) (*tool.ToolStep, error) {
	d := s.Pegasus.WithExtraArgs("-dp", "12", "-license_dp_continue", "-ui_data", "-top_cell", f.Module, "-gds", f.GDS())
	ts := tool.New(f.Module+"."+StageDrc, dir, d, nil, par)
	ts.Env = s.Env
	return withSequence(ts, []substep.Substep{
		drcSetup(f.Module, f.GDS()),
		drcRules(s.PDK.DRCRules),
	})
}

func withSequence(ts *tool.ToolStep, subs []substep.Substep) (*tool.ToolStep, error) {
	seq, err := substep.NewSequence(subs...)
	if err != nil {
		return nil, err
	}
	ts.Substeps = seq
	return ts, nil
}
