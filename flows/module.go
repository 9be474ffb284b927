package flows

import (
	"path/filepath"

	"github.com/kbukum/rivet/dag"
)

// Stages of the reference flow, in execution order.
const (
	StageSyn = "syn"
	StagePar = "par"
	StageDrc = "drc"
)

// Stages lists the reference flow stages in execution order.
var Stages = []string{StageSyn, StagePar, StageDrc}

// ModuleInfo describes one design block of the hierarchy.
type ModuleInfo struct {
	Name      string    `yaml:"name" validate:"required,identifier"`
	Sources   []string  `yaml:"sources" validate:"required,min=1,dive,file"`
	Pin       Pin       `yaml:"pin"`
	Placement Placement `yaml:"placement"`
}

// String names the module in composition errors.
func (m ModuleInfo) String() string { return m.Name }

// Pin reuses results of an earlier build instead of running stages.
type Pin struct {
	// Stage is empty, "syn" or "par". Pinning par pins syn too.
	Stage string `yaml:"stage" validate:"omitempty,oneof=syn par"`
	// Path is the earlier run directory of that stage.
	Path string `yaml:"path" validate:"required_with=Stage"`
}

// Placement constrains the floorplan of a module.
type Placement struct {
	Top          Die           `yaml:"top"`
	HardMacros   []HardMacro   `yaml:"hard_macros" validate:"dive"`
	Obstructions []Obstruction `yaml:"obstructions" validate:"dive"`
}

// Die is the die size and the core margins, in microns.
type Die struct {
	Width  float64 `yaml:"width" validate:"min=0"`
	Height float64 `yaml:"height" validate:"min=0"`
	Left   float64 `yaml:"left" validate:"min=0"`
	Bottom float64 `yaml:"bottom" validate:"min=0"`
	Right  float64 `yaml:"right" validate:"min=0"`
	Top    float64 `yaml:"top" validate:"min=0"`
}

// HardMacro fixes an instance of a child module or macro.
type HardMacro struct {
	Name        string  `yaml:"name" validate:"required"`
	Master      string  `yaml:"master" validate:"required"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Orientation string  `yaml:"orientation" validate:"omitempty,oneof=r0 r90 r180 r270 mx my mx90 my90"`
	// Spacing is the placement halo around the macro.
	Spacing float64 `yaml:"spacing" validate:"min=0"`
}

// Obstruction blocks an area for placement, routing or power.
type Obstruction struct {
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Width  float64  `yaml:"width" validate:"gt=0"`
	Height float64  `yaml:"height" validate:"gt=0"`
	Types  []string `yaml:"types" validate:"dive,oneof=place route power"`
}

// LoadHierarchy reads a module hierarchy file. Relative source and pin
// paths are resolved against the file's directory.
func LoadHierarchy(path string) (*dag.Dag[ModuleInfo], error) {
	d, err := dag.LoadHierarchy[ModuleInfo](path)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	return dag.Map(d, func(m ModuleInfo) (ModuleInfo, error) {
		sources := make([]string, len(m.Sources))
		for i, src := range m.Sources {
			sources[i] = resolve(base, src)
		}
		m.Sources = sources
		if m.Pin.Path != "" {
			m.Pin.Path = resolve(base, m.Pin.Path)
		}
		return m, nil
	})
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
