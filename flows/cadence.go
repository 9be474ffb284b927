package flows

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kbukum/rivet/errors"
)

// Clock describes the single clock of a design.
type Clock struct {
	Name        string
	Period      float64 // ns
	Uncertainty float64 // ns
}

// DefaultClock is a 500 MHz clock on port clk.
var DefaultClock = Clock{Name: "clk", Period: 2.0, Uncertainty: 0.01}

// SDC returns clock and pin constraints for c.
func SDC(c Clock) string {
	lines := []string{
		fmt.Sprintf("create_clock %s -name %s -period %s", c.Name, c.Name, num(c.Period)),
		fmt.Sprintf("set_clock_uncertainty %s [get_clocks %s]", num(c.Uncertainty), c.Name),
		fmt.Sprintf("set_clock_groups -asynchronous  -group { %s }", c.Name),
		"set_load 1.0 [all_outputs]",
		fmt.Sprintf("set_input_delay -clock %s 0 [all_inputs]", c.Name),
		fmt.Sprintf("set_output_delay -clock %s 0 [all_outputs]", c.Name),
	}
	return strings.Join(lines, "\n") + "\n"
}

// Corner types.
const (
	CornerSetup = "setup"
	CornerHold  = "hold"
	CornerExtra = "extra"
)

// Corner is a process, voltage and temperature corner with its timing
// libraries.
type Corner struct {
	Name        string
	Type        string
	Libs        []string
	Temperature float64
}

// ID is the corner's name in MMMC views, e.g. "ss_100C_1v60.setup".
func (c Corner) ID() string { return c.Name + "." + c.Type }

// View is the corner's analysis view name.
func (c Corner) View() string { return c.ID() + "_view" }

// MMMCConfig selects the corners of each analysis. Setup, Hold, Dynamic
// and Leakage hold corner IDs.
type MMMCConfig struct {
	SDCFiles []string
	Corners  []Corner
	Setup    []string
	Hold     []string
	Dynamic  string
	Leakage  string
}

// DefaultMMMC analyses setup on the setup corners, hold on the hold and
// extra corners, and power on the first extra corner, or the first setup
// corner when there is none.
func DefaultMMMC(sdcFiles []string, corners []Corner) MMMCConfig {
	cfg := MMMCConfig{SDCFiles: sdcFiles, Corners: corners}
	for _, c := range corners {
		switch c.Type {
		case CornerSetup:
			cfg.Setup = append(cfg.Setup, c.ID())
		case CornerHold:
			cfg.Hold = append(cfg.Hold, c.ID())
		case CornerExtra:
			cfg.Hold = append(cfg.Hold, c.ID())
			if cfg.Dynamic == "" {
				cfg.Dynamic = c.ID()
				cfg.Leakage = c.ID()
			}
		}
	}
	if cfg.Dynamic == "" && len(cfg.Setup) > 0 {
		cfg.Dynamic, cfg.Leakage = cfg.Setup[0], cfg.Setup[0]
	}
	return cfg
}

const constraintMode = "my_constraint_mode"

// MMMC renders the multi-mode multi-corner setup. Every referenced corner
// must be defined.
func MMMC(cfg MMMCConfig) (string, error) {
	defined := make(map[string]bool, len(cfg.Corners))
	for _, c := range cfg.Corners {
		defined[c.ID()] = true
	}
	refs := append(append([]string{}, cfg.Setup...), cfg.Hold...)
	refs = append(refs, cfg.Dynamic, cfg.Leakage)
	for _, ref := range refs {
		if !defined[ref] {
			return "", errors.InvalidInput("mmmc", fmt.Sprintf("corner %q is referenced but not defined", ref))
		}
	}
	if len(cfg.Setup) == 0 {
		return "", errors.InvalidInput("mmmc", "no setup corner")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "create_constraint_mode -name %s -sdc_files [list %s]\n", constraintMode, strings.Join(cfg.SDCFiles, " "))
	for _, c := range cfg.Corners {
		id := c.ID()
		b.WriteString("create_library_set -name " + id + "_set -timing [list")
		for _, lib := range c.Libs {
			b.WriteString(" " + strconv.Quote(lib))
		}
		b.WriteString("]\n")
		fmt.Fprintf(&b, "create_timing_condition -name %s_cond -library_sets [list %s_set]\n", id, id)
		fmt.Fprintf(&b, "create_rc_corner -name %s_rc -temperature %s\n", id, num(c.Temperature))
		fmt.Fprintf(&b, "create_delay_corner -name %s_delay -timing_condition %s_cond -rc_corner %s_rc\n", id, id, id)
		fmt.Fprintf(&b, "create_analysis_view -name %s_view -delay_corner %s_delay -constraint_mode %s\n", id, id, constraintMode)
	}
	fmt.Fprintf(&b, "set_analysis_view -setup { %s } -hold { %s } -dynamic %s_view -leakage %s_view\n",
		views(cfg.Setup), views(cfg.Hold), cfg.Dynamic, cfg.Leakage)
	return b.String(), nil
}

func views(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id + "_view"
	}
	return strings.Join(out, " ")
}

// num formats a float with at least one decimal, as Tcl scripts expect.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
