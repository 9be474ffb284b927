package flows

import (
	"path/filepath"
)

// PDK locates the technology files a flow reads.
type PDK struct {
	Name        string
	ProcessNode int
	TechLEF     string
	CellLEF     string
	GDS         string
	// LayerMap maps LEF pins to GDS layers for stream out.
	LayerMap string
	DRCRules string
	LVSRules string
	Corners  []Corner
	// Fillers are filler cells, widest last.
	Fillers     []string
	TieHigh     string
	TieLow      string
	ClockGate   string
	PinLayers   PinLayers
	Routing     RoutingLayers
	PowerStraps []Strap
	// Settings are extra Innovus attributes for this technology.
	Settings string
}

// PinLayers bound the layers pins are promoted on.
type PinLayers struct {
	Bottom string
	Top    string
	// Assign is the layer of top-level pins.
	Assign string
}

// RoutingLayers bound the signal routing stack.
type RoutingLayers struct {
	Bottom int
	Top    int
}

// Strap is one layer of the power grid.
type Strap struct {
	Top         string
	Bottom      string
	Spacing     float64
	TrimAntenna bool
	AddStripes  string
}

// Sky130 describes the SkyWater 130 nm Cadence standard cell kit under
// root.
func Sky130(root string) PDK {
	kit := filepath.Join(root, "sky130", "sky130_cds", "sky130_scl_9T_0.0.5")
	release := filepath.Join(root, "sky130", "sky130_cds", "sky130_release_0.0.4")
	lib := func(name string) string { return filepath.Join(kit, "lib", name) }

	return PDK{
		Name:        "sky130",
		ProcessNode: 130,
		TechLEF:     filepath.Join(kit, "lef", "sky130_scl_9T.tlef"),
		CellLEF:     filepath.Join(kit, "lef", "sky130_scl_9T.lef"),
		GDS:         filepath.Join(kit, "gds", "sky130_scl_9T.gds"),
		LayerMap:    filepath.Join(root, "sky130", "sky130_lefpin.map"),
		DRCRules:    filepath.Join(release, "Sky130_DRC", "sky130_rev_0.0_1.0.drc.pvl"),
		LVSRules:    filepath.Join(release, "Sky130_LVS", "sky130.lvs.pvl"),
		Corners: []Corner{
			{Name: "ss_100C_1v60", Type: CornerSetup, Libs: []string{lib("sky130_ss_1.62_125_nldm.lib")}, Temperature: 100},
			{Name: "ff_n40C_1v95", Type: CornerHold, Libs: []string{lib("sky130_ff_1.98_0_nldm.lib")}, Temperature: -40},
			{Name: "tt_025C_1v80", Type: CornerExtra, Libs: []string{lib("sky130_tt_1.8_25_nldm.lib")}, Temperature: 25},
		},
		Fillers:   []string{"FILL0", "FILL1", "FILL4", "FILL9", "FILL16", "FILL25", "FILL36"},
		TieHigh:   "TIEHI",
		TieLow:    "TIELO",
		ClockGate: "ICGX1",
		PinLayers: PinLayers{Bottom: "1", Top: "5", Assign: "met4"},
		Routing:   RoutingLayers{Bottom: 2, Top: 6},
		PowerStraps: []Strap{
			{
				Top: "met1", Bottom: "met1", Spacing: 4,
				AddStripes: "add_stripes -nets {VDD VSS} -layer met1 -direction horizontal -start_offset -.2 -width .4 -spacing 3.74 -set_to_set_distance 8.28 -start_from bottom -switch_layer_over_obs false -max_same_layer_jog_length 2 -pad_core_ring_top_layer_limit met5 -pad_core_ring_bottom_layer_limit met1 -block_ring_top_layer_limit met5 -block_ring_bottom_layer_limit met1 -use_wire_group 0 -snap_wire_center_to_grid none",
			},
			{
				Top: "met4", Bottom: "met1", Spacing: 2, TrimAntenna: true,
				AddStripes: "add_stripes -create_pins 0 -block_ring_bottom_layer_limit met4 -block_ring_top_layer_limit met1 -direction vertical -layer met4 -nets {VSS VDD} -pad_core_ring_bottom_layer_limit met1 -set_to_set_distance 75.90 -spacing 3.66 -switch_layer_over_obs 0 -width 1.86 -area [get_db designs .core_bbox] -start [expr [lindex [lindex [get_db designs .core_bbox] 0] 0] + 7.35]",
			},
			{
				Top: "met5", Bottom: "met4", Spacing: 2, TrimAntenna: true,
				AddStripes: "add_stripes -create_pins 1 -block_ring_bottom_layer_limit met5 -block_ring_top_layer_limit met4 -direction horizontal -layer met5 -nets {VSS VDD} -pad_core_ring_bottom_layer_limit met4 -set_to_set_distance 225.40 -spacing 17.68 -switch_layer_over_obs 0 -width 1.64 -area [get_db designs .core_bbox] -start [expr [lindex [lindex [get_db designs .core_bbox] 0] 1] + 5.62]",
			},
		},
		Settings: sky130InnovusSettings,
	}
}

const sky130InnovusSettings = `set_db place_global_place_io_pins true
set_db opt_honor_fences true
set_db place_detail_dpt_flow true
set_db place_detail_color_aware_legal true
set_db place_global_solver_effort high
set_db place_detail_check_cut_spacing true
set_db place_global_cong_effort high
set_db add_fillers_with_drc false
set_db opt_fix_fanout_load true
set_db opt_clock_gate_aware false
set_db opt_area_recovery true
set_db opt_post_route_area_reclaim setup_aware
set_db opt_fix_hold_verbose true
set_db cts_target_skew 0.03
set_db cts_max_fanout 10
set_db opt_setup_target_slack 0.10
set_db opt_hold_target_slack 0.10
set_db route_design_antenna_diode_insertion 1
set_db route_design_antenna_cell_name "ANTENNA"
set_db route_design_high_freq_search_repair true
set_db route_design_detail_post_route_spread_wire true
set_db route_design_with_si_driven true
set_db route_design_with_timing_driven true
set_db route_design_concurrent_minimize_via_count_effort high
set_db opt_consider_routing_congestion true
set_db route_design_detail_use_multi_cut_via_effort medium
set_db floorplan_snap_die_grid manufacturing
set_db design_bottom_routing_layer 2
set_db design_top_routing_layer 6
set_db route_design_bottom_routing_layer 2`

// connectNets ties the standard cell supply pins to the global nets.
const connectNets = `connect_global_net VDD -type pg_pin -pin_base_name VPWR -all -auto_tie -netlist_override
connect_global_net VDD -type net -net_base_name VPWR -all -netlist_override
connect_global_net VDD -type pg_pin -pin_base_name VPB -all -netlist_override
connect_global_net VSS -type pg_pin -pin_base_name VGND -all -auto_tie -netlist_override
connect_global_net VSS -type net -net_base_name VGND -all -netlist_override
connect_global_net VSS -type pg_pin -pin_base_name VNB -all -netlist_override`

// Corner returns the first corner of type typ.
func (p PDK) Corner(typ string) (Corner, bool) {
	for _, c := range p.Corners {
		if c.Type == typ {
			return c, true
		}
	}
	return Corner{}, false
}
