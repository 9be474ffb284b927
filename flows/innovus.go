package flows

import (
	"fmt"
	"strings"

	"github.com/kbukum/rivet/substep"
)

func setDefaultProcess(node int) substep.Substep {
	return substep.Substep{Name: "set_default_options", Command: fmt.Sprintf(`set_db design_process_node %d
set_multi_cpu_usage -local_cpu 12
set_db timing_analysis_cppr both
set_db timing_analysis_type ocv`, node)}
}

func parReadDesignFiles(module, netlist, mmmc string, lefs []string, children []abstract) substep.Substep {
	for _, c := range children {
		lefs = append(lefs, c.LEF)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "read_physical -lef { %s }\n", strings.Join(lefs, " "))
	fmt.Fprintf(&b, "read_mmmc %s\n", mmmc)
	fmt.Fprintf(&b, "read_netlist %s -top %s", netlist, module)
	for _, c := range children {
		fmt.Fprintf(&b, "\nread_ilm -cell %s -directory %s", c.Name, c.ILM)
	}
	return substep.Substep{Name: "read_design_files", Command: b.String()}
}

func parInitDesign() substep.Substep {
	return substep.Substep{Name: "init_design", Command: "init_design"}
}

func innovusSettings(r RoutingLayers) substep.Substep {
	return substep.Substep{Name: "innovus_settings", Command: fmt.Sprintf(`set_db design_bottom_routing_layer %d
set_db design_top_routing_layer %d
set_db design_flow_effort standard
set_db design_power_effort low`, r.Bottom, r.Top)}
}

func technologySettings(pdk PDK) substep.Substep {
	return substep.Substep{Name: pdk.Name + "_innovus_settings", Command: pdk.Settings, Checkpoint: true}
}

func floorplanDesign(floorplan, cpf string) substep.Substep {
	return substep.Substep{Name: "floorplan_design", Checkpoint: true, Command: fmt.Sprintf(`source -echo -verbose %s
flatten_ilm
read_power_intent -cpf %s
commit_power_intent
unflatten_ilm`, floorplan, cpf)}
}

func connectGlobalNets(name string) substep.Substep {
	return substep.Substep{Name: name, Command: connectNets}
}

func powerStraps(straps []Strap) substep.Substep {
	var b strings.Builder
	for _, s := range straps {
		fmt.Fprintf(&b, "# power straps on %s\n", s.Top)
		fmt.Fprintf(&b, "set_db add_stripes_stacked_via_top_layer %s\n", s.Top)
		fmt.Fprintf(&b, "set_db add_stripes_stacked_via_bottom_layer %s\n", s.Bottom)
		if s.TrimAntenna {
			b.WriteString("set_db add_stripes_trim_antenna_back_to_shape {stripe}\n")
		}
		fmt.Fprintf(&b, "set_db add_stripes_spacing_from_block %s\n", num(s.Spacing))
		b.WriteString(s.AddStripes + "\n")
	}
	return substep.Substep{Name: "power_straps", Checkpoint: true, Command: strings.TrimSuffix(b.String(), "\n")}
}

func placePins(module string, layers PinLayers) substep.Substep {
	return substep.Substep{Name: "place_pins", Checkpoint: true, Command: fmt.Sprintf(`set_db assign_pins_edit_in_batch true
set_db assign_pins_promoted_macro_bottom_layer %s
set_db assign_pins_promoted_macro_top_layer %s
set all_ppins ""
edit_pin -fixed_pin -pin * -hinst %s -spread_type range -layer {%s} -side bottom -start {30 0} -end {0 0}
if {[llength $all_ppins] ne 0} {assign_io_pins -move_fixed_pin -pins [get_db $all_ppins .net.name]}
set_db assign_pins_edit_in_batch false`, layers.Bottom, layers.Top, module, layers.Assign)}
}

func placeOptDesign() substep.Substep {
	return substep.Substep{Name: "place_opt_design", Checkpoint: true, Command: `set unplaced_pins [get_db ports -if {.place_status == unplaced}]
if {$unplaced_pins ne ""} {
    print_message -error "Some pins remain unplaced, which will cause invalid placement and routing. These are the unplaced pins: $unplaced_pins"
    exit 2
}
set_db opt_enable_podv2_clock_opt_flow true
place_opt_design`}
}

func addFillers(cells []string) substep.Substep {
	return substep.Substep{Name: "add_fillers", Checkpoint: true, Command: fmt.Sprintf(`set_db add_fillers_cells "%s"
add_fillers`, strings.Join(cells, " "))}
}

func routeDesign() substep.Substep {
	return substep.Substep{Name: "route_design", Checkpoint: true, Command: `flatten_ilm
set_db design_express_route true
route_design`}
}

func optDesign() substep.Substep {
	return substep.Substep{Name: "opt_design", Checkpoint: true, Command: `set_db opt_post_route_hold_recovery auto
set_db opt_post_route_fix_si_transitions true
set_db opt_verbose true
set_db opt_detail_drv_failure_reason true
set_db opt_sequential_genus_restructure_report_failure_reason true
opt_design -post_route -setup -hold -expanded_views -timing_debug_report
unflatten_ilm`}
}

func writeRegs() substep.Substep {
	return substep.Substep{Name: "write_regs", Checkpoint: true, Command: "flatten_ilm\n" + writeRegsTcl + "\nunflatten_ilm"}
}

func parWriteDesign(module, runDir string, pdk PDK) substep.Substep {
	setup, _ := pdk.Corner(CornerSetup)
	hold, _ := pdk.Corner(CornerHold)
	typical, _ := pdk.Corner(CornerExtra)
	return substep.Substep{Name: "write_design", Checkpoint: true, Command: fmt.Sprintf(`set_db timing_enable_simultaneous_setup_hold_mode true
write_db %[1]s_FINAL -def -verilog
set_db write_stream_virtual_connection false
write_netlist %[2]s/%[1]s.lvs.v -top_module_first -top_module %[1]s -exclude_leaf_cells -phys -flat -exclude_insts_of_cells {}
write_netlist %[2]s/%[1]s.sim.v -top_module_first -top_module %[1]s -exclude_leaf_cells -exclude_insts_of_cells {}
write_stream -mode ALL -format stream -map_file %[3]s -uniquify_cell_names -merge { %[4]s } %[2]s/%[1]s.gds
write_sdf -max_view %[5]s -min_view %[6]s -typical_view %[7]s %[2]s/%[1]s.par.sdf
set_db extract_rc_coupled true
extract_rc
write_parasitics -spef_file %[2]s/%[1]s.%[8]s.par.spef -rc_corner %[8]s_rc
write_parasitics -spef_file %[2]s/%[1]s.%[9]s.par.spef -rc_corner %[9]s_rc
write_parasitics -spef_file %[2]s/%[1]s.%[10]s.par.spef -rc_corner %[10]s_rc`,
		module, runDir, pdk.LayerMap, pdk.GDS,
		setup.View(), hold.View(), typical.View(),
		setup.ID(), hold.ID(), typical.ID())}
}

func writeILM(module, topLayer string) substep.Substep {
	return substep.Substep{Name: "write_ilm", Command: fmt.Sprintf(`set_db timing_enable_simultaneous_setup_hold_mode false
time_design -post_route
time_design -post_route -hold
check_process_antenna
write_lef_abstract -5.8 -top_layer %[2]s -stripe_pins -pg_pin_layers {%[2]s} %[1]sILM.lef
write_ilm -model_type all -to_dir %[1]sILMDir -type_flex_ilm ilm`, module, topLayer)}
}

// floorplanTcl renders the die, the fixed macros and the blockages of p.
func floorplanTcl(p Placement) string {
	var b strings.Builder
	d := p.Top
	fmt.Fprintf(&b, "create_floorplan -core_margins_by die -flip f -die_size_by_io_height max -site CoreSite -die_size { %s %s %s %s %s %s }\n",
		num(d.Width), num(d.Height), num(d.Left), num(d.Bottom), num(d.Right), num(d.Top))
	for _, m := range p.HardMacros {
		orient := m.Orientation
		if orient == "" {
			orient = "r0"
		}
		fmt.Fprintf(&b, "place_inst %s %s %s %s -fixed\n", m.Name, num(m.X), num(m.Y), orient)
		if m.Spacing > 0 {
			s := num(m.Spacing)
			fmt.Fprintf(&b, "create_place_halo -insts %s -halo_deltas {%s %s %s %s} -snap_to_site\n", m.Name, s, s, s, s)
		}
	}
	for _, o := range p.Obstructions {
		area := fmt.Sprintf("{%s %s %s %s}", num(o.X), num(o.Y), num(o.X+o.Width), num(o.Y+o.Height))
		types := o.Types
		if len(types) == 0 {
			types = []string{"place"}
		}
		for _, typ := range types {
			switch typ {
			case "place":
				fmt.Fprintf(&b, "create_place_blockage -area %s\n", area)
			case "route":
				fmt.Fprintf(&b, "create_route_blockage -layers all -area %s\n", area)
			case "power":
				fmt.Fprintf(&b, "create_route_blockage -pg_nets -layers all -area %s\n", area)
			}
		}
	}
	return b.String()
}
