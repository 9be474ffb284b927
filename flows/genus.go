package flows

import (
	"fmt"
	"strings"

	"github.com/kbukum/rivet/substep"
)

// abstract is what a parent reads instead of a child's RTL.
type abstract struct {
	Name string
	LEF  string
	ILM  string
}

func genusDefaultOptions() substep.Substep {
	return substep.Substep{Name: "set_default_options", Command: `set_db hdl_error_on_blackbox true
set_db max_cpus_per_server 12
set_multi_cpu_usage -local_cpu 12
set_db super_thread_debug_jobs true
set_db super_thread_debug_directory super_thread_debug
set_db lp_clock_gating_infer_enable true
set_db lp_clock_gating_prefix {CLKGATE}
set_db lp_insert_clock_gating true
set_db lp_clock_gating_register_aware true
set_db root: .auto_ungroup none`}
}

func dontAvoidLibCells(baseName string) substep.Substep {
	return substep.Substep{
		Name:    "dont_avoid_lib_cells_" + baseName,
		Command: fmt.Sprintf("set_db [get_db lib_cells -if {.base_name == %s}] .avoid false", baseName),
	}
}

func genusReadDesignFiles(mmmc string, lefs, sources []string, children []abstract) substep.Substep {
	var b strings.Builder
	fmt.Fprintf(&b, "read_mmmc %s\n", mmmc)
	for _, c := range children {
		lefs = append(lefs, c.LEF)
		fmt.Fprintf(&b, "read_ilm -basename %s/mmmc/ilm_data/%s/%s_postRoute -module_name %s\n", c.ILM, c.Name, c.Name, c.Name)
	}
	fmt.Fprintf(&b, "read_physical -lef { %s }\n", strings.Join(lefs, " "))
	fmt.Fprintf(&b, "read_hdl -sv { %s }", strings.Join(sources, " "))
	return substep.Substep{Name: "read_design_files", Command: b.String()}
}

func elaborate(module string) substep.Substep {
	return substep.Substep{Name: "elaborate", Command: "elaborate " + module}
}

func genusInitDesign(module string, children []abstract) substep.Substep {
	var b strings.Builder
	for _, c := range children {
		fmt.Fprintf(&b, "set_db module:%s/%s .preserve true\n", module, c.Name)
	}
	fmt.Fprintf(&b, "init_design -top %s", module)
	return substep.Substep{Name: "init_design", Command: b.String()}
}

func powerIntent(cpf string) substep.Substep {
	return substep.Substep{Name: "power_intent", Checkpoint: true, Command: fmt.Sprintf(`read_power_intent -cpf %s
apply_power_intent -summary
commit_power_intent`, cpf)}
}

func synGeneric() substep.Substep {
	return substep.Substep{Name: "syn_generic", Command: "syn_generic", Checkpoint: true}
}

func synMap() substep.Substep {
	return substep.Substep{Name: "syn_map", Command: "syn_map", Checkpoint: true}
}

func addTieoffs(high, low string) substep.Substep {
	return substep.Substep{Name: "add_tieoffs", Checkpoint: true, Command: fmt.Sprintf(`set_db message:WSDF-201 .max_print 20
set_db use_tiehilo_for_const duplicate
set ACTIVE_SET [string map { .setup_view .setup_set .hold_view .hold_set .extra_view .extra_set } [get_db [get_analysis_views] .name]]
set HI_TIEOFF [get_db base_cell:%s .lib_cells -if { .library.library_set.name == $ACTIVE_SET }]
set LO_TIEOFF [get_db base_cell:%s .lib_cells -if { .library.library_set.name == $ACTIVE_SET }]
add_tieoffs -high $HI_TIEOFF -low $LO_TIEOFF -max_fanout 1 -verbose`, high, low)}
}

// writeRegsTcl dumps sequential cells and register outputs for later
// simulation back-annotation.
const writeRegsTcl = `set cells_out [open "./find_regs_cells.json" "w"]
puts $cells_out "\["
set refs [get_db [get_db lib_cells -if .is_sequential==true] .base_name]
set len [llength $refs]
for {set i 0} {$i < $len} {incr i} {
    if {$i == $len - 1} {
        puts $cells_out "    \"[lindex $refs $i]\""
    } else {
        puts $cells_out "    \"[lindex $refs $i]\","
    }
}
puts $cells_out "\]"
close $cells_out
set regs_out [open "./find_regs_paths.json" "w"]
puts $regs_out "\["
set regs [get_db [get_db [all_registers -edge_triggered -output_pins] -if .direction==out] .name]
set len [llength $regs]
for {set i 0} {$i < $len} {incr i} {
    if {$i == $len - 1} {
        puts $regs_out "    \"[lindex $regs $i]\""
    } else {
        puts $regs_out "    \"[lindex $regs $i]\","
    }
}
puts $regs_out "\]"
close $regs_out`

func genusWriteDesign(module, netlist string, setup Corner, hierarchical bool) substep.Substep {
	writeHDL := "write_hdl > " + netlist
	if hierarchical {
		writeHDL = "write_hdl -exclude_ilm > " + netlist
	}
	return substep.Substep{Name: "write_design", Checkpoint: true, Command: fmt.Sprintf(`%s
write_reports -directory reports -tag final
report_timing -unconstrained -max_paths 50 > reports/final_unconstrained.rpt
%s
write_template -full -outfile %s.mapped.scr
write_sdc -view %s > %s.mapped.sdc
write_sdf > %s.mapped.sdf
write_design -gzip_files %s`, writeRegsTcl, writeHDL, module, setup.View(), module, module, module)}
}

// netlistName is the synthesized netlist of module. Hierarchical netlists
// leave out the children, which are read back as ILMs.
func netlistName(module string, hierarchical bool) string {
	if hierarchical {
		return module + "_noilm.mapped.v"
	}
	return module + ".mapped.v"
}

// powerSpec is a single always-on domain CPF for module.
func powerSpec(module string) string {
	return fmt.Sprintf(`set_cpf_version 1.0e
set_hierarchy_separator /
set_design %s
create_power_nets -nets VDD -voltage 1.8
create_ground_nets -nets VSS
create_power_domain -name AO -default
update_power_domain -name AO -primary_power_net VDD -primary_ground_net VSS
create_global_connection -domain AO -net VDD -pins [list VPWR VPB vdd]
create_global_connection -domain AO -net VSS -pins [list VGND VNB vss]
create_nominal_condition -name nominal -voltage 1.8
create_power_mode -name aon -default -domain_conditions {AO@nominal}
end_design
`, module)
}
