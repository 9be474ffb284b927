package flows

import (
	"fmt"

	"github.com/kbukum/rivet/substep"
)

func drcSetup(module, gds string) substep.Substep {
	return substep.Substep{Name: "drc_setup", Command: fmt.Sprintf(`layout_path "%[2]s";
layout_primary %[1]s;
results_db -drc %[1]s.drc_errors.ascii -ascii;
report_summary -drc %[1]s.drc_summary.rpt -replace;`, module, gds)}
}

func drcRules(rules string) substep.Substep {
	return substep.Substep{Name: "drc_rules", Command: fmt.Sprintf(`include "%s";`, rules)}
}
