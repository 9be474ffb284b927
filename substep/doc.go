// Package substep models the named operations that make up one tool
// invocation and the checkpoints that let a later run resume mid-stage.
//
// A Sequence is owned by a single step. Its substep names are unique, and
// it is mutated only while the flow is being assembled (hooks), never
// during execution.
//
//	seq, _ := substep.NewSequence(
//	    substep.Substep{Name: "syn_generic", Command: "syn_generic", Checkpoint: true},
//	    substep.Substep{Name: "syn_map", Command: "syn_map", Checkpoint: true},
//	)
//	_ = seq.AddHook("report_area", "report_area > area.rpt", 1, false)
//	resume := seq.Index("syn_map")
package substep
