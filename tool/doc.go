// Package tool implements steps that drive an external EDA tool.
//
// A ToolStep owns a substep sequence. On Execute it selects the substeps to
// run (from the starting checkpoint to the stop substep), renders them into
// a script in the tool's dialect, and launches the tool once in the step's
// working directory. Substeps marked as checkpoints persist the tool state
// right after their command to <work dir>/checkpoints/post_<substep>, and a
// later run can resume from there.
//
//	syn := tool.New("adder4.syn", workDir, tool.Genus(), seq)
//	syn.ResumeFrom(substep.Checkpoint{Name: "syn_map"})
//	err := syn.Execute(ctx)
package tool
