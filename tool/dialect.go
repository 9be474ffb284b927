package tool

import (
	"strings"

	"github.com/kbukum/rivet/substep"
)

// Dialect describes how to script and launch one external tool.
type Dialect struct {
	// Tool is the short tool name used in logs and errors.
	Tool string
	// Binary is the executable, resolved via PATH.
	Binary string
	// Args are the launch arguments. "{script}" is replaced by the script
	// path.
	Args []string
	// Script is the file name of the rendered script in the work dir.
	Script string
	// Preamble lines open every script.
	Preamble []string
	// Postamble lines close every script.
	Postamble []string
	// Restore loads persisted tool state from path.
	Restore func(path string) string
	// Persist saves the current tool state to path.
	Persist func(path string) string
}

// ScriptPlaceholder is substituted with the script path in Dialect.Args.
const ScriptPlaceholder = "{script}"

// Command returns the binary and arguments that run scriptPath.
func (d Dialect) Command(scriptPath string) (string, []string) {
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = strings.ReplaceAll(a, ScriptPlaceholder, scriptPath)
	}
	return d.Binary, args
}

// WithBinary returns a copy of d launching binary instead.
func (d Dialect) WithBinary(binary string) Dialect {
	if binary != "" {
		d.Binary = binary
	}
	return d
}

// WithExtraArgs returns a copy of d with args appended to the launch
// arguments.
func (d Dialect) WithExtraArgs(args ...string) Dialect {
	if len(args) == 0 {
		return d
	}
	merged := make([]string, 0, len(d.Args)+len(args))
	merged = append(merged, d.Args...)
	d.Args = append(merged, args...)
	return d
}

func tclRestore(path string) string { return "read_db " + tclQuote(path) }

// Genus is the Cadence synthesis dialect.
func Genus() Dialect {
	return Dialect{
		Tool:      "genus",
		Binary:    "genus",
		Args:      []string{"-f", ScriptPlaceholder, "-no_gui", "-batch"},
		Script:    "syn.tcl",
		Preamble:  []string{"set_db super_thread_debug_directory super_thread_debug"},
		Postamble: []string{"quit"},
		Restore:   tclRestore,
		Persist:   func(path string) string { return "write_db -to_file " + tclQuote(path) },
	}
}

// Innovus is the Cadence place-and-route dialect.
func Innovus() Dialect {
	return Dialect{
		Tool:      "innovus",
		Binary:    "innovus",
		Args:      []string{"-file", ScriptPlaceholder, "-stylus", "-no_gui"},
		Script:    "par.tcl",
		Postamble: []string{"exit"},
		Restore:   tclRestore,
		Persist:   func(path string) string { return "write_db " + tclQuote(path) },
	}
}

// Pegasus modes.
const (
	PegasusDRC = "drc"
	PegasusLVS = "lvs"
)

// Pegasus is the Cadence physical verification dialect. mode is
// PegasusDRC or PegasusLVS.
func Pegasus(mode string) Dialect {
	return Dialect{
		Tool:    "pegasus",
		Binary:  "pegasus",
		Args:    []string{"-" + mode, "-control", ScriptPlaceholder},
		Script:  mode + ".ctl",
		Restore: tclRestore,
		Persist: func(path string) string { return "write_db -to_file " + tclQuote(path) },
	}
}

// Bash runs substeps as shell commands. Checkpoints are tarballs of the
// work dir, excluding the checkpoints themselves.
func Bash() Dialect {
	return Dialect{
		Tool:     "bash",
		Binary:   "bash",
		Args:     []string{"-e", ScriptPlaceholder},
		Script:   "script.sh",
		Preamble: []string{"#!/usr/bin/env bash"},
		Restore:  func(path string) string { return "tar -xf " + shellQuote(path) },
		Persist: func(path string) string {
			return "tar -cf " + shellQuote(path) + " --exclude=./" + substep.CheckpointDir + " ."
		},
	}
}

// tclQuote braces a path when it contains characters Tcl would split or
// substitute.
func tclQuote(s string) string {
	if strings.ContainsAny(s, " \t\"$[]{};\\") {
		return "{" + s + "}"
	}
	return s
}

// shellQuote single-quotes s unless it is made of safe characters only.
func shellQuote(s string) string {
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("_-./+=:@%", r)) {
			safe = false
			break
		}
	}
	if safe && s != "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
