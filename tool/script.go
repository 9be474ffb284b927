package tool

import (
	"strings"

	"github.com/kbukum/rivet/substep"
)

// Render produces the script for subs in dialect d. When restore is not
// empty the tool state is loaded from it before the first substep. Each
// checkpointing substep is followed by a persist to its checkpoint path
// under workDir.
func Render(d Dialect, workDir string, subs []substep.Substep, restore string) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	for _, l := range d.Preamble {
		line(l)
	}
	if restore != "" && d.Restore != nil {
		line(d.Restore(restore))
	}
	for _, s := range subs {
		if s.Command != "" {
			line(strings.TrimRight(s.Command, "\n"))
		}
		if s.Checkpoint && d.Persist != nil {
			line(d.Persist(substep.CheckpointPath(workDir, s.Name)))
		}
	}
	for _, l := range d.Postamble {
		line(l)
	}
	return b.String()
}
