package substep

import (
	"path/filepath"
)

// CheckpointDir is the directory, relative to a step's working directory,
// that holds the checkpoints written by its substeps.
const CheckpointDir = "checkpoints"

// Substep is one named operation inside a tool invocation.
type Substep struct {
	// Name identifies the substep within its sequence.
	Name string
	// Command is the tool-language text emitted into the script.
	Command string
	// Checkpoint requests that tool state is persisted right after Command.
	Checkpoint bool
}

// Checkpoint is a persisted tool state to resume from.
type Checkpoint struct {
	// Name is the substep the checkpoint was written after. Resuming
	// replays the sequence starting at that substep.
	Name string
	// Path locates the state on disk. Relative paths resolve against the
	// owning step's working directory.
	Path string
}

// Resolve returns the checkpoint's absolute location for a step running in
// workDir.
func (c Checkpoint) Resolve(workDir string) string {
	if c.Path == "" {
		return CheckpointPath(workDir, c.Name)
	}
	if filepath.IsAbs(c.Path) {
		return c.Path
	}
	return filepath.Join(workDir, c.Path)
}

// CheckpointPath is where the checkpoint written after substep name lives
// for a step running in workDir.
func CheckpointPath(workDir, name string) string {
	return filepath.Join(workDir, CheckpointDir, "post_"+name)
}
