package tool

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/rivet/errors"
	"github.com/kbukum/rivet/logger"
	"github.com/kbukum/rivet/process"
	"github.com/kbukum/rivet/step"
	"github.com/kbukum/rivet/substep"
)

// tailLines is how much of the tool's output a failure carries.
const tailLines = 20

// ToolStep runs a slice of a substep sequence through one invocation of an
// external tool.
type ToolStep struct {
	name string

	// WorkDir is where the script, the tool log and checkpoints live and
	// where the tool runs.
	WorkDir string
	// Dialect scripts and launches the tool.
	Dialect Dialect
	// Substeps is the full ordered sequence; Start and Stop select a slice.
	Substeps *substep.Sequence
	// Start, when set, resumes from the checkpoint written after that
	// substep. The substep itself is replayed.
	Start *substep.Checkpoint
	// Stop, when set, is the last substep to run.
	Stop string
	// Env is appended to the tool's environment.
	Env []string
	// Output receives the tool's live output in addition to the log file.
	Output io.Writer

	files  []File
	pinned bool
	deps   []step.Step
	log    *logger.Logger
}

// File is an input the step writes into its work dir before launching the
// tool, such as timing constraints the script sources.
type File struct {
	// Name is relative to the work dir.
	Name string
	// Render produces the content when the step executes.
	Render func() ([]byte, error)
}

var (
	_ step.Step  = (*ToolStep)(nil)
	_ step.Named = (*ToolStep)(nil)
)

// New creates a tool step. A nil seq starts an empty sequence.
func New(name, workDir string, d Dialect, seq *substep.Sequence, deps ...step.Step) *ToolStep {
	if seq == nil {
		seq = substep.MustSequence()
	}
	return &ToolStep{
		name:     name,
		WorkDir:  workDir,
		Dialect:  d,
		Substeps: seq,
		deps:     deps,
	}
}

func (t *ToolStep) Name() string              { return t.name }
func (t *ToolStep) Dependencies() []step.Step { return t.deps }
func (t *ToolStep) Pinned() bool              { return t.pinned }

// DependOn appends dependencies.
func (t *ToolStep) DependOn(deps ...step.Step) { t.deps = append(t.deps, deps...) }

// SetPinned marks the step as already built.
func (t *ToolStep) SetPinned(pinned bool) { t.pinned = pinned }

// ResumeFrom makes the next Execute restore cp and replay from its substep.
func (t *ToolStep) ResumeFrom(cp substep.Checkpoint) { t.Start = &cp }

// StopAfter makes the next Execute end with the substep called name.
func (t *ToolStep) StopAfter(name string) { t.Stop = name }

// SetLogger replaces the step's logger.
func (t *ToolStep) SetLogger(log *logger.Logger) { t.log = log }

// AddHook inserts a substep at index.
func (t *ToolStep) AddHook(name, command string, index int, checkpoint bool) error {
	return t.Substeps.AddHook(name, command, index, checkpoint)
}

// ReplaceHook replaces the substep called target.
func (t *ToolStep) ReplaceHook(newName, command, target string, checkpoint bool) error {
	return t.Substeps.ReplaceHook(newName, command, target, checkpoint)
}

// AddFile registers a fixed input file.
func (t *ToolStep) AddFile(name, content string) {
	t.AddGeneratedFile(name, func() ([]byte, error) { return []byte(content), nil })
}

// AddGeneratedFile registers an input file rendered at execution time.
func (t *ToolStep) AddGeneratedFile(name string, render func() ([]byte, error)) {
	t.files = append(t.files, File{Name: name, Render: render})
}

// Files returns the registered input files.
func (t *ToolStep) Files() []File { return t.files }

// ScriptPath is where Execute writes the rendered script.
func (t *ToolStep) ScriptPath() string { return filepath.Join(t.WorkDir, t.Dialect.Script) }

// LogPath is where Execute writes the tool's output.
func (t *ToolStep) LogPath() string { return filepath.Join(t.WorkDir, t.Dialect.Tool+".log") }

// CheckpointPath is where the checkpoint after substep name is written.
func (t *ToolStep) CheckpointPath(name string) string {
	return substep.CheckpointPath(t.WorkDir, name)
}

// Artifact returns the path of a file the tool produces in its work dir.
func (t *ToolStep) Artifact(name string) string { return filepath.Join(t.WorkDir, name) }

// Selected returns the substeps the next Execute runs: Start through Stop,
// both inclusive and located in the full sequence. A Start after Stop
// selects nothing.
func (t *ToolStep) Selected() ([]substep.Substep, error) {
	subs := t.Substeps.All()
	lo, hi := 0, len(subs)-1
	if t.Start != nil {
		if lo = t.Substeps.Index(t.Start.Name); lo < 0 {
			return nil, errors.CheckpointNotFound(t.name, t.Start.Name)
		}
	}
	if t.Stop != "" {
		if hi = t.Substeps.Index(t.Stop); hi < 0 {
			return nil, errors.NotFound("substep", t.Stop).
				WithDetail("step", t.name)
		}
	}
	if lo > hi {
		return nil, nil
	}
	return subs[lo : hi+1], nil
}

// Script renders the script the next Execute writes.
func (t *ToolStep) Script() (string, error) {
	subs, err := t.Selected()
	if err != nil {
		return "", err
	}
	return Render(t.Dialect, t.WorkDir, subs, t.restorePath()), nil
}

func (t *ToolStep) restorePath() string {
	if t.Start == nil {
		return ""
	}
	return t.Start.Resolve(t.WorkDir)
}

// Execute renders the selected substeps and runs the tool once.
func (t *ToolStep) Execute(ctx context.Context) error {
	base := t.log
	if base == nil {
		base = logger.Get("tool")
	}
	log := base.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldStep, t.name,
		logger.FieldTool, t.Dialect.Tool,
	))

	subs, err := t.Selected()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		log.Info("no substeps selected, nothing to run")
		return nil
	}

	if err := os.MkdirAll(filepath.Join(t.WorkDir, substep.CheckpointDir), 0o755); err != nil {
		return errors.ScriptIOFailure(t.name, t.WorkDir, err)
	}
	if err := t.writeFiles(); err != nil {
		return err
	}
	script := t.ScriptPath()
	body := Render(t.Dialect, t.WorkDir, subs, t.restorePath())
	if err := os.WriteFile(script, []byte(body), 0o644); err != nil {
		return errors.ScriptIOFailure(t.name, script, err)
	}
	toolLog, err := os.Create(t.LogPath())
	if err != nil {
		return errors.ScriptIOFailure(t.name, t.LogPath(), err)
	}
	defer toolLog.Close()

	var out io.Writer = toolLog
	if t.Output != nil {
		out = io.MultiWriter(toolLog, t.Output)
	}

	fields := logger.Fields(logger.FieldWorkDir, t.WorkDir, "substeps", len(subs), "script", script)
	if t.Start != nil {
		fields[logger.FieldCheckpoint] = t.Start.Name
	}
	log.Info("launching tool", fields)

	binary, args := t.Dialect.Command(script)
	started := time.Now()
	result, err := process.Run(ctx, process.Command{
		Binary: binary,
		Args:   args,
		Dir:    t.WorkDir,
		Env:    t.Env,
		Output: out,
	})
	if err == nil {
		log.Info("tool finished", logger.MergeWithDuration(nil, result.Duration))
		return nil
	}

	if ctx.Err() != nil {
		return errors.Canceled(t.name, err)
	}
	exitCode := -1
	if result != nil {
		exitCode = result.ExitCode
	}
	appErr := errors.ExternalToolFailure(t.name, t.Dialect.Tool, exitCode, err).
		WithDetail("script", script).
		WithDetail("log", t.LogPath())
	if tail := result.Tail(tailLines); tail != "" {
		appErr.WithDetail("stderr_tail", tail)
	}
	if cp := lastCheckpoint(t.WorkDir, subs, started); cp != "" {
		appErr.WithDetail(logger.FieldCheckpoint, cp)
	}
	return appErr
}

func (t *ToolStep) writeFiles() error {
	for _, f := range t.files {
		path := t.Artifact(f.Name)
		data, err := f.Render()
		if err != nil {
			return errors.ScriptIOFailure(t.name, path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.ScriptIOFailure(t.name, path, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.ScriptIOFailure(t.name, path, err)
		}
	}
	return nil
}

// lastCheckpoint names the latest checkpoint among subs written since
// start, the natural point to resume a failed run from.
func lastCheckpoint(workDir string, subs []substep.Substep, since time.Time) string {
	for i := len(subs) - 1; i >= 0; i-- {
		if !subs[i].Checkpoint {
			continue
		}
		info, err := os.Stat(substep.CheckpointPath(workDir, subs[i].Name))
		if err == nil && !info.ModTime().Before(since.Truncate(time.Second)) {
			return subs[i].Name
		}
	}
	return ""
}
