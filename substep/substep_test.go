package substep

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kbukum/rivet/errors"
)

func fourSteps(t *testing.T) *Sequence {
	t.Helper()
	seq, err := NewSequence(
		Substep{Name: "s1", Command: "c1"},
		Substep{Name: "s2", Command: "c2", Checkpoint: true},
		Substep{Name: "s3", Command: "c3"},
		Substep{Name: "s4", Command: "c4", Checkpoint: true},
	)
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	return seq
}

func TestNewSequence_DuplicateName(t *testing.T) {
	_, err := NewSequence(Substep{Name: "a"}, Substep{Name: "a"})
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestNewSequence_BadNames(t *testing.T) {
	tests := []struct {
		name string
		code errors.ErrorCode
	}{
		{"", errors.ErrCodeMissingField},
		{"has space", errors.ErrCodeInvalidInput},
		{"../up", errors.ErrCodeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSequence(Substep{Name: tc.name})
			if !errors.IsCode(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestMustSequence_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate names")
		}
	}()
	MustSequence(Substep{Name: "x"}, Substep{Name: "x"})
}

func TestSequence_Accessors(t *testing.T) {
	seq := fourSteps(t)
	if seq.Len() != 4 {
		t.Fatalf("expected 4 substeps, got %d", seq.Len())
	}
	if seq.Index("s3") != 2 || seq.Index("nope") != -1 {
		t.Error("unexpected Index results")
	}
	got, ok := seq.Get("s2")
	if !ok || !got.Checkpoint || got.Command != "c2" {
		t.Errorf("unexpected Get result %+v %v", got, ok)
	}

	all := seq.All()
	all[0].Name = "mutated"
	if seq.Names()[0] != "s1" {
		t.Error("All must return a copy")
	}
}

func TestAddHook(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"front", 0, []string{"h", "s1", "s2", "s3", "s4"}},
		{"middle", 2, []string{"s1", "s2", "h", "s3", "s4"}},
		{"end", 4, []string{"s1", "s2", "s3", "s4", "h"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seq := fourSteps(t)
			if err := seq.AddHook("h", "hook", tc.index, true); err != nil {
				t.Fatalf("AddHook: %v", err)
			}
			if !reflect.DeepEqual(seq.Names(), tc.want) {
				t.Errorf("got %v, want %v", seq.Names(), tc.want)
			}
			h, _ := seq.Get("h")
			if !h.Checkpoint || h.Command != "hook" {
				t.Errorf("hook not stored as given: %+v", h)
			}
		})
	}
}

func TestAddHook_Errors(t *testing.T) {
	seq := fourSteps(t)
	if err := seq.AddHook("h", "x", 5, false); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("index past end: expected INVALID_INPUT, got %v", err)
	}
	if err := seq.AddHook("h", "x", -1, false); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative index: expected INVALID_INPUT, got %v", err)
	}
	if err := seq.AddHook("s3", "x", 0, false); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate: expected INVALID_INPUT, got %v", err)
	}
	if seq.Len() != 4 {
		t.Errorf("failed hooks must not change the sequence, got %v", seq.Names())
	}
}

func TestReplaceHook(t *testing.T) {
	seq := fourSteps(t)
	if err := seq.ReplaceHook("s3_fast", "fast", "s3", true); err != nil {
		t.Fatalf("ReplaceHook: %v", err)
	}
	if want := []string{"s1", "s2", "s3_fast", "s4"}; !reflect.DeepEqual(seq.Names(), want) {
		t.Errorf("got %v, want %v", seq.Names(), want)
	}

	// Keeping the same name is allowed.
	if err := seq.ReplaceHook("s1", "c1b", "s1", false); err != nil {
		t.Errorf("same-name replace: %v", err)
	}

	if err := seq.ReplaceHook("x", "x", "missing", false); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("missing target: expected NOT_FOUND, got %v", err)
	}
	if err := seq.ReplaceHook("s4", "x", "s2", false); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("name clash: expected INVALID_INPUT, got %v", err)
	}
}

func TestCheckpointResolve(t *testing.T) {
	wd := filepath.Join("/", "build", "syn-rundir")
	tests := []struct {
		name string
		cp   Checkpoint
		want string
	}{
		{"relative", Checkpoint{Name: "s2", Path: "ckpt/s2.db"}, filepath.Join(wd, "ckpt/s2.db")},
		{"absolute", Checkpoint{Name: "s2", Path: "/abs/s2.db"}, "/abs/s2.db"},
		{"default", Checkpoint{Name: "s2"}, filepath.Join(wd, "checkpoints", "post_s2")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cp.Resolve(wd); got != tc.want {
				t.Errorf("Resolve = %q, want %q", got, tc.want)
			}
		})
	}
}
