package process_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/rivet/process"
)

func TestRunEcho(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "echo",
		Args:   []string{"hello", "world"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	out := strings.TrimSpace(string(result.Stdout))
	if out != "hello world" {
		t.Fatalf("expected 'hello world', got %q", out)
	}
}

func TestRunStdin(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "cat",
		Stdin:  strings.NewReader("from stdin"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(result.Stdout)
	if out != "from stdin" {
		t.Fatalf("expected 'from stdin', got %q", out)
	}
}

func TestRunExitCode(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "exit 42"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 42 {
		t.Fatalf("expected exit code 42, got %d", result.ExitCode)
	}
}

func TestRunStderr(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo oops >&2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stderr := strings.TrimSpace(string(result.Stderr))
	if stderr != "oops" {
		t.Fatalf("expected 'oops' on stderr, got %q", stderr)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error from context cancellation")
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to kill: %v", result.Duration)
	}
}

func TestRunEmptyBinary(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{})
	if err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestRunDuration(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sleep",
		Args:   []string{"0.1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration < 50*time.Millisecond {
		t.Fatalf("duration too short: %v", result.Duration)
	}
}

func TestRunEnv(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo $MY_TEST_VAR"},
		Env:    []string{"MY_TEST_VAR=hello123"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := strings.TrimSpace(string(result.Stdout))
	if out != "hello123" {
		t.Fatalf("expected 'hello123', got %q", out)
	}
}

func TestRunMissingBinary(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "rivet-no-such-tool",
	})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if result.Success() {
		t.Fatal("missing binary must not report success")
	}
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "touch marker && ls"},
		Dir:    dir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(result.Stdout)) != "marker" {
		t.Fatalf("expected command to run in %s, got %q", dir, result.Stdout)
	}
}

func TestRunOutputStreams(t *testing.T) {
	var live bytes.Buffer
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo out; echo err >&2"},
		Output: &live,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(live.String(), "out") || !strings.Contains(live.String(), "err") {
		t.Fatalf("expected both streams in live output, got %q", live.String())
	}
	if strings.TrimSpace(string(result.Stdout)) != "out" {
		t.Fatalf("stdout should still be captured, got %q", result.Stdout)
	}
	if strings.TrimSpace(string(result.Stderr)) != "err" {
		t.Fatalf("stderr should still be captured, got %q", result.Stderr)
	}
}

func TestResultTail(t *testing.T) {
	tests := []struct {
		name   string
		result *process.Result
		n      int
		want   string
	}{
		{"nil result", nil, 3, ""},
		{"zero lines", &process.Result{Stderr: []byte("a\n")}, 0, ""},
		{"last lines of stderr", &process.Result{Stderr: []byte("a\nb\n\nc\nd\n")}, 2, "c\nd"},
		{"fewer lines than asked", &process.Result{Stderr: []byte("only\n")}, 5, "only"},
		{"falls back to stdout", &process.Result{Stdout: []byte("**ERROR: (IMPFP-3)\n")}, 3, "**ERROR: (IMPFP-3)"},
		{"blank lines skipped", &process.Result{Stderr: []byte("x\n\n  \ny\n")}, 2, "x\ny"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.Tail(tc.n); got != tc.want {
				t.Errorf("Tail(%d) = %q, want %q", tc.n, got, tc.want)
			}
		})
	}
}

func TestResultSuccess(t *testing.T) {
	var nilResult *process.Result
	if nilResult.Success() {
		t.Error("nil result is not a success")
	}
	if !(&process.Result{}).Success() {
		t.Error("exit code 0 is a success")
	}
	if (&process.Result{ExitCode: 1}).Success() {
		t.Error("exit code 1 is not a success")
	}
}
