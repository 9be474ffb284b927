package tool

import (
	"context"
	"reflect"
	"testing"

	"github.com/kbukum/rivet/observability"
)

func TestDialect_Command(t *testing.T) {
	tests := []struct {
		name   string
		d      Dialect
		binary string
		args   []string
	}{
		{"genus", Genus(), "genus", []string{"-f", "/w/syn.tcl", "-no_gui", "-batch"}},
		{"innovus", Innovus(), "innovus", []string{"-file", "/w/syn.tcl", "-stylus", "-no_gui"}},
		{"pegasus drc", Pegasus(PegasusDRC), "pegasus", []string{"-drc", "-control", "/w/syn.tcl"}},
		{"pegasus lvs", Pegasus(PegasusLVS), "pegasus", []string{"-lvs", "-control", "/w/syn.tcl"}},
		{"bash", Bash(), "bash", []string{"-e", "/w/syn.tcl"}},
		{"override", Genus().WithBinary("/opt/genus").WithExtraArgs("-log", "x"), "/opt/genus",
			[]string{"-f", "/w/syn.tcl", "-no_gui", "-batch", "-log", "x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			binary, args := tc.d.Command("/w/syn.tcl")
			if binary != tc.binary {
				t.Errorf("binary = %q, want %q", binary, tc.binary)
			}
			if !reflect.DeepEqual(args, tc.args) {
				t.Errorf("args = %v, want %v", args, tc.args)
			}
		})
	}
}

func TestDialect_WithExtraArgsDoesNotAlias(t *testing.T) {
	base := Genus()
	a := base.WithExtraArgs("-a")
	b := base.WithExtraArgs("-b")
	if a.Args[len(a.Args)-1] != "-a" || b.Args[len(b.Args)-1] != "-b" {
		t.Errorf("args aliased: %v %v", a.Args, b.Args)
	}
	if len(base.Args) != 4 {
		t.Errorf("base modified: %v", base.Args)
	}
}

func TestDialect_StateInstructions(t *testing.T) {
	tests := []struct {
		name    string
		d       Dialect
		restore string
		persist string
	}{
		{"genus", Genus(), "read_db /c/p", "write_db -to_file /c/p"},
		{"innovus", Innovus(), "read_db /c/p", "write_db /c/p"},
		{"pegasus", Pegasus(PegasusDRC), "read_db /c/p", "write_db -to_file /c/p"},
		{"bash", Bash(), "tar -xf /c/p", "tar -cf /c/p --exclude=./checkpoints ."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.Restore("/c/p"); got != tc.restore {
				t.Errorf("restore = %q, want %q", got, tc.restore)
			}
			if got := tc.d.Persist("/c/p"); got != tc.persist {
				t.Errorf("persist = %q, want %q", got, tc.persist)
			}
		})
	}
}

func TestQuoting(t *testing.T) {
	if got := tclQuote("/a b/c"); got != "{/a b/c}" {
		t.Errorf("tclQuote = %q", got)
	}
	if got := shellQuote("/a b/it's"); got != `'/a b/it'\''s'` {
		t.Errorf("shellQuote = %q", got)
	}
	if got := shellQuote("/plain/path-1.db"); got != "/plain/path-1.db" {
		t.Errorf("shellQuote = %q", got)
	}
}

func TestPreflight(t *testing.T) {
	report := Preflight(context.Background(),
		shell(),
		shell(),
		Genus().WithBinary("rivet-no-such-tool"),
	)
	if len(report.Components) != 2 {
		t.Fatalf("expected duplicate binaries to be checked once, got %d", len(report.Components))
	}
	if report.Components[0].Status != observability.HealthStatusUp {
		t.Errorf("sh should be found: %+v", report.Components[0])
	}
	if report.Components[1].Status != observability.HealthStatusDown {
		t.Errorf("missing binary should be down: %+v", report.Components[1])
	}
	if report.Healthy() {
		t.Error("report should be unhealthy")
	}
}
