package dag

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kbukum/rivet/errors"
)

type yamlModule struct {
	ID      string   `yaml:"name"`
	Sources []string `yaml:"sources"`
}

func (m yamlModule) Name() string { return m.ID }

const fullAdderYAML = `
module:
  name: adder4
  sources: [adder4.v]
children:
  - module:
      name: fulladder
      sources: [fulladder.v, halfadder.v]
  - module:
      name: carry
    children:
      - module:
          name: carry_bit
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadHierarchy_FromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "adder4.yaml", fullAdderYAML)

	d, err := LoadHierarchy[yamlModule](path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Count() != 4 {
		t.Fatalf("expected 4 modules, got %d", d.Count())
	}
	if d.Node.ID != "adder4" {
		t.Errorf("expected root adder4, got %q", d.Node.ID)
	}
	if want := []string{"fulladder.v", "halfadder.v"}; !reflect.DeepEqual(d.Edges[0].Node.Sources, want) {
		t.Errorf("sources = %v, want %v", d.Edges[0].Node.Sources, want)
	}
	if d.Edges[1].Edges[0].Node.ID != "carry_bit" {
		t.Errorf("expected nested child carry_bit, got %q", d.Edges[1].Edges[0].Node.ID)
	}
	if d.Edges[0].Edges != nil {
		t.Error("leaf should have no edges")
	}
}

func TestLoadHierarchy_Missing(t *testing.T) {
	_, err := LoadHierarchy[yamlModule](filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestParseHierarchy_Invalid(t *testing.T) {
	_, err := ParseHierarchy[yamlModule]([]byte("module: [unclosed"), "inline")
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestFindHierarchy(t *testing.T) {
	empty := t.TempDir()
	dir := t.TempDir()
	writeFile(t, dir, "adder4.yml", fullAdderYAML)

	d, err := FindHierarchy[yamlModule]("adder4", empty, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Node.ID != "adder4" {
		t.Errorf("expected adder4, got %q", d.Node.ID)
	}

	if _, err := FindHierarchy[yamlModule]("missing", dir); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestLoadHierarchy_ComposesWithFind(t *testing.T) {
	path := writeFile(t, t.TempDir(), "adder4.yaml", fullAdderYAML)
	d, err := LoadHierarchy[yamlModule](path)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := Find(d, "carry_bit")
	if !ok || m.Sources != nil {
		t.Fatalf("expected carry_bit without sources, got %+v %v", m, ok)
	}
}
