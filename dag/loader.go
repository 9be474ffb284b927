package dag

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/rivet/errors"
)

// hierarchyFile is the on-disk shape of one tree level:
//
//	module: {name: top, sources: [top.v]}
//	children:
//	  - module: {name: fulladder, sources: [fulladder.v]}
type hierarchyFile[M any] struct {
	Module   M                  `yaml:"module"`
	Children []hierarchyFile[M] `yaml:"children"`
}

// LoadHierarchy reads a YAML hierarchy description from path.
func LoadHierarchy[M any](path string) (*Dag[M], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFound("hierarchy file", path)
		}
		return nil, errors.Internal(err).WithDetail("path", path)
	}
	return ParseHierarchy[M](data, path)
}

// ParseHierarchy decodes a YAML hierarchy description. source names the
// document in error messages.
func ParseHierarchy[M any](data []byte, source string) (*Dag[M], error) {
	var root hierarchyFile[M]
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.InvalidInput("hierarchy", fmt.Sprintf("parsing %s: %v", source, err)).WithCause(err)
	}
	return root.toDag(), nil
}

// FindHierarchy searches dirs for {name}.yaml or {name}.yml and loads the
// first match.
func FindHierarchy[M any](name string, dirs ...string) (*Dag[M], error) {
	for _, dir := range dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return LoadHierarchy[M](path)
			}
		}
	}
	return nil, errors.NotFound("hierarchy", name).WithDetail("dirs", dirs)
}

func (h hierarchyFile[M]) toDag() *Dag[M] {
	d := &Dag[M]{Node: h.Module}
	if len(h.Children) > 0 {
		d.Edges = make([]*Dag[M], len(h.Children))
		for i, c := range h.Children {
			d.Edges[i] = c.toDag()
		}
	}
	return d
}
