package dag

import (
	"fmt"

	"github.com/kbukum/rivet/errors"
)

// Pair couples a child's original node with its transformed value.
type Pair[M, F any] struct {
	Source M
	Result F
}

// Generator produces the transformed value for one node from its original
// value and its already transformed children, in child order.
type Generator[M, F any] func(node M, children []Pair[M, F]) (F, error)

// Hierarchical transforms d children-first. Every child is transformed
// before its parent, and the result has the same shape as d with children
// in the same order. The first generator error aborts the composition and
// no tree is returned.
func Hierarchical[M, F any](d *Dag[M], generate Generator[M, F]) (*Dag[F], error) {
	if d == nil {
		return nil, errors.MissingField("hierarchy")
	}

	edges := make([]*Dag[F], len(d.Edges))
	pairs := make([]Pair[M, F], len(d.Edges))
	for i, child := range d.Edges {
		sub, err := Hierarchical(child, generate)
		if err != nil {
			return nil, err
		}
		edges[i] = sub
		pairs[i] = Pair[M, F]{Source: child.Node, Result: sub.Node}
	}

	node, err := generate(d.Node, pairs)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeCompositionFailure) {
			return nil, err
		}
		return nil, errors.CompositionFailure(nodeName(d.Node), err)
	}
	return &Dag[F]{Node: node, Edges: edges}, nil
}

// Map transforms every node independently, keeping the shape.
func Map[M, F any](d *Dag[M], fn func(M) (F, error)) (*Dag[F], error) {
	return Hierarchical(d, func(node M, _ []Pair[M, F]) (F, error) {
		return fn(node)
	})
}

func nodeName(v any) string {
	switch n := v.(type) {
	case NamedNode:
		return n.Name()
	case fmt.Stringer:
		return n.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
