package dag

// Dag is a rooted tree of nodes. Edges point at the node's children, which
// are built before it.
type Dag[F any] struct {
	Node  F
	Edges []*Dag[F]
}

// New creates a tree with the given root and children.
func New[F any](node F, children ...*Dag[F]) *Dag[F] {
	return &Dag[F]{Node: node, Edges: children}
}

// Leaf creates a tree with a single node.
func Leaf[F any](node F) *Dag[F] {
	return &Dag[F]{Node: node}
}

// NamedNode is a node that can be located by name.
type NamedNode interface {
	Name() string
}

// Count returns the number of nodes in the tree.
func (d *Dag[F]) Count() int {
	if d == nil {
		return 0
	}
	n := 1
	for _, c := range d.Edges {
		n += c.Count()
	}
	return n
}

// Walk visits every subtree in depth-first pre-order. Returning false from
// fn stops the walk.
func (d *Dag[F]) Walk(fn func(sub *Dag[F], depth int) bool) {
	d.walk(fn, 0)
}

func (d *Dag[F]) walk(fn func(*Dag[F], int) bool, depth int) bool {
	if d == nil {
		return true
	}
	if !fn(d, depth) {
		return false
	}
	for _, c := range d.Edges {
		if !c.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// Nodes returns every node value in depth-first pre-order.
func (d *Dag[F]) Nodes() []F {
	nodes := make([]F, 0, d.Count())
	d.Walk(func(sub *Dag[F], _ int) bool {
		nodes = append(nodes, sub.Node)
		return true
	})
	return nodes
}
