package dag

// FindMut returns a pointer to the first node, in depth-first pre-order,
// whose Name matches, or nil. The pointer refers to the node stored in the
// tree, so assigning through it replaces that node.
func FindMut[F NamedNode](d *Dag[F], name string) *F {
	if d == nil {
		return nil
	}
	if d.Node.Name() == name {
		return &d.Node
	}
	for _, c := range d.Edges {
		if found := FindMut(c, name); found != nil {
			return found
		}
	}
	return nil
}

// Find is the read-only form of FindMut.
func Find[F NamedNode](d *Dag[F], name string) (F, bool) {
	if p := FindMut(d, name); p != nil {
		return *p, true
	}
	var zero F
	return zero, false
}
