// Package dag provides the rooted, acyclic build tree used to describe a
// design hierarchy and the per-module flows composed from it.
//
// A Dag[F] owns one node value and an ordered list of child subtrees.
// Hierarchical transforms a tree children-first, handing each generator call
// the already transformed children, which is how a parent module's flow gets
// to depend on its children's results. FindMut locates a node by name so
// configuration can adjust it after composition.
//
//	flows, err := dag.Hierarchical(modules, func(m Module, kids []dag.Pair[Module, *Flow]) (*Flow, error) {
//	    return buildFlow(m, kids)
//	})
package dag
