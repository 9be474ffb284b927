// Package flows composes tool steps into a physical design flow over a
// module hierarchy.
//
// ReferenceFlow builds, for every module and children first, a synthesis
// step (Genus), a place-and-route step (Innovus) and a DRC step (Pegasus).
// A parent's synthesis depends on every child's place-and-route and reads
// the children's abstracts instead of their RTL.
//
//	hierarchy, _ := flows.LoadHierarchy("hierarchy.yml")
//	flow, _ := flows.ReferenceFlow(settings, hierarchy)
//	_ = flows.Apply(flow, cfg.NodeConfigs())
//	target, _ := flows.Targets(flow).Lookup("nbitadder.par")
//	result, err := step.Run(ctx, target)
package flows
