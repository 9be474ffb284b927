package step

// Planned is one entry of an execution plan.
type Planned struct {
	Step   Step
	Name   string
	Pinned bool
}

// Plan returns the steps a run of target would reach, in execution order,
// without executing anything. Pinned steps are included and flagged.
// Dependency cycles are not reported here; Run reports them.
func Plan(target Step) []Planned {
	visited := make(map[Step]struct{})
	var plan []Planned

	var walk func(s Step)
	walk = func(s Step) {
		if _, done := visited[s]; done {
			return
		}
		visited[s] = struct{}{}
		for _, dep := range s.Dependencies() {
			walk(dep)
		}
		plan = append(plan, Planned{Step: s, Name: Name(s), Pinned: s.Pinned()})
	}
	walk(target)
	return plan
}
