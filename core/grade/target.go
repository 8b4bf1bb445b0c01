package grade

// GradeNeeded returns the average required on all ungraded assessments to reach target.
// It returns false for targets without a boundary (Fail, Insufficient Data) and when
// every assessment is already graded.
func GradeNeeded(modules []Module, target Classification) (Requirement, bool) {
	boundary, ok := target.Boundary()
	if !ok {
		return Requirement{}, false
	}
	return GradeNeededFor(modules, boundary)
}

// GradeNeededFor is GradeNeeded for an arbitrary target average.
func GradeNeededFor(modules []Module, target float64) (Requirement, bool) {
	raw, ok := accumulate(modules).solve(target)
	if !ok {
		return Requirement{}, false
	}
	return Requirement{
		Target:    target,
		Needed:    round(clamp(raw, 0, 100), 1),
		Raw:       round(raw, 1),
		Reachable: raw <= 100,
	}, true
}
