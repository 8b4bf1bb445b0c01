package grade

import "math"

// levelMultiplier is the share a level contributes to the final average.
// Modules outside levels 5 and 6 do not count towards the degree.
func levelMultiplier(level int) float64 {
	switch level {
	case Level5:
		return 1.0 / 3
	case Level6:
		return 2.0 / 3
	default:
		return 0
	}
}

// totals accumulates every assessment's global weight (weight * credits * levelMultiplier).
type totals struct {
	completedScore  float64
	completedWeight float64
	remainingWeight float64
}

func (t totals) totalWeight() float64 {
	return t.completedWeight + t.remainingWeight
}

// solve returns the average needed on the remaining weight for the overall average to equal target.
func (t totals) solve(target float64) (float64, bool) {
	if t.remainingWeight == 0 {
		return 0, false
	}
	return (target*t.totalWeight() - t.completedScore) / t.remainingWeight, true
}

func accumulate(modules []Module) totals {
	var t totals
	for _, mod := range modules {
		creditWeight := float64(mod.Credits) * levelMultiplier(mod.Level)
		for _, a := range mod.Assessments {
			w := a.Weight * creditWeight
			if a.IsGraded() {
				t.completedScore += a.Grade.Score * w
				t.completedWeight += w
			} else {
				t.remainingWeight += w
			}
		}
	}
	return t
}

// round rounds half up to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Floor(v*p+0.5) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func floatPtr(f float64) *float64 {
	return &f
}
