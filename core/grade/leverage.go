package grade

import (
	"fmt"
	"sort"
)

// Leverage impact tiers, in percentage points of the final average per 1% of score.
const (
	highImpactPct     = 1.0
	moderateImpactPct = 0.3
)

type LeverageResult struct {
	AssessmentID    string  `json:"assessment_id"`
	AssessmentName  string  `json:"assessment_name"`
	ModuleName      string  `json:"module_name"`
	ModuleCode      string  `json:"module_code"`
	Leverage        float64 `json:"leverage"`
	Description     string  `json:"description"`
	CrossesBoundary bool    `json:"crosses_boundary"`
	BoundaryDetail  string  `json:"boundary_detail,omitempty"`
}

// CalculateLeverage ranks every ungraded assessment by how far the final average moves
// per 1% change in its score, highest first.
func CalculateLeverage(modules []Module) []LeverageResult {
	var totalWeightedCredits float64
	for _, mod := range modules {
		totalWeightedCredits += float64(mod.Credits) * levelMultiplier(mod.Level)
	}
	if totalWeightedCredits == 0 {
		return []LeverageResult{}
	}

	// ungraded work counts as zero here; only used to simulate boundary crossings
	t := accumulate(modules)
	var currentAverage float64
	if t.totalWeight() > 0 {
		currentAverage = t.completedScore / t.totalWeight()
	}

	results := make([]LeverageResult, 0)
	for _, mod := range modules {
		multiplier := levelMultiplier(mod.Level)
		for _, a := range mod.Assessments {
			if a.IsGraded() {
				continue
			}
			leverage := a.Weight * float64(mod.Credits) * multiplier / totalWeightedCredits
			detail, crosses := detectBoundaryCrossing(currentAverage, leverage)
			results = append(results, LeverageResult{
				AssessmentID:    a.ID,
				AssessmentName:  a.Name,
				ModuleName:      mod.Name,
				ModuleCode:      mod.Code,
				Leverage:        leverage,
				Description:     describeLeverage(leverage),
				CrossesBoundary: crosses,
				BoundaryDetail:  detail,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Leverage > results[j].Leverage })
	return results
}

// detectBoundaryCrossing checks whether a 1% nudge either way moves average across a boundary.
func detectBoundaryCrossing(average, leverage float64) (string, bool) {
	up, down := average+leverage, average-leverage
	for _, b := range Boundaries {
		if average < b.Value && up >= b.Value {
			return fmt.Sprintf("A 1%% increase could push you above the %s boundary (%g%%)", b.Label(), b.Value), true
		}
		if average >= b.Value && down < b.Value {
			return fmt.Sprintf("A 1%% decrease could drop you below the %s boundary (%g%%)", b.Label(), b.Value), true
		}
	}
	return "", false
}

func describeLeverage(leverage float64) string {
	var tier string
	switch pct := round(leverage*100, 1); {
	case pct >= highImpactPct:
		tier = "High impact"
	case pct >= moderateImpactPct:
		tier = "Moderate impact"
	default:
		tier = "Lower impact"
	}
	return fmt.Sprintf("%s: each 1%% here shifts your final average by ~%.3f points", tier, round(leverage, 3))
}
