package grade

// ModuleAverage computes the weighted average of the graded assessments of m.
// The average is renormalised over the graded weight only; CompletionRatio tells how
// much of the module mark is known. It returns false while nothing usable is graded.
func ModuleAverage(m Module) (ModuleResult, bool) {
	var gradedWeight, weightedSum, totalWeight float64
	var graded int
	for _, a := range m.Assessments {
		totalWeight += a.Weight
		if !a.IsGraded() {
			continue
		}
		graded++
		gradedWeight += a.Weight
		weightedSum += a.Grade.Score * a.Weight
	}
	if graded == 0 || gradedWeight == 0 {
		return ModuleResult{}, false
	}
	return ModuleResult{
		Average:         weightedSum / gradedWeight,
		CompletionRatio: gradedWeight / totalWeight,
	}, true
}

// Classify maps a weighted average onto its honours band.
func Classify(average float64) Classification {
	for _, b := range Boundaries {
		if average >= b.Value {
			return b.Classification
		}
	}
	return Fail
}

type levelSummary struct {
	average          float64
	hasAverage       bool
	totalCredits     int
	completedCredits float64
}

func summarizeLevel(modules []Module, level int) levelSummary {
	var (
		s            levelSummary
		weightedSum  float64
		gradedCredit int
	)
	for _, mod := range modules {
		if mod.Level != level {
			continue
		}
		s.totalCredits += mod.Credits
		res, ok := ModuleAverage(mod)
		if !ok {
			continue
		}
		weightedSum += res.Average * float64(mod.Credits)
		gradedCredit += mod.Credits
		s.completedCredits += float64(mod.Credits) * res.CompletionRatio
	}
	if gradedCredit > 0 {
		s.average = weightedSum / float64(gradedCredit)
		s.hasAverage = true
	}
	return s
}

// CalculateClassification projects the degree classification of modules.
// Level 5 counts for a third and level 6 for two thirds; when only one level has
// graded work its average is used as is.
func CalculateClassification(modules []Module) ClassificationResult {
	l5 := summarizeLevel(modules, Level5)
	l6 := summarizeLevel(modules, Level6)

	totalCredits := l5.totalCredits + l6.totalCredits
	completedCredits := l5.completedCredits + l6.completedCredits

	var weightedAverage float64
	switch {
	case l5.hasAverage && l6.hasAverage:
		weightedAverage = l5.average/3 + l6.average*2/3
	case l6.hasAverage:
		weightedAverage = l6.average
	case l5.hasAverage:
		weightedAverage = l5.average
	default:
		return ClassificationResult{
			Classification: InsufficientData,
			TotalCredits:   totalCredits,
		}
	}

	var confidence float64
	if totalCredits > 0 {
		confidence = completedCredits / float64(totalCredits)
	}

	res := ClassificationResult{
		Classification:   Classify(weightedAverage),
		WeightedAverage:  round(weightedAverage, 1),
		CreditsCompleted: int(round(completedCredits, 0)),
		TotalCredits:     totalCredits,
		Confidence:       round(confidence, 2),
	}
	if l5.hasAverage {
		res.Level5Average = floatPtr(round(l5.average, 1))
	}
	if l6.hasAverage {
		res.Level6Average = floatPtr(round(l6.average, 1))
	}
	return res
}
