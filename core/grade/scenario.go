package grade

// ApplyScenario returns a copy of modules with the scores in overrides (keyed by
// assessment ID) applied on top. modules is left untouched.
func ApplyScenario(modules []Module, overrides map[string]float64) []Module {
	out := make([]Module, len(modules))
	for i, mod := range modules {
		cp := mod
		cp.Assessments = make([]Assessment, len(mod.Assessments))
		for j, a := range mod.Assessments {
			if score, ok := overrides[a.ID]; ok {
				a.Grade = &Grade{Score: score}
			} else if a.Grade != nil {
				g := *a.Grade
				a.Grade = &g
			}
			cp.Assessments[j] = a
		}
		out[i] = cp
	}
	return out
}

type ModuleSummary struct {
	ID              string         `json:"id"`
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	Credits         int            `json:"credits"`
	Level           int            `json:"level"`
	Average         *float64       `json:"average"`
	CompletionRatio float64        `json:"completion_ratio"`
	Band            Classification `json:"band"`
}

// SummarizeModules reports each module's own average and the band it would fall in.
func SummarizeModules(modules []Module) []ModuleSummary {
	summaries := make([]ModuleSummary, 0, len(modules))
	for _, mod := range modules {
		s := ModuleSummary{
			ID:      mod.ID,
			Code:    mod.Code,
			Name:    mod.Name,
			Credits: mod.Credits,
			Level:   mod.Level,
			Band:    InsufficientData,
		}
		if res, ok := ModuleAverage(mod); ok {
			s.Average = floatPtr(round(res.Average, 1))
			s.CompletionRatio = round(res.CompletionRatio, 2)
			s.Band = Classify(res.Average)
		}
		summaries = append(summaries, s)
	}
	return summaries
}
