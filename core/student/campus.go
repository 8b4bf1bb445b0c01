package student

import (
	"math"
	"sort"

	"github.com/ToluGIT/loop/core/grade"
)

type (
	// Breakdown holds the share of students in each band. Fail includes students without graded work.
	Breakdown struct {
		First       float64 `json:"first"`
		UpperSecond float64 `json:"upper_second"`
		LowerSecond float64 `json:"lower_second"`
		Third       float64 `json:"third"`
		Fail        float64 `json:"fail"`
	}

	ModuleStats struct {
		Code     string  `json:"code"`
		Name     string  `json:"name"`
		Average  float64 `json:"avg"`
		Students int     `json:"students"`
		FirstPct float64 `json:"first_pct"` // share of students averaging 70 or more
	}

	CampusStats struct {
		TotalStudents int           `json:"total_students"`
		Breakdown     Breakdown     `json:"overall_breakdown"`
		Modules       []ModuleStats `json:"module_stats"`
	}
)

type moduleScores struct {
	code, name string
	scores     []float64
}

// BuildCampusStats aggregates classifications and module averages across students.
// Module stats are keyed by module code and ordered by average, highest first.
func BuildCampusStats(students []Student) CampusStats {
	var counts struct{ first, upperSecond, lowerSecond, third, fail int }
	byCode := make(map[string]*moduleScores)
	order := make([]*moduleScores, 0)

	for _, s := range students {
		switch grade.CalculateClassification(s.Modules).Classification {
		case grade.First:
			counts.first++
		case grade.UpperSecond:
			counts.upperSecond++
		case grade.LowerSecond:
			counts.lowerSecond++
		case grade.Third:
			counts.third++
		default:
			counts.fail++
		}

		for _, mod := range s.Modules {
			res, ok := grade.ModuleAverage(mod)
			if !ok {
				continue
			}
			ms, ok := byCode[mod.Code]
			if !ok {
				ms = &moduleScores{code: mod.Code, name: mod.Name}
				byCode[mod.Code] = ms
				order = append(order, ms)
			}
			ms.scores = append(ms.scores, res.Average)
		}
	}

	modules := make([]ModuleStats, 0, len(order))
	for _, ms := range order {
		var sum float64
		var firsts int
		for _, score := range ms.scores {
			sum += score
			if score >= 70 {
				firsts++
			}
		}
		n := len(ms.scores)
		modules = append(modules, ModuleStats{
			Code:     ms.code,
			Name:     ms.name,
			Average:  round1(sum / float64(n)),
			Students: n,
			FirstPct: float64(firsts) / float64(n),
		})
	}
	sort.SliceStable(modules, func(i, j int) bool { return modules[i].Average > modules[j].Average })

	denominator := math.Max(float64(len(students)), 1)
	return CampusStats{
		TotalStudents: len(students),
		Breakdown: Breakdown{
			First:       float64(counts.first) / denominator,
			UpperSecond: float64(counts.upperSecond) / denominator,
			LowerSecond: float64(counts.lowerSecond) / denominator,
			Third:       float64(counts.third) / denominator,
			Fail:        float64(counts.fail) / denominator,
		},
		Modules: modules,
	}
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
