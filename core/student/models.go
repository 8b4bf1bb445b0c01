package student

import (
	"sort"
	"strings"
	"time"

	"github.com/ToluGIT/loop/core"
	"github.com/ToluGIT/loop/core/grade"
)

// FirstStudentID can be used in place of a student ID to address the oldest student.
const FirstStudentID = "first"

// OrderingFields maps the accepted ?ordering= fields to their columns.
var OrderingFields = map[string]string{
	"name":       "name",
	"email":      "email",
	"course":     "course",
	"year":       "year",
	"created_at": "created_at",
}

var defaultOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}

type Student struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Course    string         `json:"course"`
	Year      int            `json:"year"`
	CreatedAt time.Time      `json:"created_at"` // UTC
	Modules   []grade.Module `json:"modules,omitempty"`
}

// Summary returns s without its modules.
func (s Student) Summary() Student {
	s.Modules = nil
	return s
}

// AssessmentIDs returns the set of assessment IDs across all of s's modules.
func (s Student) AssessmentIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, mod := range s.Modules {
		for _, a := range mod.Assessments {
			ids[a.ID] = struct{}{}
		}
	}
	return ids
}

// SortModules orders modules by level then code.
func SortModules(modules []grade.Module) {
	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].Level != modules[j].Level {
			return modules[i].Level < modules[j].Level
		}
		return modules[i].Code < modules[j].Code
	})
}

type QueryFilter struct {
	Search string `query:"search"`
	Course string `query:"course"`
	Year   int    `query:"year"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Course == "" && qf.Year == 0
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Course = core.CleanString(qf.Course)
}

// Matches reports whether s satisfies every set field of qf.
// Search is a case-insensitive match on one of Name, Email or Course.
func (qf *QueryFilter) Matches(s Student) bool {
	if qf == nil {
		return true
	}
	if qf.Search != "" {
		search := strings.ToLower(qf.Search)
		if !(strings.Contains(strings.ToLower(s.Name), search) ||
			strings.Contains(strings.ToLower(s.Email), search) ||
			strings.Contains(strings.ToLower(s.Course), search)) {
			return false
		}
	}
	if qf.Course != "" && !strings.EqualFold(qf.Course, s.Course) {
		return false
	}
	if qf.Year != 0 && qf.Year != s.Year {
		return false
	}
	return true
}

// Report is everything the engine derives from a set of modules.
type Report struct {
	Classification grade.ClassificationResult `json:"classification"`
	Risk           grade.RiskAnalysis         `json:"risk"`
	Leverage       []grade.LeverageResult     `json:"leverage"`
	Insights       []grade.Insight            `json:"insights"`
	Modules        []grade.ModuleSummary      `json:"modules"`
	Completion     int                        `json:"completion"`
}

// NewReport runs the engine over modules.
func NewReport(modules []grade.Module) Report {
	result := grade.CalculateClassification(modules)
	return Report{
		Classification: result,
		Risk:           grade.AnalyzeRisk(modules, result.Classification, result.WeightedAverage),
		Leverage:       grade.CalculateLeverage(modules),
		Insights:       grade.GenerateInsights(modules, result),
		Modules:        grade.SummarizeModules(modules),
		Completion:     grade.CompletionPercentage(modules),
	}
}

type Dashboard struct {
	Student Student `json:"student"`
	Report
}

// Simulation compares a student's standing with a what-if scenario.
type Simulation struct {
	Current  grade.ClassificationResult `json:"current"`
	Scenario grade.ClassificationResult `json:"scenario"`
	Delta    float64                    `json:"delta"` // scenario minus current weighted average
	Risk     grade.RiskAnalysis         `json:"risk"`  // of the scenario
	Target   *TargetResult              `json:"target,omitempty"`
}

type TargetResult struct {
	Classification grade.Classification `json:"classification"`
	Remaining      bool                 `json:"remaining"` // false when every assessment is graded or overridden
	Requirement    *grade.Requirement   `json:"requirement"`
}
