package grade

import (
	"fmt"
)

// Insight kinds
const (
	KindStrongestModule InsightKind = iota + 1
	KindWeakestModule
	KindPathToTier
	KindTierOutOfReach
	KindNearBoundary
	KindJustBelowBoundary
	KindCompletion
	KindAllGraded
	KindOnTrackForFirst
	KindOutlierModule
)

// Insight tones
const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
	ToneAction  Tone = "action"
)

const (
	nearBoundaryRange  = 3.0
	outlierDeviation   = 15.0
	minOutlierModules  = 3
	lowCompletionPct   = 25
	solidCompletionPct = 75
)

var insightKinds = map[InsightKind]struct{ name, icon string }{
	KindStrongestModule:   {"strongest_module", "TrendingUp"},
	KindWeakestModule:     {"weakest_module", "AlertTriangle"},
	KindPathToTier:        {"path_to_tier", "Target"},
	KindTierOutOfReach:    {"tier_out_of_reach", "Target"},
	KindNearBoundary:      {"near_boundary", "AlertTriangle"},
	KindJustBelowBoundary: {"just_below_boundary", "Target"},
	KindCompletion:        {"completion", "PieChart"},
	KindAllGraded:         {"all_graded", "CheckCircle"},
	KindOnTrackForFirst:   {"on_track_for_first", "Award"},
	KindOutlierModule:     {"outlier_module", "AlertTriangle"},
}

type (
	InsightKind int
	Tone        string

	// InsightDetail is the structured payload of an Insight; its concrete type depends on the Kind.
	InsightDetail interface {
		isInsightDetail()
	}

	ModuleDetail struct {
		ModuleCode string  `json:"module_code"`
		ModuleName string  `json:"module_name"`
		Average    float64 `json:"average"`
	}

	TierDetail struct {
		Tier        Classification `json:"tier"`
		Requirement Requirement    `json:"requirement"`
	}

	ProximityDetail struct {
		ModuleCode string         `json:"module_code"`
		ModuleName string         `json:"module_name"`
		Boundary   Classification `json:"boundary"`
		Value      float64        `json:"value"`
		Distance   float64        `json:"distance"` // negative when below
	}

	CompletionDetail struct {
		Percent int `json:"percent"`
	}

	ProjectionDetail struct {
		Classification  Classification `json:"classification"`
		WeightedAverage float64        `json:"weighted_average"`
	}

	OutlierDetail struct {
		ModuleCode string  `json:"module_code"`
		ModuleName string  `json:"module_name"`
		Average    float64 `json:"average"`
		Deviation  float64 `json:"deviation"`
	}

	Insight struct {
		Kind        InsightKind   `json:"kind"`
		Tone        Tone          `json:"type"`
		Icon        string        `json:"icon"`
		Title       string        `json:"title"`
		Description string        `json:"description"`
		Detail      InsightDetail `json:"detail"`
	}
)

func (ModuleDetail) isInsightDetail()     {}
func (TierDetail) isInsightDetail()       {}
func (ProximityDetail) isInsightDetail()  {}
func (CompletionDetail) isInsightDetail() {}
func (ProjectionDetail) isInsightDetail() {}
func (OutlierDetail) isInsightDetail()    {}

func (k InsightKind) String() string {
	if kind, ok := insightKinds[k]; ok {
		return kind.name
	}
	return "unknown"
}

// Icon is the icon name the frontend renders for k.
func (k InsightKind) Icon() string {
	return insightKinds[k].icon
}

func (k InsightKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func newInsight(kind InsightKind, tone Tone, title, description string, detail InsightDetail) Insight {
	return Insight{
		Kind:        kind,
		Tone:        tone,
		Icon:        kind.Icon(),
		Title:       title,
		Description: description,
		Detail:      detail,
	}
}

type moduleAvg struct {
	mod Module
	avg float64
}

// GenerateInsights derives human readable observations from modules and their classification.
// Insights are ordered by display priority.
func GenerateInsights(modules []Module, result ClassificationResult) []Insight {
	insights := make([]Insight, 0)

	averages := make([]moduleAvg, 0, len(modules))
	for _, mod := range modules {
		if res, ok := ModuleAverage(mod); ok {
			averages = append(averages, moduleAvg{mod: mod, avg: res.Average})
		}
	}

	if len(averages) > 0 {
		insights = append(insights, strongestModule(averages))
	}
	if len(averages) > 1 {
		insights = append(insights, weakestModule(averages))
	}
	if in, ok := nextTierInsight(modules, result.Classification); ok {
		insights = append(insights, in)
	}
	for _, ma := range averages {
		if in, ok := boundaryProximity(ma); ok {
			insights = append(insights, in)
		}
	}
	insights = append(insights, completionInsight(modules))
	if result.Classification == First {
		insights = append(insights, newInsight(KindOnTrackForFirst, ToneSuccess,
			"On Track for a First!",
			fmt.Sprintf("With a weighted average of %s%%, you're projected for a First Class Honours. Outstanding work - keep it up!",
				formatNumber(result.WeightedAverage)),
			ProjectionDetail{Classification: result.Classification, WeightedAverage: result.WeightedAverage},
		))
	}
	if len(averages) >= minOutlierModules {
		insights = append(insights, outliers(averages)...)
	}
	return insights
}

func strongestModule(averages []moduleAvg) Insight {
	best := averages[0]
	for _, ma := range averages[1:] {
		if ma.avg > best.avg {
			best = ma
		}
	}
	return newInsight(KindStrongestModule, ToneSuccess,
		"Strongest Module",
		fmt.Sprintf("%s (%s) is your top performer at %s%%. Keep up this standard across your other modules.",
			best.mod.Name, best.mod.Code, formatNumber(round(best.avg, 1))),
		ModuleDetail{ModuleCode: best.mod.Code, ModuleName: best.mod.Name, Average: round(best.avg, 1)},
	)
}

func weakestModule(averages []moduleAvg) Insight {
	worst := averages[0]
	for _, ma := range averages[1:] {
		if ma.avg < worst.avg {
			worst = ma
		}
	}
	return newInsight(KindWeakestModule, ToneWarning,
		"Module Needing Attention",
		fmt.Sprintf("%s (%s) is your lowest at %s%%. Focusing here could improve your overall classification.",
			worst.mod.Name, worst.mod.Code, formatNumber(round(worst.avg, 1))),
		ModuleDetail{ModuleCode: worst.mod.Code, ModuleName: worst.mod.Name, Average: round(worst.avg, 1)},
	)
}

func nextTierInsight(modules []Module, current Classification) (Insight, bool) {
	next, ok := current.Next()
	if !ok {
		return Insight{}, false
	}
	req, ok := GradeNeededFor(modules, next.Value)
	if !ok {
		return Insight{}, false
	}

	detail := TierDetail{Tier: next.Classification, Requirement: req}
	if req.Reachable {
		return newInsight(KindPathToTier, ToneAction,
			fmt.Sprintf("Path to a %s", next.Label()),
			fmt.Sprintf("You need an average of %s%% on your remaining assessments to reach a %s classification.",
				formatNumber(req.Needed), next.Label()),
			detail,
		), true
	}
	return newInsight(KindTierOutOfReach, ToneInfo,
		fmt.Sprintf("%s Out of Reach", next.Label()),
		fmt.Sprintf("Reaching a %s would require over 100%% on remaining assessments. Focus on securing your current %s.",
			next.Label(), current.Label()),
		detail,
	), true
}

// boundaryProximity reports the first boundary ma sits within nearBoundaryRange of.
func boundaryProximity(ma moduleAvg) (Insight, bool) {
	for _, b := range Boundaries {
		distance := ma.avg - b.Value
		detail := ProximityDetail{
			ModuleCode: ma.mod.Code,
			ModuleName: ma.mod.Name,
			Boundary:   b.Classification,
			Value:      b.Value,
			Distance:   round(distance, 1),
		}
		if distance >= 0 && distance < nearBoundaryRange {
			return newInsight(KindNearBoundary, ToneWarning,
				fmt.Sprintf("%s Near %s Boundary", ma.mod.Code, b.Label()),
				fmt.Sprintf("%s is only %s%% above the %s boundary (%g%%). A small dip in remaining assessments could affect this module's classification band.",
					ma.mod.Name, formatNumber(round(distance, 1)), b.Label(), b.Value),
				detail,
			), true
		}
		if distance < 0 && distance > -nearBoundaryRange {
			return newInsight(KindJustBelowBoundary, ToneAction,
				fmt.Sprintf("%s Just Below %s", ma.mod.Code, b.Label()),
				fmt.Sprintf("%s is %s%% below the %s boundary (%g%%). A strong result on the next assessment could push it over.",
					ma.mod.Name, formatNumber(round(-distance, 1)), b.Label(), b.Value),
				detail,
			), true
		}
	}
	return Insight{}, false
}

// CompletionPercentage is the share of assessments graded, as a whole percent.
func CompletionPercentage(modules []Module) int {
	var total, graded int
	for _, mod := range modules {
		for _, a := range mod.Assessments {
			total++
			if a.IsGraded() {
				graded++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(round(float64(graded)/float64(total)*100, 0))
}

func completionInsight(modules []Module) Insight {
	pct := CompletionPercentage(modules)
	detail := CompletionDetail{Percent: pct}
	if pct >= 100 {
		return newInsight(KindAllGraded, ToneSuccess,
			"All Assessments Graded",
			"All your assessments have been graded. Your classification is final based on these results.",
			detail,
		)
	}

	var msg string
	switch {
	case pct < lowCompletionPct:
		msg = fmt.Sprintf("You've completed %d%% of your assessments. Your classification will become more accurate as more grades come in.", pct)
	case pct < solidCompletionPct:
		msg = fmt.Sprintf("You're %d%% through your assessments. Your current projection is based on a solid foundation but can still shift.", pct)
	default:
		msg = fmt.Sprintf("You've completed %d%% of your assessments. Your projected classification is fairly reliable at this stage.", pct)
	}
	return newInsight(KindCompletion, ToneInfo, fmt.Sprintf("%d%% Complete", pct), msg, detail)
}

func outliers(averages []moduleAvg) []Insight {
	var sum float64
	for _, ma := range averages {
		sum += ma.avg
	}
	mean := sum / float64(len(averages))

	insights := make([]Insight, 0)
	for _, ma := range averages {
		deviation := mean - ma.avg
		if deviation < outlierDeviation {
			continue
		}
		insights = append(insights, newInsight(KindOutlierModule, ToneWarning,
			fmt.Sprintf("%s Significantly Below Average", ma.mod.Code),
			fmt.Sprintf("%s is %d%% below your average module performance. This is dragging down your overall classification. Consider seeking help or extra revision here.",
				ma.mod.Name, int(round(deviation, 0))),
			OutlierDetail{
				ModuleCode: ma.mod.Code,
				ModuleName: ma.mod.Name,
				Average:    round(ma.avg, 1),
				Deviation:  round(deviation, 1),
			},
		))
	}
	return insights
}
