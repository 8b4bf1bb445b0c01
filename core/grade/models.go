package grade

import "strings"

// Classification bands
const (
	First            Classification = "First"
	UpperSecond      Classification = "Upper Second (2:1)"
	LowerSecond      Classification = "Lower Second (2:2)"
	Third            Classification = "Third"
	Fail             Classification = "Fail"
	InsufficientData Classification = "Insufficient Data"
)

// Module levels
const (
	Level5 = 5
	Level6 = 6
)

var (
	// Boundaries holds the inclusive lower bounds of the passing bands, highest first.
	Boundaries = []Boundary{
		{Classification: First, Value: 70},
		{Classification: UpperSecond, Value: 60},
		{Classification: LowerSecond, Value: 50},
		{Classification: Third, Value: 40},
	}

	AllClassifications = []Classification{First, UpperSecond, LowerSecond, Third, Fail, InsufficientData}
)

type Classification string

type Boundary struct {
	Classification Classification
	Value          float64
}

// Label returns the short name used in boundary messages (First, 2:1, 2:2, Third).
func (b Boundary) Label() string {
	return b.Classification.Label()
}

// Boundary returns the lower bound of c. Fail and Insufficient Data have none.
func (c Classification) Boundary() (float64, bool) {
	for _, b := range Boundaries {
		if b.Classification == c {
			return b.Value, true
		}
	}
	return 0, false
}

func (c Classification) Short() string {
	switch c {
	case First:
		return "1st"
	case UpperSecond:
		return "2:1"
	case LowerSecond:
		return "2:2"
	case Third:
		return "3rd"
	case Fail:
		return "Fail"
	default:
		return "N/A"
	}
}

// Label is the name used in risk and insight messages.
func (c Classification) Label() string {
	switch c {
	case First, Third, Fail:
		return string(c)
	case UpperSecond, LowerSecond:
		return c.Short()
	default:
		return "N/A"
	}
}

// Next returns the band directly above c.
func (c Classification) Next() (Boundary, bool) {
	switch c {
	case Fail:
		return Boundaries[3], true
	case Third:
		return Boundaries[2], true
	case LowerSecond:
		return Boundaries[1], true
	case UpperSecond:
		return Boundaries[0], true
	default: // First is already the top; Insufficient Data has no tier
		return Boundary{}, false
	}
}

// ParseClassification accepts a band's full name or its short label (1st, 2:1, ...), ignoring case.
func ParseClassification(s string) (Classification, bool) {
	s = strings.TrimSpace(s)
	for _, c := range AllClassifications {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Short()) {
			return c, true
		}
	}
	return "", false
}

func (c Classification) IsValid() bool {
	for _, cl := range AllClassifications {
		if cl == c {
			return true
		}
	}
	return false
}

type Grade struct {
	Score float64 `json:"score"`
}

type Assessment struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"` // fraction of the module mark
	Grade  *Grade  `json:"grade"`  // nil until graded
}

func (a Assessment) IsGraded() bool {
	return a.Grade != nil
}

type Module struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Credits     int          `json:"credits"`
	Level       int          `json:"level"`
	Assessments []Assessment `json:"assessments"`
}

type ModuleResult struct {
	Average         float64
	CompletionRatio float64
}

type ClassificationResult struct {
	Classification   Classification `json:"classification"`
	WeightedAverage  float64        `json:"weighted_average"`
	Level5Average    *float64       `json:"level5_average"`
	Level6Average    *float64       `json:"level6_average"`
	CreditsCompleted int            `json:"credits_completed"`
	TotalCredits     int            `json:"total_credits"`
	Confidence       float64        `json:"confidence"`
}

// Requirement is the average needed on every ungraded assessment to reach a target.
// Raw keeps the unclamped value so callers can tell "needs 100%" from "needs 140%".
type Requirement struct {
	Target    float64 `json:"target"`
	Needed    float64 `json:"needed"`
	Raw       float64 `json:"raw"`
	Reachable bool    `json:"reachable"`
}
