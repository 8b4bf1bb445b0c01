package grade

import (
	"fmt"
	"strconv"
)

// Risk levels
const (
	RiskSafe   RiskLevel = "safe"
	RiskWatch  RiskLevel = "watch"
	RiskDanger RiskLevel = "danger"
)

const (
	safeMargin  = 10.0
	watchMargin = 5.0
)

type RiskLevel string

type RiskAnalysis struct {
	CurrentBoundary float64   `json:"current_boundary"`
	DistanceAbove   float64   `json:"distance_above"`
	RiskLevel       RiskLevel `json:"risk_level"`
	DropThreshold   *float64  `json:"drop_threshold"` // nil once everything is graded
	Message         string    `json:"message"`
}

func riskLevelFor(distanceAbove float64) RiskLevel {
	switch {
	case distanceAbove >= safeMargin:
		return RiskSafe
	case distanceAbove >= watchMargin:
		return RiskWatch
	default:
		return RiskDanger
	}
}

// AnalyzeRisk measures how far weightedAverage sits above the lower boundary of current,
// and the lowest average on the remaining work that still keeps that classification.
func AnalyzeRisk(modules []Module, current Classification, weightedAverage float64) RiskAnalysis {
	boundary, _ := current.Boundary() // Fail and unknown bands sit on 0
	distanceAbove := round(weightedAverage-boundary, 1)
	level := riskLevelFor(distanceAbove)

	var dropThreshold *float64
	if raw, ok := accumulate(modules).solve(boundary); ok {
		dropThreshold = floatPtr(round(clamp(raw, 0, 100), 1))
	}

	return RiskAnalysis{
		CurrentBoundary: boundary,
		DistanceAbove:   distanceAbove,
		RiskLevel:       level,
		DropThreshold:   dropThreshold,
		Message:         riskMessage(current, distanceAbove, level, dropThreshold),
	}
}

func riskMessage(current Classification, distanceAbove float64, level RiskLevel, dropThreshold *float64) string {
	if current == Fail || current == InsufficientData {
		return "You are currently below the Third class boundary. " +
			"Focus on maximising your remaining assessment scores to improve your classification."
	}

	label := string(current)
	if current.IsValid() {
		label = current.Label()
	}
	distance := formatNumber(distanceAbove)

	if dropThreshold == nil {
		if level == RiskSafe {
			return fmt.Sprintf("You're %s%% above the %s boundary. All assessments are graded - your classification is secure.", distance, label)
		}
		return fmt.Sprintf("You're %s%% above the %s boundary. All assessments are graded - this is your final result.", distance, label)
	}

	dropMsg := fmt.Sprintf("You can score as low as %s%% on remaining assessments and still keep your %s.", formatNumber(*dropThreshold), label)
	if *dropThreshold <= 0 {
		dropMsg = fmt.Sprintf("Even scoring 0%% on remaining assessments won't drop you below your %s.", label)
	}

	switch level {
	case RiskSafe:
		return fmt.Sprintf("You're %s%% above the %s boundary. You have a comfortable margin. %s", distance, label, dropMsg)
	case RiskWatch:
		return fmt.Sprintf("You're %s%% above the %s boundary. This is a reasonable margin but don't let up. %s", distance, label, dropMsg)
	default:
		return fmt.Sprintf("You're only %s%% above the %s boundary. This is tight - every assessment counts. %s", distance, label, dropMsg)
	}
}

// formatNumber prints v with as few digits as needed (12, 8.5).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
