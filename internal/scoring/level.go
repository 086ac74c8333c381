package scoring

import (
	"fmt"
	"strings"
)

// ImpactLevel buckets an overall score into a coarse rating.
type ImpactLevel string

const (
	ImpactNone     ImpactLevel = "None"
	ImpactLow      ImpactLevel = "Low"
	ImpactModerate ImpactLevel = "Moderate"
	ImpactHigh     ImpactLevel = "High"
)

var impactRank = map[ImpactLevel]int{
	ImpactNone:     0,
	ImpactLow:      1,
	ImpactModerate: 2,
	ImpactHigh:     3,
}

func (l ImpactLevel) String() string {
	return string(l)
}

// AtLeast returns true if l is at or above the target level.
func (l ImpactLevel) AtLeast(target ImpactLevel) bool {
	return impactRank[l] >= impactRank[target]
}

// LevelFor classifies an overall score (0-100+).
func LevelFor(overall float64) ImpactLevel {
	switch {
	case overall >= 40:
		return ImpactHigh
	case overall >= 20:
		return ImpactModerate
	case overall > 0:
		return ImpactLow
	default:
		return ImpactNone
	}
}

// ParseImpactLevel converts a flag value to an ImpactLevel.
func ParseImpactLevel(s string) (ImpactLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ImpactNone, nil
	case "low":
		return ImpactLow, nil
	case "moderate":
		return ImpactModerate, nil
	case "high":
		return ImpactHigh, nil
	default:
		return ImpactNone, fmt.Errorf("invalid impact level %q: must be none, low, moderate, or high", s)
	}
}
