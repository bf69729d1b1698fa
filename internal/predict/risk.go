package predict

import "fmt"

// Risk tier labels.
const (
	HighRisk     = "High risk"
	ModerateRisk = "Moderate risk"
	LowRisk      = "Low risk"
)

// Tier thresholds. Both comparisons are strict, so a probability exactly at
// a threshold falls into the lower tier.
const (
	HighThreshold     = 0.70
	ModerateThreshold = 0.30
)

// Interpret maps a positive-class probability to its risk tier.
func Interpret(p float64) string {
	switch {
	case p > HighThreshold:
		return HighRisk
	case p > ModerateThreshold:
		return ModerateRisk
	default:
		return LowRisk
	}
}

// FormatRisk renders p as a percentage with one decimal, e.g. "73.4%".
func FormatRisk(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}
