// Package triage computes deterioration risk scores for vital-sign
// readings. The scorer is a pure function: no I/O, no shared state,
// safe for concurrent use.
package triage

import "math"

// BandTableVersion identifies the penalty band table in effect.
// Stored with each assessment so historical scores stay interpretable
// if the bands are ever revised.
const BandTableVersion = 1

// Reading holds a single set of vital-sign measurements. Every field
// is optional; a nil field contributes no penalty.
type Reading struct {
	HeartRate        *int     // beats/minute
	RespiratoryRate  *int     // breaths/minute
	OxygenSaturation *int     // percent
	Temperature      *float64 // degrees Celsius
	SystolicBP       *int     // mmHg
	DiastolicBP      *int     // mmHg, recorded but not scored
}

// Severity is the coarse label derived from a risk score.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityLow      Severity = "low"
)

// band is an inclusive value range carrying a penalty. Bands for a
// parameter are ordered most severe first; the first match wins.
type band struct {
	lo, hi  float64
	penalty int
}

var (
	heartRateBands = []band{
		{math.Inf(-1), 39, 30},
		{141, math.Inf(1), 30},
		{40, 49, 20},
		{121, 140, 20},
		{50, 59, 10},
		{101, 120, 10},
	}
	respiratoryRateBands = []band{
		{math.Inf(-1), 7, 30},
		{31, math.Inf(1), 30},
		{8, 9, 20},
		{26, 30, 20},
		{10, 11, 10},
		{21, 25, 10},
	}
	oxygenSaturationBands = []band{
		{math.Inf(-1), 84, 40},
		{85, 89, 30},
		{90, 94, 15},
	}
	systolicBPBands = []band{
		{math.Inf(-1), 79, 25},
		{181, math.Inf(1), 25},
		{80, 89, 15},
		{161, 180, 15},
	}
)

// temperaturePenalty is kept as explicit comparisons because its outer
// bands are open intervals (strictly below 35, strictly above 39).
func temperaturePenalty(t float64) int {
	switch {
	case t < 35 || t > 39:
		return 20
	case t <= 35.9 || t >= 38.5:
		return 10
	default:
		return 0
	}
}

func penalty(bands []band, v float64) int {
	for _, b := range bands {
		if v >= b.lo && v <= b.hi {
			return b.penalty
		}
	}
	return 0
}

// Score returns a risk score in [0,100] for the reading. Penalties for
// each provided parameter are independent and additive; the sum is
// clamped at 100. A reading with no fields set scores 0.
func Score(r Reading) int {
	total := 0
	if r.HeartRate != nil {
		total += penalty(heartRateBands, float64(*r.HeartRate))
	}
	if r.RespiratoryRate != nil {
		total += penalty(respiratoryRateBands, float64(*r.RespiratoryRate))
	}
	if r.OxygenSaturation != nil {
		total += penalty(oxygenSaturationBands, float64(*r.OxygenSaturation))
	}
	if r.Temperature != nil {
		total += temperaturePenalty(*r.Temperature)
	}
	if r.SystolicBP != nil {
		total += penalty(systolicBPBands, float64(*r.SystolicBP))
	}
	if total > 100 {
		total = 100
	}
	return total
}

// SeverityFor maps a score to its severity label. Both thresholds are
// strict: a score of exactly 70 is high, exactly 50 is low.
func SeverityFor(score int) Severity {
	switch {
	case score > 70:
		return SeverityCritical
	case score > 50:
		return SeverityHigh
	default:
		return SeverityLow
	}
}

// Recommendation returns the guidance string shown to providers for a
// severity band.
func Recommendation(sev Severity) string {
	switch sev {
	case SeverityCritical:
		return "Immediate clinician review required. Escalate to the resuscitation team."
	case SeverityHigh:
		return "Urgent reassessment within 15 minutes. Increase monitoring frequency."
	default:
		return "Continue routine monitoring per unit protocol."
	}
}

// Assess is the convenience form used by callers that persist the
// result: score, label and recommendation in one call.
func Assess(r Reading) (int, Severity, string) {
	score := Score(r)
	sev := SeverityFor(score)
	return score, sev, Recommendation(sev)
}
