// Package accreditation scores facility readiness for pediatric
// emergencies. Like the triage scorer it is pure computation; the
// facility service gathers the inputs and persists the result.
package accreditation

// Inputs are the coverage measurements a facility reports. Coverage
// values are ratios in [0,1]; DrillsPerQuarter is a count.
type Inputs struct {
	EquipmentCoverage float64
	StaffingCoverage  float64
	CertifiedRatio    float64
	DrillsPerQuarter  int
}

// Level is the accreditation outcome for a readiness score.
type Level string

const (
	LevelAccredited  Level = "accredited"
	LevelProvisional Level = "provisional"
	LevelNotReady    Level = "not_ready"
)

// Component weights. Drills saturate at one per month.
const (
	weightEquipment     = 0.35
	weightStaffing      = 0.25
	weightCertification = 0.30
	weightDrills        = 0.10
	drillTarget         = 3
)

// Score returns the weighted readiness score in [0,100].
func Score(in Inputs) int {
	drillRatio := float64(in.DrillsPerQuarter) / drillTarget
	if drillRatio > 1 {
		drillRatio = 1
	}

	weighted := weightEquipment*clamp01(in.EquipmentCoverage) +
		weightStaffing*clamp01(in.StaffingCoverage) +
		weightCertification*clamp01(in.CertifiedRatio) +
		weightDrills*drillRatio

	score := int(weighted*100 + 0.5)
	if score > 100 {
		score = 100
	}
	return score
}

// LevelFor maps a readiness score to an accreditation level.
func LevelFor(score int) Level {
	switch {
	case score >= 85:
		return LevelAccredited
	case score >= 60:
		return LevelProvisional
	default:
		return LevelNotReady
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
