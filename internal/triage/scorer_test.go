package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestScoreEmptyReading(t *testing.T) {
	assert.Equal(t, 0, Score(Reading{}))
}

func TestScoreNormalVitals(t *testing.T) {
	r := Reading{
		HeartRate:        intPtr(80),
		RespiratoryRate:  intPtr(16),
		OxygenSaturation: intPtr(98),
		Temperature:      floatPtr(37.0),
		SystolicBP:       intPtr(120),
	}
	assert.Equal(t, 0, Score(r))
	assert.Equal(t, SeverityLow, SeverityFor(Score(r)))
}

func TestScoreClampsAt100(t *testing.T) {
	r := Reading{
		HeartRate:        intPtr(30),
		RespiratoryRate:  intPtr(5),
		OxygenSaturation: intPtr(80),
		Temperature:      floatPtr(42),
		SystolicBP:       intPtr(70),
	}
	// 30+30+40+20+25 = 145, clamped
	assert.Equal(t, 100, Score(r))
}

func TestScoreWorkedExample(t *testing.T) {
	r := Reading{
		HeartRate:        intPtr(120),
		RespiratoryRate:  intPtr(35),
		OxygenSaturation: intPtr(92),
		Temperature:      floatPtr(39.5),
	}
	// 10 + 30 + 15 + 20
	assert.Equal(t, 75, Score(r))
	assert.Equal(t, SeverityCritical, SeverityFor(75))
}

func TestHeartRateBands(t *testing.T) {
	cases := []struct {
		hr   int
		want int
	}{
		{39, 30}, {141, 30},
		{40, 20}, {49, 20}, {121, 20}, {140, 20},
		{50, 10}, {59, 10}, {101, 10}, {120, 10},
		{60, 0}, {80, 0}, {100, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Score(Reading{HeartRate: intPtr(tc.hr)}), "heart rate %d", tc.hr)
	}
}

func TestRespiratoryRateBands(t *testing.T) {
	cases := []struct {
		rr   int
		want int
	}{
		{7, 30}, {31, 30},
		{8, 20}, {9, 20}, {26, 20}, {30, 20},
		{10, 10}, {11, 10}, {21, 10}, {25, 10},
		{12, 0}, {16, 0}, {20, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Score(Reading{RespiratoryRate: intPtr(tc.rr)}), "respiratory rate %d", tc.rr)
	}
}

func TestOxygenSaturationBoundaries(t *testing.T) {
	// A single-unit change must cross the band boundary correctly.
	assert.Equal(t, 0, Score(Reading{OxygenSaturation: intPtr(95)}))
	assert.Equal(t, 15, Score(Reading{OxygenSaturation: intPtr(94)}))
	assert.Equal(t, 15, Score(Reading{OxygenSaturation: intPtr(90)}))
	assert.Equal(t, 30, Score(Reading{OxygenSaturation: intPtr(89)}))
	assert.Equal(t, 30, Score(Reading{OxygenSaturation: intPtr(85)}))
	assert.Equal(t, 40, Score(Reading{OxygenSaturation: intPtr(84)}))
}

func TestTemperatureBands(t *testing.T) {
	cases := []struct {
		temp float64
		want int
	}{
		{34.9, 20}, {39.1, 20},
		{35.0, 10}, {35.9, 10}, {38.5, 10}, {39.0, 10},
		{36.5, 0}, {37.0, 0}, {38.4, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Score(Reading{Temperature: floatPtr(tc.temp)}), "temperature %.1f", tc.temp)
	}
}

func TestSystolicBPBands(t *testing.T) {
	cases := []struct {
		sbp  int
		want int
	}{
		{79, 25}, {181, 25},
		{80, 15}, {89, 15}, {161, 15}, {180, 15},
		{90, 0}, {120, 0}, {160, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Score(Reading{SystolicBP: intPtr(tc.sbp)}), "systolic %d", tc.sbp)
	}
}

func TestDiastolicBPNotScored(t *testing.T) {
	assert.Equal(t, 0, Score(Reading{DiastolicBP: intPtr(250)}))
}

func TestScoreMonotonicWorseningSpO2(t *testing.T) {
	base := Reading{
		HeartRate:       intPtr(110),
		RespiratoryRate: intPtr(24),
	}
	prev := -1
	for _, spo2 := range []int{96, 92, 87, 83} {
		r := base
		r.OxygenSaturation = intPtr(spo2)
		score := Score(r)
		assert.GreaterOrEqual(t, score, prev, "spo2 %d must not decrease score", spo2)
		prev = score
	}
}

func TestScoreBounded(t *testing.T) {
	readings := []Reading{
		{},
		{HeartRate: intPtr(0), RespiratoryRate: intPtr(0), OxygenSaturation: intPtr(0), Temperature: floatPtr(0), SystolicBP: intPtr(0)},
		{HeartRate: intPtr(300), RespiratoryRate: intPtr(90), OxygenSaturation: intPtr(100), Temperature: floatPtr(45), SystolicBP: intPtr(300)},
	}
	for i, r := range readings {
		score := Score(r)
		assert.GreaterOrEqual(t, score, 0, "reading %d", i)
		assert.LessOrEqual(t, score, 100, "reading %d", i)
	}
}

func TestSeverityThresholdsAreStrict(t *testing.T) {
	assert.Equal(t, SeverityLow, SeverityFor(0))
	assert.Equal(t, SeverityLow, SeverityFor(50))
	assert.Equal(t, SeverityHigh, SeverityFor(51))
	assert.Equal(t, SeverityHigh, SeverityFor(70))
	assert.Equal(t, SeverityCritical, SeverityFor(71))
	assert.Equal(t, SeverityCritical, SeverityFor(100))
}

func TestAssess(t *testing.T) {
	score, sev, rec := Assess(Reading{OxygenSaturation: intPtr(80)})
	assert.Equal(t, 40, score)
	assert.Equal(t, SeverityLow, sev)
	assert.NotEmpty(t, rec)
}
