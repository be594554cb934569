package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPriorityOrder(t *testing.T) {
	tests := []struct {
		name    string
		solarMJ float64
		windMax float64
		want    RecommendationTag
	}{
		{"high solar wins over strong wind", 260, 11, TagHighSolar},
		{"high solar alone", 251, 2, TagHighSolar},
		{"strong wind", 200, 7, TagStrongWind},
		{"neither", 100, 4, TagHybridStorage},
		{"boundary solar not enough", 250, 3, TagHybridStorage},
		{"boundary wind not enough", 100, 6, TagHybridStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := RunSummary{AvgSolarMJM2: tt.solarMJ, AvgWindMaxMS: tt.windMax}
			assert.Equal(t, tt.want, Select(s))
		})
	}
}

func TestAdviseDefaultMessage(t *testing.T) {
	s := RunSummary{
		SolarScore:         60,
		WindScore:          55,
		BatteryScore:       60,
		EcoWattScore:       58,
		SelfSufficiencyPct: 80,
	}

	advice := Advise(s)
	assert.Len(t, advice, 1)
	assert.Contains(t, advice[0], "balanced")
}

func TestAdviseMultipleRulesFire(t *testing.T) {
	s := RunSummary{
		SolarScore:         30,
		WindScore:          20,
		BatteryScore:       10,
		EcoWattScore:       25,
		SelfSufficiencyPct: 40,
	}

	advice := Advise(s)
	assert.Len(t, advice, 4)
}

func TestAdviseCongratulates(t *testing.T) {
	s := RunSummary{
		SolarScore:         95,
		WindScore:          85,
		BatteryScore:       90,
		EcoWattScore:       91,
		SelfSufficiencyPct: 96,
	}

	advice := Advise(s)
	assert.Len(t, advice, 1)
	assert.Contains(t, advice[0], "Excellent")
}
