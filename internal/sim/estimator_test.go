package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testDay(radiationMJ, windMaxMS float64) ForecastDay {
	return NewForecastDay(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), radiationMJ, windMaxMS, nil)
}

func TestEstimateSolarPinned(t *testing.T) {
	// 300 MJ/m² at 5 kW and PR 0.75: 300 × 0.2778 × 5 × 0.75 = 312.525 kWh.
	cfg := DefaultConfig()
	cfg.SolarSizeKW = 5
	cfg.SolarPerformanceRatio = 0.75

	solar, wind := Estimate(testDay(300, 0), cfg)

	assert.InDelta(t, 312.525, solar, 1e-9)
	assert.Equal(t, 0.0, wind)
}

func TestEstimateWindHeuristic(t *testing.T) {
	// Max 10 m/s → avg 6 m/s; 3 kW turbine: 6 × 3 × 24 × 0.4 = 172.8 kWh.
	cfg := DefaultConfig()
	cfg.RotorDiameterM = 0
	cfg.WindTurbineKW = 3

	_, wind := Estimate(testDay(0, 10), cfg)

	assert.InDelta(t, 172.8, wind, 1e-9)
}

func TestEstimateWindRotorModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindTurbineKW = 3
	cfg.RotorDiameterM = 10
	cfg.PowerCoefficient = 0.4
	cfg.WindAvailability = 0.9

	t.Run("below nameplate", func(t *testing.T) {
		// Max 5 m/s → avg 3 m/s: 0.5 × 1.225 × π·5² × 0.4 × 3³ × 0.9 ≈ 467.6 W.
		_, wind := Estimate(testDay(0, 5), cfg)
		assert.InDelta(t, 11.2221, wind, 1e-3)
	})

	t.Run("capped at nameplate", func(t *testing.T) {
		// Max 20 m/s → avg 12 m/s puts the rotor far past 3 kW; capped
		// output is 3 kW for 24 h = 72 kWh.
		_, wind := Estimate(testDay(0, 20), cfg)
		assert.InDelta(t, 72.0, wind, 1e-9)
	})
}

func TestEstimateNeverNegativeOrNaN(t *testing.T) {
	configs := []SystemConfig{DefaultConfig()}
	rotor := DefaultConfig()
	rotor.RotorDiameterM = 8
	configs = append(configs, rotor)

	inputs := []struct{ radiation, windMax float64 }{
		{0, 0},
		{0.001, 0.001},
		{300, 12},
		{1000, 40},
		{-5, -3}, // not expected from the provider, but must not go negative
	}

	for _, cfg := range configs {
		for _, in := range inputs {
			solar, wind := Estimate(testDay(in.radiation, in.windMax), cfg)

			assert.GreaterOrEqual(t, solar, 0.0, "radiation=%g", in.radiation)
			assert.GreaterOrEqual(t, wind, 0.0, "windMax=%g", in.windMax)
			assert.False(t, math.IsNaN(solar) || math.IsInf(solar, 0))
			assert.False(t, math.IsNaN(wind) || math.IsInf(wind, 0))
		}
	}
}

func TestEstimateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	day := testDay(215.4, 7.3)

	s1, w1 := Estimate(day, cfg)
	s2, w2 := Estimate(day, cfg)

	assert.Equal(t, s1, s2)
	assert.Equal(t, w1, w2)
}
