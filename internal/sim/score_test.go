package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSelfSufficiencyFull(t *testing.T) {
	// Generous generation every day: grid import stays zero, so
	// self-sufficiency is exactly 100.
	cfg := DefaultConfig()
	days := makeSeries(
		[]float64{500, 480, 510, 495, 500},
		[]float64{5, 6, 4, 5, 6},
	)

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	s := Aggregate(days, derived, cfg)
	assert.Equal(t, 100.0, s.SelfSufficiencyPct)
	assert.Equal(t, 0.0, s.TotalGridImportKWh)
}

func TestAggregateSelfSufficiencyRange(t *testing.T) {
	cfg := DefaultConfig()
	days := mixedSeries()

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	s := Aggregate(days, derived, cfg)
	assert.GreaterOrEqual(t, s.SelfSufficiencyPct, 0.0)
	assert.LessOrEqual(t, s.SelfSufficiencyPct, 100.0)
}

func TestAggregateZeroLoadDegenerate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DailyLoadKWh = 0
	days := makeSeries([]float64{100, 100}, []float64{3, 3})

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	s := Aggregate(days, derived, cfg)
	assert.Equal(t, 100.0, s.SelfSufficiencyPct)
}

func TestAggregateScores(t *testing.T) {
	// 150 MJ/m² avg → solar 50; 6 m/s avg max → wind 50; 10 kWh → battery 50.
	cfg := DefaultConfig()
	cfg.BatteryCapacityKWh = 10
	days := makeSeries([]float64{150, 150}, []float64{6, 6})

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	s := Aggregate(days, derived, cfg)
	assert.InDelta(t, 50.0, s.SolarScore, 1e-9)
	assert.InDelta(t, 50.0, s.WindScore, 1e-9)
	assert.InDelta(t, 50.0, s.BatteryScore, 1e-9)
	assert.InDelta(t, 0.4*50+0.3*50+0.3*50, s.EcoWattScore, 1e-9)
}

func TestAggregateScoreClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatteryCapacityKWh = 100
	days := makeSeries([]float64{600, 600}, []float64{20, 20})

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	s := Aggregate(days, derived, cfg)
	assert.Equal(t, 100.0, s.SolarScore)
	assert.Equal(t, 100.0, s.WindScore)
	assert.Equal(t, 100.0, s.BatteryScore)
}

func TestAggregateBlendWithoutBattery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatteryCapacityKWh = 0
	days := makeSeries([]float64{150, 150}, []float64{6, 6})

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	s := Aggregate(days, derived, cfg)
	assert.InDelta(t, 0.6*50+0.4*50, s.EcoWattScore, 1e-9)
}

func TestAggregateTemperatureMissing(t *testing.T) {
	cfg := DefaultConfig()
	days := makeSeries([]float64{100, 100}, []float64{3, 3})

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	s := Aggregate(days, derived, cfg)
	assert.Nil(t, s.AvgTempMaxC)
}

func TestAggregateTemperaturePartial(t *testing.T) {
	// Averaging skips missing readings instead of treating them as zero.
	cfg := DefaultConfig()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	temp := 30.0
	days := []ForecastDay{
		NewForecastDay(start, 100, 3, &temp),
		NewForecastDay(start.AddDate(0, 0, 1), 100, 3, nil),
	}

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	s := Aggregate(days, derived, cfg)
	require.NotNil(t, s.AvgTempMaxC)
	assert.InDelta(t, 30.0, *s.AvgTempMaxC, 1e-9)
}

func TestAggregateCO2(t *testing.T) {
	cfg := DefaultConfig()
	days := mixedSeries()

	derived, err := Simulate(days, cfg)
	require.NoError(t, err)

	var served, export float64
	for _, d := range derived {
		served += d.ServedDirectKWh + d.ServedFromBatteryKWh
		export += d.GridExportKWh
	}
	n := float64(len(derived))

	s := Aggregate(days, derived, cfg)
	want := (served/n + export/n) * 30 * 0.9
	assert.InDelta(t, want, s.MonthlyCO2Kg, 1e-6)
	assert.InDelta(t, want/0.12, s.CarEquivalentKM, 1e-6)
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SolarPerformanceRatio = 1.5

	_, err := Run(mixedSeries(), cfg)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "solar_performance_ratio", cfgErr.Field)
}

func TestRunProducesCompleteResult(t *testing.T) {
	days := mixedSeries()
	res, err := Run(days, DefaultConfig())
	require.NoError(t, err)

	assert.Len(t, res.Derived, len(days))
	assert.Equal(t, len(days), res.Summary.Days)
	assert.NotEmpty(t, res.Recommendation)
	assert.NotEmpty(t, res.Advice)
}
