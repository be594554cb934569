package sim

// Validate range-checks every SystemConfig field. The simulation never sees
// an out-of-range value; callers surface the returned *ConfigError instead
// of running.
func (c SystemConfig) Validate() error {
	checks := []struct {
		field    string
		value    float64
		min, max float64
	}{
		{"solar_performance_ratio", c.SolarPerformanceRatio, 0, 1},
		{"solar_size_kw", c.SolarSizeKW, 0, 1000},
		{"area_per_kw_m2", c.AreaPerKWM2, 0, 100},
		{"wind_turbine_kw", c.WindTurbineKW, 0, 1000},
		{"rotor_diameter_m", c.RotorDiameterM, 0, 100},
		{"power_coefficient", c.PowerCoefficient, 0, 1},
		{"wind_availability", c.WindAvailability, 0, 1},
		{"battery_capacity_kwh", c.BatteryCapacityKWh, 0, 1000},
		{"daily_load_kwh", c.DailyLoadKWh, 0, 1000},
		{"grid_tariff_per_kwh", c.GridTariffPerKWh, 0, 1000},
		{"solar_om_per_kwh", c.SolarOMPerKWh, 0, 1000},
		{"wind_om_per_kwh", c.WindOMPerKWh, 0, 1000},
	}
	for _, ck := range checks {
		if ck.value < ck.min || ck.value > ck.max {
			return &ConfigError{Field: ck.field, Value: ck.value, Min: ck.min, Max: ck.max}
		}
	}

	// Round-trip efficiency is (0, 1]: a zero-efficiency battery is a config
	// mistake, not a degenerate-but-valid system.
	if c.BatteryRoundTripEff <= 0 || c.BatteryRoundTripEff > 1 {
		return &ConfigError{Field: "battery_round_trip_eff", Value: c.BatteryRoundTripEff, Min: 0, Max: 1}
	}
	if c.ForecastDays < 7 || c.ForecastDays > 30 {
		return &ConfigError{Field: "forecast_days", Value: float64(c.ForecastDays), Min: 7, Max: 30}
	}
	return nil
}
