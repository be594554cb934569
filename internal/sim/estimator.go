package sim

import "math"

// Estimate converts one forecast day into daily solar and wind yield in kWh.
// Pure function: same inputs always give the same outputs, and any
// non-negative input yields non-negative, finite output.
//
// Solar uses the nameplate formulation: kWh/m² × system size × performance
// ratio. Wind uses the swept-rotor power model when a rotor diameter is
// configured, otherwise a flat capacity-factor heuristic.
func Estimate(day ForecastDay, cfg SystemConfig) (solarKWh, windKWh float64) {
	solar := day.SolarKWhM2
	if solar < 0 {
		solar = 0
	}
	solarKWh = solar * cfg.SolarSizeKW * cfg.SolarPerformanceRatio

	wind := day.WindAvgMS
	if wind < 0 {
		// Forecast wind is never negative, but the cubic term must not be
		// allowed to produce negative energy if it ever were.
		wind = 0
	}

	if cfg.RotorDiameterM > 0 {
		radius := cfg.RotorDiameterM / 2
		rotorArea := math.Pi * radius * radius
		powerW := 0.5 * AirDensity * rotorArea * cfg.PowerCoefficient * wind * wind * wind * cfg.WindAvailability
		if nameplateW := cfg.WindTurbineKW * 1000; powerW > nameplateW {
			powerW = nameplateW
		}
		windKWh = powerW * 24 / 1000
	} else {
		windKWh = wind * cfg.WindTurbineKW * 24 * 0.4
	}

	return solarKWh, windKWh
}
