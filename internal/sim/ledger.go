package sim

import "math"

// chargeTolerance absorbs floating-point drift before the bounds guard fires.
const chargeTolerance = 1e-9

// Simulate folds the forecast series into a DerivedDay series: one pass in
// date order, carrying battery charge between days. The battery starts full.
//
// Round-trip efficiency is split into equal √eff charge- and discharge-side
// factors, so a full cycle loses exactly 1−eff of the energy, matching the
// nameplate metric. Serve-direct comes first: generation meets load before
// anything touches the battery or the grid.
func Simulate(days []ForecastDay, cfg SystemConfig) ([]DerivedDay, error) {
	if len(days) == 0 {
		return nil, &MissingDataError{Field: "days", Reason: "empty forecast series"}
	}

	sqrtEff := math.Sqrt(cfg.BatteryRoundTripEff)
	capacity := cfg.BatteryCapacityKWh
	load := cfg.DailyLoadKWh

	charge := capacity
	derived := make([]DerivedDay, 0, len(days))

	for i, day := range days {
		solarGen, windGen := Estimate(day, cfg)
		totalGen := solarGen + windGen

		directServed := math.Min(totalGen, load)
		residualGen := totalGen - directServed
		remainingLoad := load - directServed

		chargePossible := math.Min(residualGen*sqrtEff, capacity-charge)
		charge += chargePossible

		// Guard the two divisions by √eff: at eff→0 both limbs degrade to
		// zero battery service rather than NaN.
		dischargeLimit := 0.0
		if sqrtEff > 0 {
			dischargeLimit = remainingLoad / sqrtEff
		}
		dischargePossible := math.Min(charge, dischargeLimit)
		charge -= dischargePossible
		servedFromBattery := dischargePossible * sqrtEff

		gridImport := math.Max(0, remainingLoad-servedFromBattery)

		chargedFromGen := 0.0
		if sqrtEff > 0 {
			chargedFromGen = chargePossible / sqrtEff
		}
		gridExport := math.Max(0, residualGen-chargedFromGen)

		if charge < -chargeTolerance || charge > capacity+chargeTolerance {
			return nil, &NumericGuardError{Day: i, Quantity: "battery_charge_kwh", Value: charge}
		}
		charge = math.Min(math.Max(charge, 0), capacity)

		derived = append(derived, DerivedDay{
			Date:                 day.Date,
			SolarGenKWh:          solarGen,
			WindGenKWh:           windGen,
			TotalGenKWh:          totalGen,
			LoadKWh:              load,
			BatteryChargeKWh:     charge,
			ServedDirectKWh:      directServed,
			ServedFromBatteryKWh: servedFromBattery,
			GridImportKWh:        gridImport,
			GridExportKWh:        gridExport,
			CostINR:              solarGen*cfg.SolarOMPerKWh + windGen*cfg.WindOMPerKWh + gridImport*cfg.GridTariffPerKWh,
		})
	}

	return derived, nil
}
