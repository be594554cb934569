package sim

import "math"

// Aggregate reduces a full DerivedDay series into the run's KPIs. Pure
// reduction over immutable inputs, no side effects.
//
// Score references: 300 MJ/m² daily radiation and 12 m/s daily max wind are
// "excellent" (score 100); 20 kWh of storage likewise. The composite EcoWatt
// score blends solar/wind/battery 0.4/0.3/0.3 when a battery is configured
// and solar/wind 0.6/0.4 when it is not.
func Aggregate(days []ForecastDay, derived []DerivedDay, cfg SystemConfig) RunSummary {
	s := RunSummary{Days: len(derived)}
	if len(derived) == 0 {
		return s
	}

	var sumMJ, sumWindMax, sumKWhM2 float64
	var sumTemp float64
	tempCount := 0
	for _, d := range days {
		sumMJ += d.SolarRadiationMJM2
		sumWindMax += d.WindSpeedMaxMS
		sumKWhM2 += d.SolarKWhM2
		if d.TempMaxC != nil {
			sumTemp += *d.TempMaxC
			tempCount++
		}
	}
	n := float64(len(days))
	s.AvgSolarMJM2 = sumMJ / n
	s.AvgWindMaxMS = sumWindMax / n
	s.AvgSolarKWhM2 = sumKWhM2 / n
	if tempCount > 0 {
		avgTemp := sumTemp / float64(tempCount)
		s.AvgTempMaxC = &avgTemp
	}

	for _, d := range derived {
		s.TotalSolarGenKWh += d.SolarGenKWh
		s.TotalWindGenKWh += d.WindGenKWh
		s.TotalGenKWh += d.TotalGenKWh
		s.TotalLoadKWh += d.LoadKWh
		s.TotalGridImportKWh += d.GridImportKWh
		s.TotalGridExportKWh += d.GridExportKWh
		s.TotalBatteryServedKWh += d.ServedFromBatteryKWh
		s.TotalCostINR += d.CostINR

		servedByRenewables := d.ServedDirectKWh + d.ServedFromBatteryKWh
		s.TotalSavingsINR += servedByRenewables*(cfg.GridTariffPerKWh-cfg.SolarOMPerKWh) +
			d.GridExportKWh*(cfg.GridTariffPerKWh-cfg.WindOMPerKWh)
	}

	m := float64(len(derived))
	avgServed := (sumServedDirect(derived) + s.TotalBatteryServedKWh) / m
	avgExport := s.TotalGridExportKWh / m
	s.MonthlyCO2Kg = (avgServed + avgExport) * daysPerMonth * co2PerKWhKg
	s.CarEquivalentKM = s.MonthlyCO2Kg / co2PerCarKmKg

	s.ArrayAreaM2 = cfg.SolarSizeKW * cfg.AreaPerKWM2

	s.SolarScore = math.Min(s.AvgSolarMJM2/solarScoreRefMJ*100, 100)
	s.WindScore = math.Min(s.AvgWindMaxMS/windScoreRefMS*100, 100)
	s.BatteryScore = math.Min(cfg.BatteryCapacityKWh/batteryScoreRef*100, 100)

	if cfg.BatteryCapacityKWh > 0 {
		s.EcoWattScore = 0.4*s.SolarScore + 0.3*s.WindScore + 0.3*s.BatteryScore
	} else {
		s.EcoWattScore = 0.6*s.SolarScore + 0.4*s.WindScore
	}

	if s.TotalLoadKWh > 0 {
		s.SelfSufficiencyPct = 100 - s.TotalGridImportKWh/s.TotalLoadKWh*100
	} else {
		// Zero load is trivially self-sufficient.
		s.SelfSufficiencyPct = 100
	}

	return s
}

func sumServedDirect(derived []DerivedDay) float64 {
	total := 0.0
	for _, d := range derived {
		total += d.ServedDirectKWh
	}
	return total
}
