package sim

// RecommendationTag is the single primary suggestion for a run.
type RecommendationTag string

const (
	TagHighSolar     RecommendationTag = "high_solar"
	TagStrongWind    RecommendationTag = "strong_wind"
	TagHybridStorage RecommendationTag = "hybrid_storage"
)

// Select picks exactly one primary recommendation. First match wins: a
// high-solar site is tagged solar even when the wind is also strong.
func Select(s RunSummary) RecommendationTag {
	switch {
	case s.AvgSolarMJM2 > 250:
		return TagHighSolar
	case s.AvgWindMaxMS > 6:
		return TagStrongWind
	default:
		return TagHybridStorage
	}
}

// Advise emits the supplementary advisory messages. Unlike Select, any
// number of rules may fire; when none do, a single default message is
// returned so the caller always has something to show.
func Advise(s RunSummary) []string {
	var advice []string

	if s.SolarScore < 50 {
		advice = append(advice, "Solar yield is modest here; consider a larger or higher-efficiency array.")
	}
	if s.WindScore < 50 {
		advice = append(advice, "Wind resource is weak; a bigger turbine or a different siting would help.")
	}
	if s.BatteryScore < 50 {
		advice = append(advice, "Storage is undersized; upgrading battery capacity or efficiency would raise self-consumption.")
	}
	if s.EcoWattScore > 80 {
		advice = append(advice, "Excellent renewable potential at this location; the configured system is a strong fit.")
	}
	if s.SelfSufficiencyPct < 60 {
		advice = append(advice, "Self-sufficiency is below 60%; shifting heavy loads into generation hours would reduce grid import.")
	}

	if len(advice) == 0 {
		advice = append(advice, "Generation and demand are balanced; keep monitoring the forecast.")
	}
	return advice
}
