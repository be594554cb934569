package sim

import "time"

// Unit conversion and heuristic constants shared across the pipeline.
const (
	// MJToKWh converts a daily radiation sum from MJ/m² to kWh/m².
	MJToKWh = 0.2778
	// WindAvgFromMax estimates a daily average wind speed from the daily maximum.
	WindAvgFromMax = 0.6
	// AirDensity is sea-level air density in kg/m³, used by the rotor power model.
	AirDensity = 1.225

	// Score normalization references.
	solarScoreRefMJ = 300.0 // MJ/m² daily radiation considered excellent
	windScoreRefMS  = 12.0  // m/s daily max wind considered excellent
	batteryScoreRef = 20.0  // kWh of storage considered excellent
	co2PerKWhKg     = 0.9   // grid CO₂ intensity, kg per kWh displaced
	co2PerCarKmKg   = 0.12  // kg CO₂ per km driven, for the car-equivalent figure
	daysPerMonth    = 30.0
)

// ForecastDay is one calendar day of weather input. The derived fields are
// pure functions of the raw ones and are filled in by NewForecastDay.
type ForecastDay struct {
	Date time.Time `json:"date"`

	// Raw values from the forecast provider.
	SolarRadiationMJM2 float64  `json:"solar_radiation_mj_m2"`
	WindSpeedMaxMS     float64  `json:"wind_speed_max_m_s"`
	TempMaxC           *float64 `json:"temp_max_c"` // nil when the provider has no reading

	// Derived values.
	SolarKWhM2 float64 `json:"solar_kwh_m2"`
	WindAvgMS  float64 `json:"wind_avg_m_s"`
}

// NewForecastDay builds a ForecastDay and computes its derived fields.
func NewForecastDay(date time.Time, radiationMJ, windMaxMS float64, tempMaxC *float64) ForecastDay {
	return ForecastDay{
		Date:               date,
		SolarRadiationMJM2: radiationMJ,
		WindSpeedMaxMS:     windMaxMS,
		TempMaxC:           tempMaxC,
		SolarKWhM2:         radiationMJ * MJToKWh,
		WindAvgMS:          windMaxMS * WindAvgFromMax,
	}
}

// SystemConfig is the immutable parameter bundle for one simulation run.
// Validate range-checks every field before the pipeline sees it.
type SystemConfig struct {
	SolarPerformanceRatio float64 `json:"solar_performance_ratio"` // 0..1
	SolarSizeKW           float64 `json:"solar_size_kw"`
	AreaPerKWM2           float64 `json:"area_per_kw_m2"` // array footprint, reporting only

	WindTurbineKW    float64 `json:"wind_turbine_kw"`
	RotorDiameterM   float64 `json:"rotor_diameter_m"` // >0 selects the rotor power model
	PowerCoefficient float64 `json:"power_coefficient"` // Cp, 0..1
	WindAvailability float64 `json:"wind_availability"` // 0..1

	BatteryCapacityKWh  float64 `json:"battery_capacity_kwh"`   // >=0
	BatteryRoundTripEff float64 `json:"battery_round_trip_eff"` // (0..1]

	DailyLoadKWh float64 `json:"daily_load_kwh"`
	ForecastDays int     `json:"forecast_days"` // 7..30

	GridTariffPerKWh float64 `json:"grid_tariff_per_kwh"` // INR/kWh
	SolarOMPerKWh    float64 `json:"solar_om_per_kwh"`
	WindOMPerKWh     float64 `json:"wind_om_per_kwh"`
}

// DefaultConfig returns the sizing used when the caller supplies nothing,
// a modest rooftop hybrid for an Indian household.
func DefaultConfig() SystemConfig {
	return SystemConfig{
		SolarPerformanceRatio: 0.75,
		SolarSizeKW:           5,
		AreaPerKWM2:           7,
		WindTurbineKW:         3,
		RotorDiameterM:        0, // capacity-factor model unless a rotor is given
		PowerCoefficient:      0.4,
		WindAvailability:      0.9,
		BatteryCapacityKWh:    10,
		BatteryRoundTripEff:   0.9,
		DailyLoadKWh:          12,
		ForecastDays:          7,
		GridTariffPerKWh:      8,
		SolarOMPerKWh:         1.5,
		WindOMPerKWh:          2,
	}
}

// DerivedDay is one day's simulation output. Created once by Simulate, in
// date order, and never mutated afterwards.
type DerivedDay struct {
	Date time.Time `json:"date"`

	SolarGenKWh float64 `json:"solar_gen_kwh"`
	WindGenKWh  float64 `json:"wind_gen_kwh"`
	TotalGenKWh float64 `json:"total_gen_kwh"`
	LoadKWh     float64 `json:"load_kwh"`

	BatteryChargeKWh     float64 `json:"battery_charge_kwh"` // post-step
	ServedDirectKWh      float64 `json:"served_direct_kwh"`
	ServedFromBatteryKWh float64 `json:"served_from_battery_kwh"`
	GridImportKWh        float64 `json:"grid_import_kwh"`
	GridExportKWh        float64 `json:"grid_export_kwh"`

	CostINR float64 `json:"cost_inr"`
}

// RunSummary aggregates a full DerivedDay series into the KPIs shown to the
// user. One is produced per analysis run and superseded wholesale by the next.
type RunSummary struct {
	Days int `json:"days"`

	AvgSolarMJM2  float64  `json:"avg_solar_mj_m2"`
	AvgWindMaxMS  float64  `json:"avg_wind_max_m_s"`
	AvgTempMaxC   *float64 `json:"avg_temp_max_c"` // nil when no day carried a reading
	AvgSolarKWhM2 float64  `json:"avg_solar_kwh_m2"`

	TotalSolarGenKWh      float64 `json:"total_solar_gen_kwh"`
	TotalWindGenKWh       float64 `json:"total_wind_gen_kwh"`
	TotalGenKWh           float64 `json:"total_gen_kwh"`
	TotalLoadKWh          float64 `json:"total_load_kwh"`
	TotalGridImportKWh    float64 `json:"total_grid_import_kwh"`
	TotalGridExportKWh    float64 `json:"total_grid_export_kwh"`
	TotalBatteryServedKWh float64 `json:"total_battery_served_kwh"`

	TotalCostINR    float64 `json:"total_cost_inr"`
	TotalSavingsINR float64 `json:"total_savings_inr"`
	MonthlyCO2Kg    float64 `json:"monthly_co2_kg"`
	CarEquivalentKM float64 `json:"car_equivalent_km"`

	ArrayAreaM2 float64 `json:"array_area_m2"` // configured footprint, size × area-per-kW

	SolarScore         float64 `json:"solar_score"`
	WindScore          float64 `json:"wind_score"`
	BatteryScore       float64 `json:"battery_score"`
	EcoWattScore       float64 `json:"eco_watt_score"`
	SelfSufficiencyPct float64 `json:"self_sufficiency_pct"`
}

// RunResult is the immutable value returned by Run and held by the caller.
// The core keeps no state between invocations.
type RunResult struct {
	Config         SystemConfig      `json:"config"`
	Days           []ForecastDay     `json:"days"`
	Derived        []DerivedDay      `json:"derived"`
	Summary        RunSummary        `json:"summary"`
	Recommendation RecommendationTag `json:"recommendation"`
	Advice         []string          `json:"advice"`
}
