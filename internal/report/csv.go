// Package report serializes a run for the presentation boundary. Floats are
// rounded to a fixed precision here and nowhere else; the core's internal
// arithmetic stays at full precision.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"ecowatt/internal/sim"
)

// floatPrecision is the documented decimal precision of the export boundary.
const floatPrecision = 3

// Header is the fixed column order of the flat run export.
var Header = []string{
	"date",
	"temp_max_c",
	"wind_speed_max_m_s",
	"solar_radiation_mj_m2",
	"solar_kwh_m2",
	"wind_avg_m_s",
	"solar_gen_kwh",
	"wind_gen_kwh",
	"total_gen_kwh",
	"load_kwh",
	"battery_charge_kwh",
	"served_direct_kwh",
	"served_from_battery_kwh",
	"grid_import_kwh",
	"grid_export_kwh",
	"cost_inr",
}

// WriteRunCSV writes one run as delimited text with a header row.
func WriteRunCSV(w io.Writer, res *sim.RunResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range Rows(res) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Rows renders the per-day table in Header order. Forecast and derived
// series are parallel by construction; the shorter bound is defensive.
func Rows(res *sim.RunResult) [][]string {
	n := len(res.Derived)
	if len(res.Days) < n {
		n = len(res.Days)
	}

	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		day := res.Days[i]
		d := res.Derived[i]

		temp := ""
		if day.TempMaxC != nil {
			temp = fmtFloat(*day.TempMaxC)
		}

		rows = append(rows, []string{
			day.Date.Format("2006-01-02"),
			temp,
			fmtFloat(day.WindSpeedMaxMS),
			fmtFloat(day.SolarRadiationMJM2),
			fmtFloat(day.SolarKWhM2),
			fmtFloat(day.WindAvgMS),
			fmtFloat(d.SolarGenKWh),
			fmtFloat(d.WindGenKWh),
			fmtFloat(d.TotalGenKWh),
			fmtFloat(d.LoadKWh),
			fmtFloat(d.BatteryChargeKWh),
			fmtFloat(d.ServedDirectKWh),
			fmtFloat(d.ServedFromBatteryKWh),
			fmtFloat(d.GridImportKWh),
			fmtFloat(d.GridExportKWh),
			fmtFloat(d.CostINR),
		})
	}
	return rows
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', floatPrecision, 64)
}
