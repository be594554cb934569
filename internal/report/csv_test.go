package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"ecowatt/internal/sim"
)

func testResult(t *testing.T) *sim.RunResult {
	t.Helper()

	temp := 33.456789
	days := []sim.ForecastDay{
		sim.NewForecastDay(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), 210.123456, 5.5, &temp),
		sim.NewForecastDay(time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), 0, 12, nil),
	}

	res, err := sim.Run(days, sim.DefaultConfig())
	if err != nil {
		t.Fatalf("building run result: %v", err)
	}
	return res
}

func TestWriteRunCSVHeaderOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunCSV(&buf, testResult(t)); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}

	if got, want := strings.Join(records[0], ","), strings.Join(Header, ","); got != want {
		t.Errorf("header order changed:\ngot  %s\nwant %s", got, want)
	}
	for i, row := range records[1:] {
		if len(row) != len(Header) {
			t.Errorf("row %d has %d columns, want %d", i, len(row), len(Header))
		}
	}
}

func TestWriteRunCSVRounding(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunCSV(&buf, testResult(t)); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	records, _ := csv.NewReader(&buf).ReadAll()
	row := records[1]

	if got := row[1]; got != "33.457" {
		t.Errorf("temp_max_c = %q, want 33.457", got)
	}
	if got := row[3]; got != "210.123" {
		t.Errorf("solar_radiation_mj_m2 = %q, want 210.123", got)
	}
}

func TestWriteRunCSVMissingTemperature(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunCSV(&buf, testResult(t)); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	records, _ := csv.NewReader(&buf).ReadAll()
	if got := records[2][1]; got != "" {
		t.Errorf("missing temperature should export empty, got %q", got)
	}
}
