package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ecowatt/internal/sim"
)

const openMeteoAPIBase = "https://api.open-meteo.com/v1/forecast"

// Client fetches daily weather forecasts from the Open-Meteo API.
type Client struct {
	httpClient *http.Client
	latitude   float64
	longitude  float64
}

// NewClient creates an Open-Meteo client for a location.
func NewClient(lat, lon float64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		latitude:   lat,
		longitude:  lon,
	}
}

// openMeteoResponse represents the daily block of the API response.
// Temperature entries may be null, so they decode through pointers.
type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Daily     daily   `json:"daily"`
}

type daily struct {
	Time         []string   `json:"time"`
	TempMax      []*float64 `json:"temperature_2m_max"`
	WindSpeedMax []float64  `json:"wind_speed_10m_max"`
	RadiationSum []float64  `json:"shortwave_radiation_sum"`
}

// Forecast fetches the daily forecast for the next N days and converts it
// into the validated ForecastDay series consumed by the simulation.
func (c *Client) Forecast(ctx context.Context, days int) ([]sim.ForecastDay, error) {
	params := url.Values{}
	params.Add("latitude", fmt.Sprintf("%.4f", c.latitude))
	params.Add("longitude", fmt.Sprintf("%.4f", c.longitude))
	params.Add("daily", "temperature_2m_max,wind_speed_10m_max,shortwave_radiation_sum")
	params.Add("forecast_days", fmt.Sprintf("%d", days))
	params.Add("timezone", "auto")

	fullURL := fmt.Sprintf("%s?%s", openMeteoAPIBase, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var meteoResp openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&meteoResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return forecastDays(meteoResp.Daily)
}

// forecastDays validates the parallel daily arrays and builds the series.
// A missing date array or mismatched lengths reject the whole response;
// absent optional arrays substitute zero (or a missing temperature) so a
// partial provider answer still produces a run.
func forecastDays(d daily) ([]sim.ForecastDay, error) {
	if len(d.Time) == 0 {
		return nil, &sim.MissingDataError{Field: "daily.time", Reason: "no daily data returned"}
	}

	n := len(d.Time)
	if len(d.RadiationSum) != 0 && len(d.RadiationSum) != n {
		return nil, &sim.MissingDataError{Field: "daily.shortwave_radiation_sum", Reason: fmt.Sprintf("length %d, want %d", len(d.RadiationSum), n)}
	}
	if len(d.WindSpeedMax) != 0 && len(d.WindSpeedMax) != n {
		return nil, &sim.MissingDataError{Field: "daily.wind_speed_10m_max", Reason: fmt.Sprintf("length %d, want %d", len(d.WindSpeedMax), n)}
	}
	if len(d.TempMax) != 0 && len(d.TempMax) != n {
		return nil, &sim.MissingDataError{Field: "daily.temperature_2m_max", Reason: fmt.Sprintf("length %d, want %d", len(d.TempMax), n)}
	}

	series := make([]sim.ForecastDay, 0, n)
	for i, ts := range d.Time {
		date, err := time.Parse("2006-01-02", ts)
		if err != nil {
			return nil, &sim.MissingDataError{Field: "daily.time", Reason: fmt.Sprintf("bad date %q", ts)}
		}

		radiation := 0.0
		if len(d.RadiationSum) == n {
			radiation = d.RadiationSum[i]
		}
		windMax := 0.0
		if len(d.WindSpeedMax) == n {
			windMax = d.WindSpeedMax[i]
		}
		var tempMax *float64
		if len(d.TempMax) == n {
			tempMax = d.TempMax[i]
		}

		series = append(series, sim.NewForecastDay(date, radiation, windMax, tempMax))
	}

	return series, nil
}
