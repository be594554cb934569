package uiapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ecowatt/internal/report"
	"ecowatt/internal/sim"
	"ecowatt/internal/store"
	"ecowatt/internal/weather"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// forecastTTL bounds how long a cached forecast series keeps serving
// requests before a fresh fetch.
const forecastTTL = time.Hour

type Server struct {
	store   *store.Store
	base    sim.SystemConfig
	version string
}

func NewServer(st *store.Store, base sim.SystemConfig, version string) *Server {
	return &Server{
		store:   st,
		base:    base,
		version: version,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for local development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/cities", s.handleCities)
		r.Get("/forecast", s.handleForecast)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
		r.Get("/runs/{id}/export", s.handleExportRun)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, weather.Cities())
}

// resolveLocation turns either a preset city name or explicit coordinates
// into a lat/lon pair.
func resolveLocation(city string, lat, lon *float64) (float64, float64, error) {
	if city != "" {
		la, lo, ok := weather.Coordinates(city)
		if !ok {
			return 0, 0, fmt.Errorf("unknown city %q", city)
		}
		return la, lo, nil
	}
	if lat == nil || lon == nil {
		return 0, 0, errors.New("either city or latitude+longitude is required")
	}
	return *lat, *lon, nil
}

// fetchForecast serves from the store's cache when fresh, otherwise hits the
// provider and refreshes the cache. The simulation itself never sees the
// cache; the identical series feeds the pure pipeline either way.
func (s *Server) fetchForecast(r *http.Request, lat, lon float64, days int) ([]sim.ForecastDay, error) {
	if series, err := s.store.GetCachedForecast(lat, lon, days, forecastTTL); err == nil {
		return series, nil
	}

	client := weather.NewClient(lat, lon)
	series, err := client.Forecast(r.Context(), days)
	if err != nil {
		return nil, err
	}

	if err := s.store.CacheForecast(lat, lon, days, series); err != nil {
		// A cache write failure must not fail the request.
		return series, nil
	}
	return series, nil
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var latPtr, lonPtr *float64
	if v := q.Get("lat"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid lat")
			return
		}
		latPtr = &lat
	}
	if v := q.Get("lon"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid lon")
			return
		}
		lonPtr = &lon
	}

	lat, lon, err := resolveLocation(q.Get("city"), latPtr, lonPtr)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	days := s.base.ForecastDays
	if v := q.Get("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid days")
			return
		}
	}

	series, err := s.fetchForecast(r, lat, lon, days)
	if err != nil {
		respondSimError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, series)
}

// AnalyzeRequest selects a location and optionally overrides the configured
// system sizing. Zero-valued config fields keep the server defaults.
type AnalyzeRequest struct {
	City      string            `json:"city"`
	Latitude  *float64          `json:"latitude"`
	Longitude *float64          `json:"longitude"`
	Config    *sim.SystemConfig `json:"config"`
}

// AnalyzeResponse is a stored run plus its id for later export.
type AnalyzeResponse struct {
	ID     int64          `json:"id"`
	Result *sim.RunResult `json:"result"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lat, lon, err := resolveLocation(req.City, req.Latitude, req.Longitude)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := s.base
	if req.Config != nil {
		cfg = mergeConfig(s.base, *req.Config)
	}
	if err := cfg.Validate(); err != nil {
		respondSimError(w, err)
		return
	}

	series, err := s.fetchForecast(r, lat, lon, cfg.ForecastDays)
	if err != nil {
		respondSimError(w, err)
		return
	}

	result, err := sim.Run(series, cfg)
	if err != nil {
		respondSimError(w, err)
		return
	}

	id, err := s.store.SaveRun(lat, lon, result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "saving run: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{ID: id, Result: result})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

func (s *Server) runID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := s.runID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	rec, err := s.store.GetRun(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, err := s.runID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	if err := s.store.DeleteRun(id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleExportRun(w http.ResponseWriter, r *http.Request) {
	id, err := s.runID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	rec, err := s.store.GetRun(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ecowatt_run_%d.csv"`, id))
	if err := report.WriteRunCSV(w, rec.Result); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// mergeConfig overlays non-zero fields from override onto base, so a request
// can change one slider without restating the whole configuration.
func mergeConfig(base, override sim.SystemConfig) sim.SystemConfig {
	out := base
	if override.SolarPerformanceRatio != 0 {
		out.SolarPerformanceRatio = override.SolarPerformanceRatio
	}
	if override.SolarSizeKW != 0 {
		out.SolarSizeKW = override.SolarSizeKW
	}
	if override.AreaPerKWM2 != 0 {
		out.AreaPerKWM2 = override.AreaPerKWM2
	}
	if override.WindTurbineKW != 0 {
		out.WindTurbineKW = override.WindTurbineKW
	}
	if override.RotorDiameterM != 0 {
		out.RotorDiameterM = override.RotorDiameterM
	}
	if override.PowerCoefficient != 0 {
		out.PowerCoefficient = override.PowerCoefficient
	}
	if override.WindAvailability != 0 {
		out.WindAvailability = override.WindAvailability
	}
	if override.BatteryCapacityKWh != 0 {
		out.BatteryCapacityKWh = override.BatteryCapacityKWh
	}
	if override.BatteryRoundTripEff != 0 {
		out.BatteryRoundTripEff = override.BatteryRoundTripEff
	}
	if override.DailyLoadKWh != 0 {
		out.DailyLoadKWh = override.DailyLoadKWh
	}
	if override.ForecastDays != 0 {
		out.ForecastDays = override.ForecastDays
	}
	if override.GridTariffPerKWh != 0 {
		out.GridTariffPerKWh = override.GridTariffPerKWh
	}
	if override.SolarOMPerKWh != 0 {
		out.SolarOMPerKWh = override.SolarOMPerKWh
	}
	if override.WindOMPerKWh != 0 {
		out.WindOMPerKWh = override.WindOMPerKWh
	}
	return out
}

// respondSimError maps the simulation error taxonomy onto HTTP statuses:
// bad configuration and malformed forecast data are the caller's problem,
// a numeric guard trip is ours.
func respondSimError(w http.ResponseWriter, err error) {
	var cfgErr *sim.ConfigError
	var missingErr *sim.MissingDataError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &missingErr):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
