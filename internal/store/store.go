package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ecowatt/internal/sim"
	_ "modernc.org/sqlite"
)

// Store handles persistent storage using SQLite: a forecast cache keyed by
// request, and the history of analysis runs.
type Store struct {
	db *sql.DB
}

// NewStore creates a new store and initializes the database
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize creates the database schema
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS forecast_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		days INTEGER NOT NULL,
		series TEXT NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(latitude, longitude, days)
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		config TEXT NOT NULL,
		summary TEXT NOT NULL,
		result TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_forecast_cache_loc ON forecast_cache(latitude, longitude, days);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CacheForecast stores a fetched forecast series for a request shape.
func (s *Store) CacheForecast(lat, lon float64, days int, series []sim.ForecastDay) error {
	seriesJSON, err := json.Marshal(series)
	if err != nil {
		return err
	}

	query := `INSERT OR REPLACE INTO forecast_cache (latitude, longitude, days, series, fetched_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query, lat, lon, days, string(seriesJSON), time.Now())
	return err
}

// GetCachedForecast retrieves a cached series no older than maxAge.
// sql.ErrNoRows signals a miss, stale entries included.
func (s *Store) GetCachedForecast(lat, lon float64, days int, maxAge time.Duration) ([]sim.ForecastDay, error) {
	query := `SELECT series, fetched_at FROM forecast_cache
		WHERE latitude = ? AND longitude = ? AND days = ?`

	var seriesJSON string
	var fetchedAt time.Time
	err := s.db.QueryRow(query, lat, lon, days).Scan(&seriesJSON, &fetchedAt)
	if err != nil {
		return nil, err
	}

	if time.Since(fetchedAt) > maxAge {
		return nil, sql.ErrNoRows
	}

	var series []sim.ForecastDay
	if err := json.Unmarshal([]byte(seriesJSON), &series); err != nil {
		return nil, err
	}

	return series, nil
}

// RunRecord is a stored analysis run with its identifying metadata.
type RunRecord struct {
	ID        int64          `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Result    *sim.RunResult `json:"result,omitempty"`
}

// RunListing is the lightweight shape returned by ListRuns.
type RunListing struct {
	ID             int64                 `json:"id"`
	CreatedAt      time.Time             `json:"created_at"`
	Latitude       float64               `json:"latitude"`
	Longitude      float64               `json:"longitude"`
	EcoWattScore   float64               `json:"eco_watt_score"`
	Recommendation sim.RecommendationTag `json:"recommendation"`
}

// SaveRun persists a completed run and returns its id.
func (s *Store) SaveRun(lat, lon float64, res *sim.RunResult) (int64, error) {
	configJSON, err := json.Marshal(res.Config)
	if err != nil {
		return 0, err
	}
	summaryJSON, err := json.Marshal(res.Summary)
	if err != nil {
		return 0, err
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO runs (created_at, latitude, longitude, config, summary, result)
		VALUES (?, ?, ?, ?, ?, ?)`

	r, err := s.db.Exec(query, time.Now(), lat, lon, string(configJSON), string(summaryJSON), string(resultJSON))
	if err != nil {
		return 0, err
	}
	return r.LastInsertId()
}

// GetRun retrieves a stored run by id, full result included.
func (s *Store) GetRun(id int64) (*RunRecord, error) {
	query := `SELECT id, created_at, latitude, longitude, result FROM runs WHERE id = ?`

	var rec RunRecord
	var resultJSON string
	err := s.db.QueryRow(query, id).Scan(&rec.ID, &rec.CreatedAt, &rec.Latitude, &rec.Longitude, &resultJSON)
	if err != nil {
		return nil, err
	}

	var res sim.RunResult
	if err := json.Unmarshal([]byte(resultJSON), &res); err != nil {
		return nil, err
	}
	rec.Result = &res

	return &rec, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunListing, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, created_at, latitude, longitude, summary FROM runs
		ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []RunListing{}
	for rows.Next() {
		var l RunListing
		var summaryJSON string
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Latitude, &l.Longitude, &summaryJSON); err != nil {
			continue
		}

		var summary sim.RunSummary
		if err := json.Unmarshal([]byte(summaryJSON), &summary); err == nil {
			l.EcoWattScore = summary.EcoWattScore
			l.Recommendation = sim.Select(summary)
		}

		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// DeleteRun deletes a stored run by id.
func (s *Store) DeleteRun(id int64) error {
	query := `DELETE FROM runs WHERE id = ?`
	_, err := s.db.Exec(query, id)
	return err
}
