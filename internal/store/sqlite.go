package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ValueScreener/internal/calibration"
	"ValueScreener/internal/model"
)

// SQLiteStore persists screening tables and calibration results to a SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the daily refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screen_results (
			country          TEXT NOT NULL,
			symbol           TEXT NOT NULL,
			name             TEXT,
			sector           TEXT,
			currency         TEXT,
			market_cap       REAL,
			multiple         REAL,
			is_recommended   INTEGER NOT NULL,
			sales_trend      TEXT NOT NULL,
			vip_pass         INTEGER NOT NULL,
			strong_recommend INTEGER NOT NULL,
			rejection_reason TEXT,
			asof             INTEGER,
			rank             INTEGER NOT NULL,
			PRIMARY KEY (country, symbol)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_screen_country_rank ON screen_results(country, rank)`,

		`CREATE TABLE IF NOT EXISTS refresh_meta (
			country      TEXT PRIMARY KEY,
			refreshed_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS calibration_results (
			country    TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			payload    TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveScreen replaces the stored table for a country and records the refresh
// time.
func (s *SQLiteStore) SaveScreen(country string, rows []model.ScreenRow, refreshedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM screen_results WHERE country = ?`, country); err != nil {
		return fmt.Errorf("clear screen rows: %w", err)
	}
	for rank, row := range rows {
		var asof *int64
		if row.AsOf != nil {
			ts := row.AsOf.Unix()
			asof = &ts
		}
		_, err := tx.Exec(`INSERT INTO screen_results
			(country, symbol, name, sector, currency, market_cap, multiple,
			 is_recommended, sales_trend, vip_pass, strong_recommend,
			 rejection_reason, asof, rank)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			country, row.Symbol, row.Name, row.Sector, row.Currency,
			fromPtr(row.MarketCap), fromPtr(row.Multiple),
			boolToInt(row.IsRecommended), string(row.SalesTrend),
			boolToInt(row.VIPPass), boolToInt(row.StrongRecommend),
			row.RejectionReason, asof, rank,
		)
		if err != nil {
			return fmt.Errorf("insert screen row %s: %w", row.Symbol, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO refresh_meta (country, refreshed_at) VALUES (?, ?)
		ON CONFLICT(country) DO UPDATE SET refreshed_at = excluded.refreshed_at`,
		country, refreshedAt.Unix()); err != nil {
		return fmt.Errorf("update refresh meta: %w", err)
	}
	return tx.Commit()
}

// LoadScreen returns the stored table in rank order plus its refresh time.
func (s *SQLiteStore) LoadScreen(country string) ([]model.ScreenRow, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var refreshedAt int64
	err := s.db.QueryRow(`SELECT refreshed_at FROM refresh_meta WHERE country = ?`, country).Scan(&refreshedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query refresh meta: %w", err)
	}

	rows, err := s.db.Query(`SELECT symbol, name, sector, currency, market_cap, multiple,
		is_recommended, sales_trend, vip_pass, strong_recommend, rejection_reason, asof
		FROM screen_results WHERE country = ? ORDER BY rank`, country)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query screen rows: %w", err)
	}
	defer rows.Close()

	var out []model.ScreenRow
	for rows.Next() {
		var row model.ScreenRow
		var marketCap, multiple sql.NullFloat64
		var recommended, vip, strong int
		var trend string
		var asof sql.NullInt64
		if err := rows.Scan(&row.Symbol, &row.Name, &row.Sector, &row.Currency,
			&marketCap, &multiple, &recommended, &trend, &vip, &strong,
			&row.RejectionReason, &asof); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan screen row: %w", err)
		}
		row.Country = country
		if marketCap.Valid {
			row.MarketCap = model.Float(marketCap.Float64)
		}
		if multiple.Valid {
			row.Multiple = model.Float(multiple.Float64)
		}
		row.IsRecommended = recommended != 0
		row.SalesTrend = model.SalesTrend(trend)
		row.VIPPass = vip != 0
		row.StrongRecommend = strong != 0
		if asof.Valid {
			ts := time.Unix(asof.Int64, 0).UTC()
			row.AsOf = &ts
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate screen rows: %w", err)
	}
	return out, time.Unix(refreshedAt, 0).UTC(), nil
}

// SaveCalibration stores the ranked grid table for a country.
func (s *SQLiteStore) SaveCalibration(result *calibration.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal calibration result: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO calibration_results (country, created_at, payload) VALUES (?,?,?)
		ON CONFLICT(country) DO UPDATE SET created_at = excluded.created_at, payload = excluded.payload`,
		result.Country, result.CreatedAt.Unix(), string(payload))
	return err
}

// LoadCalibration returns the stored result for a country, nil when absent.
func (s *SQLiteStore) LoadCalibration(country string) (*calibration.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRow(`SELECT payload FROM calibration_results WHERE country = ?`, country).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query calibration: %w", err)
	}
	var result calibration.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshal calibration result: %w", err)
	}
	return &result, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

func fromPtr(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
