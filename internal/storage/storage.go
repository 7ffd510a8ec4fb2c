// Package storage is the persistence collaborator: sqlite-backed storage of
// the weight profile and the analysis history. The core tolerates every
// failure here by falling back to in-memory state.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/credlens/credlens/internal/analysis"
	"github.com/credlens/credlens/internal/weights"
)

const schema = `
CREATE TABLE IF NOT EXISTS weight_profile (
	name   TEXT PRIMARY KEY,
	weight REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS analyses (
	id          TEXT PRIMARY KEY,
	text        TEXT NOT NULL,
	score       REAL NOT NULL,
	verdict     TEXT NOT NULL,
	analyzed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);
`

// Store wraps the sqlite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens (or creates) the database under dataDir and applies the schema.
func New(dataDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "credlens.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info("database initialized", "path", dbPath)
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadWeights returns the persisted weight profile, or nil when none has
// been saved yet.
func (s *Store) LoadWeights() (weights.Profile, error) {
	rows, err := s.db.Query(`SELECT name, weight FROM weight_profile`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weight profile: %w", err)
	}
	defer rows.Close()

	profile := weights.Profile{}
	for rows.Next() {
		var name string
		var weight float64
		if err := rows.Scan(&name, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan weight row: %w", err)
		}
		profile[name] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read weight rows: %w", err)
	}
	if len(profile) == 0 {
		return nil, nil
	}
	return profile, nil
}

// SaveWeights replaces the persisted profile in one transaction.
func (s *Store) SaveWeights(profile weights.Profile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM weight_profile`); err != nil {
		return fmt.Errorf("failed to clear weight profile: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO weight_profile (name, weight) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()
	for name, weight := range profile {
		if _, err := stmt.Exec(name, weight); err != nil {
			return fmt.Errorf("failed to insert weight %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// ClearWeights removes any persisted override so defaults apply on next load.
func (s *Store) ClearWeights() error {
	if _, err := s.db.Exec(`DELETE FROM weight_profile`); err != nil {
		return fmt.Errorf("failed to clear weight profile: %w", err)
	}
	return nil
}

// AppendAnalysis records one completed analysis for history reload.
func (s *Store) AppendAnalysis(text string, score float64, verdict string, ts time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO analyses (id, text, score, verdict, analyzed_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), text, score, verdict, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit history entries, oldest first, ready to
// seed the in-memory log.
func (s *Store) RecentHistory(limit int) ([]analysis.HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT text, score, analyzed_at FROM analyses ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var newestFirst []analysis.HistoryEntry
	for rows.Next() {
		var text string
		var score float64
		var ts time.Time
		if err := rows.Scan(&text, &score, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		newestFirst = append(newestFirst, analysis.HistoryEntry{
			Fingerprint: analysis.Fingerprint(text),
			Score:       score,
			Timestamp:   ts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}
	// Reverse to oldest-first.
	for i, j := 0, len(newestFirst)-1; i < j; i, j = i+1, j-1 {
		newestFirst[i], newestFirst[j] = newestFirst[j], newestFirst[i]
	}
	return newestFirst, nil
}

// RecentAnalyses returns display rows for the history endpoint, newest first.
func (s *Store) RecentAnalyses(limit int) ([]AnalysisRow, error) {
	rows, err := s.db.Query(
		`SELECT id, score, verdict, analyzed_at FROM analyses ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var result []AnalysisRow
	for rows.Next() {
		var row AnalysisRow
		if err := rows.Scan(&row.ID, &row.Score, &row.Verdict, &row.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// AnalysisRow is one stored analysis, without the submitted text.
type AnalysisRow struct {
	ID         string    `json:"id"`
	Score      float64   `json:"score"`
	Verdict    string    `json:"verdict"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}
