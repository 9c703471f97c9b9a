// Package storage provides SQLite-based persistence for session results
// and song ratings. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/companion-arcade/internal/core"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ResultRecord is one finished session.
type ResultRecord struct {
	ID         int64
	SessionID  string
	GameID     string
	Difficulty core.Difficulty
	Success    bool
	Accuracy   float64
	Tier       core.ResultTier
	Score      int
	MaxCombo   int
	BonusXP    int
	Practice   bool
	CreatedAt  time.Time
}

// RatingRecord is a player's star rating of one song.
type RatingRecord struct {
	ID        int64
	SessionID string
	GameID    string
	Subject   string
	Stars     int
	CreatedAt time.Time
}

// RecordFromResult flattens a session result for storage.
func RecordFromResult(sessionID, gameID string, d core.Difficulty, practice bool, r core.MiniGameResult) ResultRecord {
	return ResultRecord{
		SessionID:  sessionID,
		GameID:     gameID,
		Difficulty: d,
		Success:    r.Success,
		Accuracy:   r.Accuracy,
		Tier:       r.Result,
		Score:      r.HighScoreValue,
		MaxCombo:   r.Stat("max_combo"),
		BonusXP:    r.BonusXP,
		Practice:   practice,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; the async writer serialises anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			success INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			tier TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_combo INTEGER NOT NULL DEFAULT 0,
			bonus_xp INTEGER NOT NULL DEFAULT 0,
			practice INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_game_id ON results(game_id);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS ratings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			game_id TEXT NOT NULL,
			subject TEXT NOT NULL,
			stars INTEGER NOT NULL CHECK (stars BETWEEN 1 AND 5),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_ratings_subject ON ratings(game_id, subject);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished session. Returns the ID of the inserted
// record.
func (s *Store) SaveResult(r ResultRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results
		 (session_id, game_id, difficulty, success, accuracy, tier, score, max_combo, bonus_xp, practice)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.GameID, string(r.Difficulty), r.Success, r.Accuracy,
		string(r.Tier), r.Score, r.MaxCombo, r.BonusXP, r.Practice,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// ErrStars is returned for a rating outside 1-5.
var ErrStars = errors.New("storage: stars must be between 1 and 5")

// SaveRating records a song rating.
func (s *Store) SaveRating(r RatingRecord) error {
	if r.Stars < 1 || r.Stars > 5 {
		return fmt.Errorf("%w: got %d", ErrStars, r.Stars)
	}
	_, err := s.db.Exec(
		"INSERT INTO ratings (session_id, game_id, subject, stars) VALUES (?, ?, ?, ?)",
		r.SessionID, r.GameID, r.Subject, r.Stars,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save rating: %w", err)
	}
	return nil
}

const resultColumns = `id, session_id, game_id, difficulty, success, accuracy, tier,
	score, max_combo, bonus_xp, practice, created_at`

// TopScores retrieves the top N scored runs for the given game. Practice
// runs are left out. Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE game_id = ? AND practice = 0
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanResults(rows)
}

// RecentResults retrieves the latest sessions across every game.
func (s *Store) RecentResults(limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]ResultRecord, error) {
	defer rows.Close()

	var entries []ResultRecord
	for rows.Next() {
		var e ResultRecord
		var difficulty, tier string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.GameID, &difficulty, &e.Success, &e.Accuracy,
			&tier, &e.Score, &e.MaxCombo, &e.BonusXP, &e.Practice, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Difficulty = core.Difficulty(difficulty)
		e.Tier = core.ResultTier(tier)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the best non-practice score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM results WHERE game_id = ? AND practice = 0",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all results for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// RatingSummary is the average rating of one subject.
type RatingSummary struct {
	Subject string
	Average float64
	Count   int
}

// Ratings summarises the ratings given to a game's songs, best first.
func (s *Store) Ratings(gameID string) ([]RatingSummary, error) {
	rows, err := s.db.Query(
		`SELECT subject, AVG(stars), COUNT(*)
		 FROM ratings
		 WHERE game_id = ?
		 GROUP BY subject
		 ORDER BY AVG(stars) DESC, subject ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query ratings: %w", err)
	}
	defer rows.Close()

	var out []RatingSummary
	for rows.Next() {
		var r RatingSummary
		if err := rows.Scan(&r.Subject, &r.Average, &r.Count); err != nil {
			return nil, fmt.Errorf("storage: cannot scan rating: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID      string
	GamesCount  int
	Wins        int
	HighScore   int
	AvgAccuracy float64
	TotalXP     int64
	LastPlayed  time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(success), 0), COALESCE(MAX(score), 0),
		        COALESCE(AVG(accuracy), 0), COALESCE(SUM(bonus_xp), 0), MAX(created_at)
		 FROM results WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.Wins, &stats.HighScore, &stats.AvgAccuracy, &stats.TotalXP, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), SUM(success), MAX(score), AVG(accuracy), SUM(bonus_xp), MAX(created_at)
		 FROM results
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.Wins, &gs.HighScore, &gs.AvgAccuracy, &gs.TotalXP, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = &gs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
