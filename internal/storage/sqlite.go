// Package storage provides score persistence: a SQLite leaderboard for
// named players and a YAML best-score file for guests.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tricky-turns/internal/core"
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single recorded run.
type ScoreEntry struct {
	ID        int64
	ModeID    int
	Player    string
	Score     int
	CreatedAt time.Time
}

// expandHome expands a leading ~ to the home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode_id INTEGER NOT NULL,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(mode_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(mode_id, player);
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

// parseTime handles both time.Time and the SQLite text format.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a run for a player in a mode.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(ctx context.Context, modeID int, player string, score int) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO scores (mode_id, player, score) VALUES (?, ?, ?)",
		modeID, player, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N runs for a mode, best first.
func (s *Store) TopScores(ctx context.Context, modeID int, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(ctx,
		`SELECT id, mode_id, player, score, created_at
		 FROM scores
		 WHERE mode_id = ?
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		modeID, limit,
	)
}

// AllScores retrieves all runs for a mode (no limit).
func (s *Store) AllScores(ctx context.Context, modeID int) ([]ScoreEntry, error) {
	return s.queryScores(ctx,
		`SELECT id, mode_id, player, score, created_at
		 FROM scores
		 WHERE mode_id = ?
		 ORDER BY score DESC`,
		modeID,
	)
}

func (s *Store) queryScores(ctx context.Context, query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.ModeID, &e.Player, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Leaders returns each player's best score in a mode, best first.
func (s *Store) Leaders(ctx context.Context, modeID int, limit int) ([]core.Ranked, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player, MAX(score) AS best
		 FROM scores
		 WHERE mode_id = ?
		 GROUP BY player
		 ORDER BY best DESC, player ASC
		 LIMIT ?`,
		modeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaders: %w", err)
	}
	defer rows.Close()

	var leaders []core.Ranked
	for rows.Next() {
		var r core.Ranked
		if err := rows.Scan(&r.Player, &r.Score); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		leaders = append(leaders, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return leaders, nil
}

// BestFor returns a player's best score in a mode, 0 if none.
func (s *Store) BestFor(ctx context.Context, modeID int, player string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM scores WHERE mode_id = ? AND player = ?",
		modeID, player,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Rank returns a player's 1-based rank among players by best score in a
// mode. Ties share a rank. Returns 0 if the player has no score.
func (s *Store) Rank(ctx context.Context, modeID int, player string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM scores WHERE mode_id = ? AND player = ?",
		modeID, player,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query rank: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}

	var ahead int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (
			SELECT player FROM scores
			WHERE mode_id = ?
			GROUP BY player
			HAVING MAX(score) > ?
		 )`,
		modeID, best.Int64,
	).Scan(&ahead)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query rank: %w", err)
	}
	return ahead + 1, nil
}

// Standing loads the top players of a mode and the given player's rank.
// Load errors are reported in the result.
func (s *Store) Standing(ctx context.Context, modeID int, player string, limit int) core.Standing {
	top, err := s.Leaders(ctx, modeID, limit)
	if err != nil {
		return core.Standing{Err: err}
	}
	rank, err := s.Rank(ctx, modeID, player)
	if err != nil {
		return core.Standing{Err: err}
	}
	return core.Standing{Top: top, Rank: rank}
}

// HighScore returns the highest score in a mode.
// Returns 0 if no scores exist.
func (s *Store) HighScore(ctx context.Context, modeID int) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM scores WHERE mode_id = ?",
		modeID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for a mode.
func (s *Store) ClearScores(ctx context.Context, modeID int) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM scores WHERE mode_id = ?", modeID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// ModeStats contains aggregated statistics for a mode.
type ModeStats struct {
	ModeID     int
	Runs       int
	Players    int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// GetModeStats retrieves aggregated statistics for a mode.
func (s *Store) GetModeStats(ctx context.Context, modeID int) (*ModeStats, error) {
	stats := &ModeStats{ModeID: modeID}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT player), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)
		 FROM scores WHERE mode_id = ?`,
		modeID,
	).Scan(&stats.Runs, &stats.Players, &stats.HighScore, &stats.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM scores WHERE mode_id = ? ORDER BY created_at DESC LIMIT 1`,
		modeID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// Leaderboard is a player's view of the store. It implements
// core.ScoreStore.
type Leaderboard struct {
	store  *Store
	player string
}

// Leaderboard returns the score store for one player.
func (s *Store) Leaderboard(player string) *Leaderboard {
	return &Leaderboard{store: s, player: player}
}

// Best implements core.ScoreStore.
func (l *Leaderboard) Best(ctx context.Context, modeID int) (int, error) {
	return l.store.BestFor(ctx, modeID, l.player)
}

// Submit implements core.ScoreStore.
func (l *Leaderboard) Submit(ctx context.Context, modeID int, score int) error {
	_, err := l.store.SaveScore(ctx, modeID, l.player, score)
	return err
}

var _ core.ScoreStore = (*Leaderboard)(nil)
