// Package sqlite stores game definitions and their best scores in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/everforgeworks/galaxies-countdown/internal/storage/sqlite/migrations"
)

// ErrNotFound is returned when a game id does not exist.
var ErrNotFound = errors.New("record not found")

// GameRecord is a stored game definition.
type GameRecord struct {
	ID         string
	Name       string
	Definition []byte
	CreatedAt  time.Time
}

// GameSummary is one catalog entry.
type GameSummary struct {
	ID   string `json:"uuid"`
	Name string `json:"name"`
}

// TopScore is one leaderboard row.
type TopScore struct {
	Name   string `json:"name"`
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// Store persists the game catalog in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateGame stores a validated definition under a fresh id.
func (s *Store) CreateGame(ctx context.Context, name string, definition []byte) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("game name is required")
	}
	if len(definition) == 0 {
		return "", fmt.Errorf("game definition is required")
	}
	id := uuid.NewString()
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO games (id, name, definition, max_score, best_player, created_at)
		 VALUES (?, ?, ?, NULL, NULL, ?)`,
		id, name, definition, toMillis(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	return id, nil
}

// GetGame returns one stored definition.
func (s *Store) GetGame(ctx context.Context, id string) (GameRecord, error) {
	var (
		rec       GameRecord
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, name, definition, created_at FROM games WHERE id = ?", id,
	).Scan(&rec.ID, &rec.Name, &rec.Definition, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, ErrNotFound
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("get game: %w", err)
	}
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}

// ListGames returns the catalog, oldest first.
func (s *Store) ListGames(ctx context.Context) ([]GameSummary, error) {
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT id, name FROM games ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []GameSummary{}
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// SubmitScore keeps score for gameID when it beats the stored best.
// Ties keep the earlier player.
func (s *Store) SubmitScore(ctx context.Context, player string, score int, gameID string) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE games
		 SET best_player = CASE WHEN max_score IS NULL OR max_score < ?1 THEN ?2 ELSE best_player END,
		     max_score   = CASE WHEN max_score IS NULL OR max_score < ?1 THEN ?1 ELSE max_score END
		 WHERE id = ?3`,
		score, player, gameID,
	)
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TopScores returns the best scores across all games, highest first.
func (s *Store) TopScores(ctx context.Context, limit int) ([]TopScore, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, best_player, max_score FROM games
		 WHERE max_score IS NOT NULL
		 ORDER BY max_score DESC, created_at
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	scores := []TopScore{}
	for rows.Next() {
		var ts TopScore
		if err := rows.Scan(&ts.Name, &ts.Player, &ts.Score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	return scores, nil
}
